package cli

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/ticketsync/internal/app"
	"github.com/runoshun/ticketsync/internal/domain"
	"github.com/runoshun/ticketsync/internal/usecase"
)

// Output formats of the config command.
const (
	formatTOML = "toml"
	formatYAML = "yaml"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	var format string
	var template bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Configuration is merged in order: defaults <- global
($XDG_CONFIG_HOME/ticketsync/config.toml) <- workspace (.ticketsync/config.toml).
Command-line flags override the result.

With --template, print a commented config file for the effective values instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatTOML && format != formatYAML {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatTOML, formatYAML)
			}

			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if template {
				tmpl, err := c.ShowConfigTemplateUseCase().Execute(cmd.Context(), usecase.ShowConfigTemplateInput{
					Config: out.EffectiveConfig,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(w, tmpl.Template)
				return nil
			}

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, info := range []domain.ConfigInfo{out.GlobalConfig, out.RepoConfig} {
				if info.Exists {
					_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
				}
			}
			_, _ = fmt.Fprintln(w)

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.EffectiveConfig, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTOML, "Output format: toml or yaml")
	cmd.Flags().BoolVar(&template, "template", false, "Print a commented config template instead")

	return cmd
}

// formatEffectiveConfig writes cfg in the given format.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config, format string) error {
	output := configMap(cfg)

	var err error
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(output)
		if err == nil {
			err = enc.Close()
		}
	} else {
		err = toml.NewEncoder(w).Encode(output)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// configMap converts cfg into nested maps keyed by the toml tags, so that
// every encoder uses the config file's key names.
// Uses reflection to automatically handle domain.Config structure changes.
func configMap(cfg *domain.Config) map[string]any {
	output := make(map[string]any)

	cfgVal := reflect.ValueOf(cfg).Elem()
	cfgType := cfgVal.Type()
	for i := 0; i < cfgVal.NumField(); i++ {
		name := tomlName(cfgType.Field(i))
		if name == "" {
			continue
		}
		section := cfgVal.Field(i)
		if section.Kind() != reflect.Struct {
			output[name] = section.Interface()
			continue
		}

		values := make(map[string]any)
		for j := 0; j < section.NumField(); j++ {
			if key := tomlName(section.Type().Field(j)); key != "" {
				values[key] = section.Field(j).Interface()
			}
		}
		output[name] = values
	}

	// Durations are written as strings in the config file.
	if create, ok := output["create"].(map[string]any); ok {
		create["delay"] = cfg.Create.Delay.String()
	}
	return output
}

func tomlName(f reflect.StructField) string {
	tag := f.Tag.Get("toml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}
