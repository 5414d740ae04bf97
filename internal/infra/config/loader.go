// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/ticketsync/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	appDir        string // Path to the workspace .ticketsync directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/ticketsync)
}

// NewLoader creates a new Loader.
func NewLoader(appDir string) *Loader {
	return &Loader{
		appDir:        appDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(appDir, globalConfDir string) *Loader {
	return &Loader{
		appDir:        appDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Each file only overrides the keys it sets: default <- global <- workspace.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	paths := make([]string, 0, 2)
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, domain.ConfigFileName))
	}
	if l.appDir != "" {
		paths = append(paths, filepath.Join(l.appDir, domain.ConfigFileName))
	}

	for _, path := range paths {
		raw, err := l.loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		warnings := applyRaw(cfg, raw)
		for _, w := range warnings {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: %s", path, w))
		}
	}

	return cfg, nil
}

// loadFile reads a TOML file into a raw map.
func (l *Loader) loadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// applyRaw overlays the keys present in raw onto cfg and returns warnings
// for unknown sections, unknown keys and values of the wrong type.
func applyRaw(cfg *domain.Config, raw map[string]any) []string {
	var warnings []string
	warnType := func(section, key, want string) {
		warnings = append(warnings, fmt.Sprintf("invalid value for [%s] %s: want %s", section, key, want))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}

		switch section {
		case "remote":
			for k, v := range m {
				switch k {
				case "repository":
					if s, ok := v.(string); ok {
						cfg.Remote.Repository = s
					} else {
						warnType(section, k, "string")
					}
				case "name":
					if s, ok := v.(string); ok && s != "" {
						cfg.Remote.Name = s
					} else {
						warnType(section, k, "non-empty string")
					}
				case "gh":
					if s, ok := v.(string); ok && s != "" {
						cfg.Remote.GH = s
					} else {
						warnType(section, k, "non-empty string")
					}
				case "limit":
					if n, ok := v.(int64); ok && n > 0 {
						cfg.Remote.Limit = int(n)
					} else {
						warnType(section, k, "positive integer")
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [remote]: %s", k))
				}
			}
		case "sources":
			for k, v := range m {
				switch k {
				case "dir":
					if s, ok := v.(string); ok && s != "" {
						cfg.Sources.Dir = s
					} else {
						warnType(section, k, "non-empty string")
					}
				case "patterns":
					if list, ok := stringList(v); ok {
						cfg.Sources.Patterns = list
					} else {
						warnType(section, k, "array of strings")
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [sources]: %s", k))
				}
			}
		case "files":
			targets := map[string]*string{
				"candidates": &cfg.Files.Candidates,
				"issue_map":  &cfg.Files.IssueMap,
				"exported":   &cfg.Files.Exported,
			}
			for k, v := range m {
				target, known := targets[k]
				if !known {
					warnings = append(warnings, fmt.Sprintf("unknown key in [files]: %s", k))
					continue
				}
				if s, ok := v.(string); ok && s != "" {
					*target = s
				} else {
					warnType(section, k, "non-empty string")
				}
			}
		case "reconcile":
			for k, v := range m {
				switch k {
				case "required_markers":
					if list, ok := stringList(v); ok {
						cfg.Reconcile.RequiredMarkers = list
					} else {
						warnType(section, k, "array of strings")
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [reconcile]: %s", k))
				}
			}
		case "create":
			for k, v := range m {
				switch k {
				case "delay":
					if d, ok := parseDelay(v); ok {
						cfg.Create.Delay = d
					} else {
						warnType(section, k, "duration (e.g. \"500ms\")")
					}
				case "burst":
					if n, ok := v.(int64); ok && n > 0 {
						cfg.Create.Burst = int(n)
					} else {
						warnType(section, k, "positive integer")
					}
				case "link_comment":
					if b, ok := v.(bool); ok {
						cfg.Create.LinkComment = b
					} else {
						warnType(section, k, "boolean")
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [create]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						cfg.Log.Level = s
					} else {
						warnType(section, k, "string")
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	return warnings
}

// stringList converts a TOML array into a list of strings.
func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// parseDelay accepts a duration string, or a number of seconds.
func parseDelay(v any) (time.Duration, bool) {
	switch val := v.(type) {
	case string:
		d, err := time.ParseDuration(val)
		if err != nil || d < 0 {
			return 0, false
		}
		return d, true
	case int64:
		if val < 0 {
			return 0, false
		}
		return time.Duration(val) * time.Second, true
	case float64:
		if val < 0 {
			return 0, false
		}
		return time.Duration(val * float64(time.Second)), true
	default:
		return 0, false
	}
}
