package usecase_test

import (
	"context"
	"testing"

	"github.com/runoshun/ticketsync/internal/domain"
	"github.com/runoshun/ticketsync/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowConfigTemplate_Execute(t *testing.T) {
	out, err := usecase.NewShowConfigTemplate().Execute(context.Background(), usecase.ShowConfigTemplateInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.RenderConfigTemplate(domain.NewDefaultConfig()), out.Template)
	assert.Contains(t, out.Template, "[remote]")
}

func TestShowConfigTemplate_CustomConfig(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.Remote.GH = "/opt/bin/gh"

	out, err := usecase.NewShowConfigTemplate().Execute(context.Background(), usecase.ShowConfigTemplateInput{Config: cfg})
	require.NoError(t, err)
	assert.Contains(t, out.Template, "/opt/bin/gh")
}
