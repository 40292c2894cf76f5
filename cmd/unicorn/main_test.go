package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-unicorn/internal/config"
	"github.com/coreman2200/funtimes-unicorn/internal/led"
	"github.com/coreman2200/funtimes-unicorn/internal/render"
)

func TestNewScene(t *testing.T) {
	dim := led.Dimensions{Width: 17, Height: 7}
	cfg := config.Default()

	cfg.Mode = "sweep"
	s, err := newScene(context.Background(), cfg, dim)
	require.NoError(t, err)
	assert.IsType(t, &render.SweepScene{}, s)

	cfg.Mode = "memory"
	s, err = newScene(context.Background(), cfg, dim)
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Name())

	cfg.Mode = "fireworks"
	_, err = newScene(context.Background(), cfg, dim)
	assert.Error(t, err)
}
