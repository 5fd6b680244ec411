package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbak/minbak-web/config"
	"github.com/minbak/minbak-web/internal/devseed"
)

func TestParseSeedFlags(t *testing.T) {
	opts, err := parseSeedFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, devseed.DefaultPassword, opts.Password)
	assert.False(t, opts.Force)

	opts, err = parseSeedFlags([]string{"--password", "another-pass", "--force"})
	require.NoError(t, err)
	assert.Equal(t, "another-pass", opts.Password)
	assert.True(t, opts.Force)

	_, err = parseSeedFlags([]string{"--password", "short"})
	require.Error(t, err)
}

func TestRunSeedRefusesProduction(t *testing.T) {
	var out bytes.Buffer
	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: config.AppConfig{Environment: "production"},
		Out:    &out,
	}

	err := runSeed(cmdCtx, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Empty(t, out.String())
}
