package injector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/phosphor/internal/config"
	"github.com/zeusync/phosphor/internal/core/app"
)

func TestBuildWiresRuntime(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendHeadless
	cfg.Window.TickRate = 0
	cfg.Log.Level = "error"

	rt, cleanup, err := Build(cfg, app.NewHeadlessSource(2))
	require.NoError(t, err)
	defer cleanup()

	assert.Same(t, rt.App.World().Logger(), rt.Logger)
	require.NoError(t, rt.App.Run(context.Background()))
	assert.Equal(t, app.StateStopped, rt.App.State())
	assert.Zero(t, rt.Inspector.Clients())
}

func TestBuildRejectsBadLogOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Output = []string{"/nonexistent/dir/phosphor.log"}
	_, _, err := Build(cfg, app.NewHeadlessSource(1))
	assert.Error(t, err)
}
