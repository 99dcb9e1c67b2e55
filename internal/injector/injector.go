//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/phosphor/internal/config"
	"github.com/zeusync/phosphor/internal/core/app"
)

func Build(cfg config.Config, src app.EventSource) (*Runtime, func(), error) {
	wire.Build(Set)
	return nil, nil, nil
}
