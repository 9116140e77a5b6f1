//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/Jacobbrewer1/ticketbot/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/platform"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

func InitializeApp(ctx context.Context, path configPath) (*App, func(), error) {
	wire.Build(
		wire.Value(logging.Name(config.AppName)),
		logging.NewConfig,
		logging.CommonLogger,
		provideConfig,
		provideSession,
		platform.NewDiscord,
		wire.Bind(new(platform.Adapter), new(*platform.Discord)),
		provideBackend,
		dataaccess.NewStore,
		wire.Bind(new(dataaccess.ConfigStore), new(*dataaccess.Store)),
		ticketing.NewPanel,
		ticketing.NewSetupFlow,
		provideManager,
		newClickThrottle,
		mux.NewRouter,
		NewApp,
	)
	return new(App), nil, nil
}
