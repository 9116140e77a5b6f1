package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	path := pflag.String("config", "", "Path to the YAML config file. Environment variables take precedence.")
	pflag.Parse()

	// A .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalln(err)
	}

	a, cleanup, err := InitializeApp(context.Background(), configPath(*path))
	if err != nil {
		log.Fatalln(err)
	}

	a.Info("Starting application")
	if err := a.Run(); err != nil {
		a.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		cleanup()
		os.Exit(1)
	}
	cleanup()
}
