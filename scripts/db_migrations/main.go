package main

import (
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Applies the embedded schema migrations without starting the server.
func main() {
	logging.SetupLogging()

	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	if err := storage.Migrate(env.PostgresDSN()); err != nil {
		logrus.WithError(err).Fatal("storage.Migrate")
		return
	}
}
