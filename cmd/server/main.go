package main

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/saracristina-sh3/auth-suite-sub000/migrate"
	"github.com/saracristina-sh3/auth-suite-sub000/seed"
	"github.com/saracristina-sh3/auth-suite-sub000/server"
)

func main() {
	var log *zap.Logger
	var err error
	if strings.EqualFold(os.Getenv("APP_ENV"), "local") || os.Getenv("APP_ENV") == "" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := server.GetConfig()

	// both are no-ops unless MIGRATE_ON_START / SEED_ON_START are set
	if err := migrate.RunFromEnv(); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}
	if err := seed.RunFromEnv(); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("server init failed", zap.Error(err))
	}
	if err := srv.Run(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
