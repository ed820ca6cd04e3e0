package main

import (
	"context"
	"log"

	"rms/internal/config"
	"rms/internal/http/handlers"
	applog "rms/internal/log"
	"rms/internal/repos"
	"rms/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	closer, err := applog.Setup(cfg.LogFile)
	if err != nil {
		log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
	} else if closer != nil {
		defer closer.Close()
	}

	db, err := repos.OpenDB(context.Background(), repos.Options{
		Driver:  cfg.DBDriver,
		DSN:     cfg.DBDSN,
		Retries: cfg.DBConnectRetries,
		Seed:    cfg.SeedDemo,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Till operator
	authSvc, err := services.NewAuthService(cfg.AdminUser, cfg.AdminPassword)
	if err != nil {
		log.Fatal(err)
	}

	app := handlers.NewApp(cfg, handlers.NewDeps(db, cfg, authSvc))

	log.Printf("[server] listening on :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
