package main

import (
	"github.com/cppla/socialnet/config"
	"github.com/cppla/socialnet/models"
	"github.com/cppla/socialnet/routes"
	"github.com/cppla/socialnet/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.OpenDatabase(cfg, models.All()...)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}
	rdb := utils.NewRedis(cfg)

	r := routes.SetupRouter(cfg, db, rdb)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	closers := []func() error{}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB.Close)
	}
	if rdb != nil {
		closers = append(closers, rdb.Close)
	}
	if err := utils.GraceServer(":"+cfg.AppPort, r, closers...); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
