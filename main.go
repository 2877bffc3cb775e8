package main

import (
	"fmt"
	"log"

	"axiom/internal/config"
	"axiom/internal/db"
	"axiom/internal/router"
	"axiom/internal/service"
	"axiom/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var experiments storage.ExperimentRepository
	var runs storage.RunRepository
	if cfg.Database.Enabled() {
		gdb, err := db.InitDB(cfg)
		if err != nil {
			log.Fatalf("init database: %v", err)
		}
		experiments = storage.NewGormExperimentRepository(gdb)
		runs = storage.NewGormRunRepository(gdb)
	} else {
		log.Println("no database configured, using in-memory storage")
		experiments = storage.NewMemoryExperimentRepository()
		runs = storage.NewMemoryRunRepository()
	}

	svcCtx := service.NewServiceContext(experiments, runs)
	r := router.SetupRouter(svcCtx)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("start server: %v", err)
	}
}
