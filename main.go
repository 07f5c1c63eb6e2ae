package main

import (
	"fmt"
	"log"

	"github.com/auy1jlll/pizza-vx-sub002/configs"
	"github.com/auy1jlll/pizza-vx-sub002/pkg/resilient"
	"github.com/auy1jlll/pizza-vx-sub002/routes"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg)
	db := configs.DB()

	// migrate + seed
	configs.SetupDatabase()
	if err := configs.SeedCatalog(); err != nil {
		log.Fatalf("seed catalog failed: %v", err)
	}
	if err := configs.SeedPromotions(); err != nil {
		log.Fatalf("seed promotions failed: %v", err)
	}

	// background liveness probe for the catalog store
	monitor := resilient.NewHealthMonitor(func() error {
		return db.Exec("SELECT 1").Error
	}, clockwork.NewRealClock())
	if err := monitor.Start(); err != nil {
		log.Fatalf("health monitor failed: %v", err)
	}
	defer monitor.Stop()

	// HTTP
	r := gin.Default()
	routes.RegisterRoutes(r, db, cfg, monitor)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
