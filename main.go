package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
)

var (
	cfg     Config
	sweeper *TokenSweeper
)

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()
	cfg = loadConfig()

	// Support a lightweight migrate command: `./task-manager-pro migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	sweeper = newTokenSweeper(tokenStore, cfg.SweepInterval)
	stop := make(chan struct{})
	defer close(stop)
	go sweeper.Run(stop)

	r := gin.Default()

	setupRoutes(r)

	r.Run(cfg.Addr)
}
