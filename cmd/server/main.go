package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/liangwei/kuaikuaichuhai-website/internal/app"
	"github.com/liangwei/kuaikuaichuhai-website/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	check := flag.Bool("check", false, "validate config, ping the content store and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to create app: ", err)
	}

	if *check {
		err := a.CheckContentStore(context.Background())
		a.Close()
		if err != nil {
			log.Fatal("content store check failed: ", err)
		}
		fmt.Printf("ok: %s content store reachable\n", cfg.CMS.Provider)
		return
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}
