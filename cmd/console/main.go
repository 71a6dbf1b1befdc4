package main

import (
	"flag"
	"log"

	"github.com/ebelski/go-copter/internal/app"
	"github.com/ebelski/go-copter/internal/config"
)

func main() {
	configPath := flag.String("config", "./copter_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting go-copter console (MQTT → stdout)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
