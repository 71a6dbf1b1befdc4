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

	log.Println("starting go-copter display (MQTT → SSD1306)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
