package main

import (
	"log"

	"github.com/relabs-tech/dronestate/internal/app"
	"github.com/relabs-tech/dronestate/internal/config"
)

func main() {
	log.Println("starting dronestate console (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal("dronestate_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
