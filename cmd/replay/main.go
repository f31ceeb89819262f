package main

import (
	"log"
	"os"

	"github.com/relabs-tech/dronestate/internal/app"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <script.yaml>", os.Args[0])
	}

	if err := app.RunReplay(os.Args[1], os.Stdout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
