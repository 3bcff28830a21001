package main

import (
	"log"

	"visaflow_backend/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("application exited: %v", err)
	}
}
