package main

import (
	"log"

	"marketsim/internal/app"
)

func main() {
	server, err := app.NewServer()
	if err != nil {
		log.Fatal(err)
	}
	server.Simulate()
	log.Fatal(server.Start())
}
