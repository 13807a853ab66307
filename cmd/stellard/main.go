package main

import (
	"log"

	"github.com/LeJamon/goStellard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("stellard: %v", err)
	}
}
