package main

import (
	"log"

	"github.com/thiagokokada/promptns/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("promptns: %v", err)
	}
}
