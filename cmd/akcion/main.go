package main

import (
	"os"

	"github.com/Reathyze20/akcion/cmd/akcion/commands"
)

// main is the entry point for the Akcion CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/akcion [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
