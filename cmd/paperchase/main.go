// Package main is the entry point for the paperchase CLI.
package main

import (
	"os"

	"paperchase/internal/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
