package main

import (
	"os"

	"github.com/ayushhealth/ayushbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
