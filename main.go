package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	setVersionInfo(version, commit)
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
