package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/cli"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Local runs keep PGPASSWORD and friends in a .env file; deployed runs
	// set the environment directly.
	_ = godotenv.Load()

	os.Exit(cli.Execute(Version))
}
