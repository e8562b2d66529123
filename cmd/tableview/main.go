package main

import (
	"fmt"
	"os"

	"tableview/internal/commands"
	"tableview/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	app := commands.NewApp(config.Load())
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
