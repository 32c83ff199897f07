package main

import (
	"github.com/joho/godotenv"

	"github.com/ahiree/chat-bot/internal/cli"
)

func main() {
	// API keys come from the environment; a local .env is a convenience,
	// not a requirement.
	_ = godotenv.Load()

	cli.Execute()
}
