package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/backrank/colosseum/internal/colosseum/cmd"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	// A .env file seeds the arbiter endpoints in development setups.
	_ = godotenv.Load()

	if err := colosseum(); err != nil {
		logrus.Fatal(err)
	}
}

func colosseum() error {
	root := cmd.Root()
	root.SetArgs(os.Args[1:])
	return root.Execute()
}
