package main

import (
	"flag"
	"fmt"
	"os"

	gatedchat "github.com/putto11262002/gatedchat/app"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	config, err := gatedchat.LoadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := gatedchat.New(nil, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	app.Start()
}
