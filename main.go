package main

import (
	"flag"
	"log"

	"github.com/itkutus/potbot/internal/di"
	"github.com/itkutus/potbot/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "./config.yaml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug output")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		log.Fatalf("potbot: %s", err)
	}
}
