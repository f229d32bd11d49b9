package main

import (
	"flag"
	"fmt"
	"os"

	"emt/internal/di"
	"emt/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	debug := flag.Bool("debug", false, "mirror logs to the console")
	flag.Parse()

	_, err := di.InitApp(&structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "emt: %v\n", err)
		os.Exit(1)
	}
}
