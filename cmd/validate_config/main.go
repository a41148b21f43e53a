package main

import (
	"fmt"
	"os"

	"esg-node-parser/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate_config <config-file>")
		os.Exit(1)
	}

	configPath := os.Args[1]
	fmt.Printf("📄 Loading config from: %s\n", configPath)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}

	ps, err := config.NewParserSettings(cfg)
	if err != nil {
		fmt.Printf("❌ Error in parser settings: %v\n", err)
		os.Exit(1)
	}
	ms := config.NewMetricsSettings(cfg)
	ls := config.NewLoggingSettings(cfg)

	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Version: %s\n", cfg.Version)
	fmt.Printf("   Parser ID: %s\n", ps.ID)
	fmt.Printf("   Timezone: %s\n", ps.Location)
	fmt.Printf("   Strict schema: %v\n", ps.StrictSchema)
	fmt.Printf("   Logging: level=%s format=%s\n", ls.Level, ls.Format)
	if ls.File != "" {
		fmt.Printf("   Log file: %s\n", ls.File)
	}
	if ms.Enabled {
		fmt.Printf("   Metrics: enabled (namespace %s)\n", ms.Namespace)
	} else {
		fmt.Printf("   Metrics: disabled\n")
	}

	fmt.Println("\n✅ Configuration is valid!")
}
