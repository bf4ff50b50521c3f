package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/maker/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// Never print key material.
		if cfg.Provider.APIKey != "" {
			cfg.Provider.APIKey = "(set)"
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("render config: %w", err)
		}

		fmt.Printf("%s %s\n\n", color.CyanString("config file:"), config.GetUserConfigPath())
		fmt.Print(string(out))
		return nil
	},
}
