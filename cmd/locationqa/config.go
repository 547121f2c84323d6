package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhr613/Location-QA-Assistant/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		anthropicKey, _ := config.GetAnthropicKey(cfg)
		amapKey, _ := config.GetAmapKey(cfg)

		fmt.Printf("config file:   %s\n", config.GetUserConfigPath())
		fmt.Printf("anthropic key: %s\n", config.MaskAPIKey(anthropicKey))
		if cfg.Anthropic.UseBedrock {
			fmt.Printf("bedrock:       region=%s profile=%s\n", cfg.Anthropic.AWSRegion, cfg.Anthropic.AWSProfile)
		}
		fmt.Printf("amap key:      %s\n", config.MaskAPIKey(amapKey))
		fmt.Printf("model:         %s (max_tokens %d)\n", cfg.Model.Name, cfg.Model.MaxTokens)
		fmt.Printf("default mode:  %s\n", cfg.Defaults.Mode)

		skillsDir := cfg.Skills.Dir
		if skillsDir == "" {
			skillsDir = config.DefaultSkillsDir()
		}
		fmt.Printf("skills dir:    %s\n", skillsDir)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a user config file with the current defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", config.GetUserConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
