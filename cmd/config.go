package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and scaffold configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := *cfg
		// Don't echo credentials.
		if out.Classifier.AnthropicKey != "" {
			out.Classifier.AnthropicKey = "****"
		}
		if out.Classifier.OpenAIKey != "" {
			out.Classifier.OpenAIKey = "****"
		}

		data, err := yaml.Marshal(out)
		if err != nil {
			return eris.Wrap(err, "config: marshal")
		}
		os.Stdout.Write(data)
		return nil
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat("config.yaml"); err == nil && !configInitForce {
			return eris.New("config.yaml already exists (use --force to overwrite)")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "config: marshal")
		}
		if err := os.WriteFile("config.yaml", data, 0o644); err != nil {
			return eris.Wrap(err, "config: write file")
		}
		fmt.Println("wrote config.yaml")
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config.yaml")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
