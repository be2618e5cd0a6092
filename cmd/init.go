/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nakachan-ing/agenda-cli/internal/model"
	"github.com/nakachan-ing/agenda-cli/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config.yaml and the task database",
	Run: func(cmd *cobra.Command, args []string) {

		configPath, err := store.GetConfigPath()
		if err != nil {
			log.Printf("failed to get config path: %v", err)
		}

		configDir := filepath.Dir(configPath)

		configFile := filepath.Join(configDir, "config.yaml")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			log.Fatalf("❌ Failed to create config directory: %v", err)
		}

		configData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			log.Fatalf("❌ Failed to generate config: %v", err)
		}

		if err := os.WriteFile(configFile, configData, 0644); err != nil {
			log.Fatalf("❌ Failed to create config file: %v", err)
		}

		fmt.Println("✅ agenda initialized successfully!")
		fmt.Println("📄 Config file created at:", configFile)

		// Open the store once so the schema exists before first use.
		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Failed to load the new config: %v", err)
		}
		s, err := store.Open(config.DatabasePath)
		if err != nil {
			log.Fatalf("❌ Failed to initialize task database: %v", err)
		}
		defer s.Close()
		fmt.Println("🗄️ Task database ready at:", config.DatabasePath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
