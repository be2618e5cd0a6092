/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/nakachan-ing/agenda-cli/internal/store"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the vault and task database to S3",
}

var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local changes to S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🔄 Running `agenda backup push`...")
		config, err := store.LoadConfig()
		if err != nil {
			log.Printf("❌ Error loading config: %v", err)
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		err = BackupWithS3(*config, "push")
		if err != nil {
			log.Printf("❌ Backup failed: %v", err)
			return fmt.Errorf("❌ Backup failed: %w", err)
		}

		log.Println("✅ `agenda backup push` completed successfully.")
		return nil
	},
}

var backupPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download latest changes from S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🔄 Running `agenda backup pull`...")
		config, err := store.LoadConfig()
		if err != nil {
			log.Printf("❌ Error loading config: %v", err)
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		err = BackupWithS3(*config, "pull")
		if err != nil {
			log.Printf("❌ Backup failed: %v", err)
			return fmt.Errorf("❌ Backup failed: %w", err)
		}

		log.Println("✅ `agenda backup pull` completed successfully.")
		return nil
	},
}

var backupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show differences between local files and S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		return ShowBackupStatus(*config)
	},
}

func init() {
	backupCmd.AddCommand(backupPushCmd, backupPullCmd, backupStatusCmd)
	rootCmd.AddCommand(backupCmd)
}
