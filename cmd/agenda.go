/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/nakachan-ing/agenda-cli/internal/agenda"
	"github.com/nakachan-ing/agenda-cli/internal/store"
	"github.com/spf13/cobra"
)

var agendaOut string
var agendaPreview bool

// agendaCmd represents the agenda command
var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Generate the agenda markdown file from the task store",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := store.LoadConfig()
		if err != nil {
			log.Printf("❌ Error loading config: %v", err)
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		s, err := store.Open(config.DatabasePath)
		if err != nil {
			return fmt.Errorf("❌ Failed to open task database: %w", err)
		}
		defer s.Close()

		tasks, err := s.All()
		if err != nil {
			return fmt.Errorf("❌ Failed to load tasks: %w", err)
		}

		if agendaPreview {
			doc := agenda.Generate(tasks, time.Now())
			rendered, err := glamour.Render(doc, "dark")
			if err != nil {
				log.Printf("⚠️ Failed to render markdown content: %v", err)
				fmt.Print(doc)
			} else {
				fmt.Print(rendered)
			}
			return nil
		}

		outPath := config.AgendaFile
		if agendaOut != "" {
			outPath = agendaOut
		}
		if err := agenda.WriteFile(outPath, tasks, time.Now()); err != nil {
			return fmt.Errorf("❌ Failed to write agenda file: %w", err)
		}

		fmt.Println("✅ Agenda written to:", outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agendaCmd)
	agendaCmd.Flags().StringVarP(&agendaOut, "out", "o", "", "Output path (defaults to the configured agenda file)")
	agendaCmd.Flags().BoolVar(&agendaPreview, "preview", false, "Render to the terminal instead of writing the file")
}
