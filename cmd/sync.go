/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/agenda-cli/internal/reconcile"
	"github.com/nakachan-ing/agenda-cli/internal/store"
	"github.com/spf13/cobra"
)

var syncApply bool
var syncYes bool
var syncAgendaFile string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the agenda file with the task store",
	Long: `Parses the agenda markdown file, matches its task lines against the
stored tasks, and shows the field-level differences. Without --apply this
is a dry run: nothing is written. With --apply the changes are written
after confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := store.LoadConfig()
		if err != nil {
			log.Printf("❌ Error loading config: %v", err)
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		agendaPath := config.AgendaFile
		if syncAgendaFile != "" {
			agendaPath = syncAgendaFile
		}

		records, err := reconcile.ParseAgendaFile(agendaPath)
		if err != nil {
			return fmt.Errorf("❌ Failed to read agenda: %w", err)
		}

		s, err := store.Open(config.DatabasePath)
		if err != nil {
			return fmt.Errorf("❌ Failed to open task database: %w", err)
		}
		defer s.Close()

		r := &reconcile.Reconciler{Store: s}
		report, err := r.Diff(records)
		if err != nil {
			return fmt.Errorf("❌ Diff failed: %w", err)
		}

		renderDiffReport(report)

		if len(report.Diffs) == 0 {
			color.Green("✅ Store already matches the agenda.")
			return nil
		}

		if !syncApply {
			color.Yellow("Dry run: no changes written. Re-run with --apply to write them.")
			return nil
		}

		if !syncYes && !confirm(fmt.Sprintf("Apply changes to %d task(s)?", len(report.Diffs))) {
			return fmt.Errorf("aborted by user")
		}

		applied := r.Apply(report)
		for _, res := range applied.Results {
			if res.Err != nil {
				log.Printf("❌ Task #%d (%s): %v", res.TaskID, res.TaskTitle, res.Err)
			}
		}

		color.Green("✅ Updated %d task(s)", applied.Updated)
		if applied.Failed > 0 {
			color.Red("❌ %d task(s) failed", applied.Failed)
			return fmt.Errorf("%d of %d updates failed", applied.Failed, len(applied.Results))
		}
		return nil
	},
}

func renderDiffReport(report *reconcile.DiffReport) {
	fmt.Printf("Parsed %d record(s): %d matched, %d unchanged, %d unmatched, %d ambiguous\n",
		report.Records, report.Matched, report.Unchanged, report.Unmatched, report.Ambiguous)

	if len(report.Diffs) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("ID"),
		text.FgGreen.Sprintf("Task"),
		text.FgGreen.Sprintf("Field"),
		text.FgGreen.Sprintf("Current"),
		text.FgGreen.Sprintf("Agenda"),
	})

	for _, diff := range report.Diffs {
		for _, change := range diff.Changes {
			t.AppendRow(table.Row{
				diff.TaskID,
				diff.TaskTitle,
				string(change.Field),
				change.Old,
				text.FgHiYellow.Sprintf("%s", change.New),
			})
		}
	}

	t.Render()
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncApply, "apply", false, "Write the detected changes to the store")
	syncCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "Skip the confirmation prompt")
	syncCmd.Flags().StringVar(&syncAgendaFile, "file", "", "Agenda file to reconcile (defaults to the configured one)")
}
