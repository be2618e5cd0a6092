/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/agenda-cli/internal/model"
	"github.com/nakachan-ing/agenda-cli/internal/reconcile"
	"github.com/nakachan-ing/agenda-cli/internal/store"
	"github.com/nakachan-ing/agenda-cli/internal/util"
	"github.com/spf13/cobra"
)

var taskDue string
var taskBody string
var taskTags []string
var taskStatus string
var taskFrom string
var taskTo string
var taskPageSize int
var taskClearDue bool
var taskNewTitle string
var taskMeta bool
var taskForceDelete bool

func openStore() (*store.SQLiteStore, *model.Config) {
	config, err := store.LoadConfig()
	if err != nil {
		log.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}
	s, err := store.Open(config.DatabasePath)
	if err != nil {
		log.Printf("❌ Error opening task database: %v\n", err)
		os.Exit(1)
	}
	return s, config
}

func parseTaskID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Printf("❌ Invalid task ID: %q\n", arg)
		os.Exit(1)
	}
	return id
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}

func formatDueCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	if util.IsAllDay(*t) {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}

func colorStatus(status model.TaskStatus) string {
	switch status {
	case model.StatusPending:
		return text.FgHiYellow.Sprintf("%s", status)
	case model.StatusDone:
		return text.FgHiGreen.Sprintf("%s", status)
	case model.StatusCancelled:
		return text.FgHiRed.Sprintf("%s", status)
	default:
		return string(status)
	}
}

// setTaskStatus is the shared body of done / cancel / reopen.
func setTaskStatus(arg string, status model.TaskStatus) {
	id := parseTaskID(arg)
	s, _ := openStore()
	defer s.Close()

	updated, err := s.Update(id, model.TaskUpdate{Status: &status})
	if err != nil {
		log.Printf("❌ Failed to update task %d: %v\n", id, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Task %d (%s) is now %s\n", updated.ID, updated.Title, updated.Status)
}

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:     "task",
	Short:   "Manage tasks in the local store",
	Aliases: []string{"t"},
}

var addTaskCmd = &cobra.Command{
	Use:     "add [title]",
	Short:   "Add a new task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"a"},
	Run: func(cmd *cobra.Command, args []string) {
		taskTitle := args[0]

		s, _ := openStore()
		defer s.Close()

		var dueAt *time.Time
		if taskDue != "" {
			due, err := util.ResolveDate(taskDue)
			if err != nil {
				log.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			dueAt = &due
		}

		fp, err := util.TaskFingerprint(taskTitle, dueAt)
		if err != nil {
			log.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		existing, err := s.GetByFingerprint(fp)
		if err != nil {
			log.Printf("❌ Failed to check for duplicates: %v\n", err)
			os.Exit(1)
		}
		if existing != nil {
			log.Printf("⚠️ Task already exists as #%d (%s), skipping", existing.ID, existing.Title)
			return
		}

		task := &model.Task{
			Source:      "cli",
			Title:       taskTitle,
			Body:        taskBody,
			DueAt:       dueAt,
			Status:      model.StatusPending,
			Tags:        taskTags,
			Fingerprint: fp,
		}
		if _, err := s.Create(task); err != nil {
			log.Printf("❌ Failed to create task: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Task #%d created: %s\n", task.ID, task.Title)

		if err := reconcile.TagConflicts(s, task); err != nil {
			log.Printf("⚠️ Conflict check failed: %v", err)
		}
	},
}

var listTaskCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		s, _ := openStore()
		defer s.Close()

		filter := store.ListFilter{}
		if taskStatus != "" {
			filter.Status = model.TaskStatus(taskStatus)
		}
		if taskFrom != "" {
			from, err := util.ResolveDate(taskFrom)
			if err != nil {
				log.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			filter.From = from
		}
		if taskTo != "" {
			to, err := util.ResolveDate(taskTo)
			if err != nil {
				log.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			filter.To = to
		}

		tasks, err := s.List(filter)
		if err != nil {
			log.Printf("❌ Error listing tasks: %v\n", err)
			os.Exit(1)
		}

		reader := bufio.NewReader(os.Stdin)
		page := 0

		fmt.Println(strings.Repeat("=", 30))
		fmt.Printf("Tasks: %v tasks shown\n", len(tasks))
		fmt.Println(strings.Repeat("=", 30))

		if taskPageSize == -1 {
			taskPageSize = len(tasks)
		}

		for {
			start := page * taskPageSize
			end := start + taskPageSize

			if start >= len(tasks) {
				fmt.Println("No more tasks to display.")
				break
			}
			if end > len(tasks) {
				end = len(tasks)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleDouble)
			t.Style().Options.SeparateRows = false

			t.AppendHeader(table.Row{
				text.FgGreen.Sprintf("ID"), text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Title")),
				text.FgGreen.Sprintf("Due"),
				text.FgGreen.Sprintf("Status"),
				text.FgGreen.Sprintf("Tags"),
				text.FgGreen.Sprintf("Source"),
			})

			for _, row := range tasks[start:end] {
				t.AppendRow(table.Row{
					row.ID,
					row.Title,
					formatDueCell(row.DueAt),
					colorStatus(row.Status),
					strings.Join(row.Tags, ", "),
					row.Source,
				})
			}

			t.Render()

			if end >= len(tasks) {
				break
			}

			fmt.Print("\nPress Enter for the next page (q to quit): ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)

			if input == "q" {
				break
			}

			page++
		}
	},
}

var showTaskCmd = &cobra.Command{
	Use:     "show [Task ID]",
	Short:   "Show task detail",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"s"},
	Run: func(cmd *cobra.Command, args []string) {
		id := parseTaskID(args[0])
		s, _ := openStore()
		defer s.Close()

		task, err := s.Get(id)
		if err != nil {
			log.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		titleStyle := color.New(color.FgCyan, color.Bold).SprintFunc()
		fieldStyle := color.New(color.FgHiGreen).SprintFunc()

		fmt.Printf("[%v] %v\n", titleStyle(task.ID), titleStyle(task.Title))
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("Status: %v\n", fieldStyle(task.Status))
		fmt.Printf("Due: %v\n", fieldStyle(formatDueCell(task.DueAt)))
		fmt.Printf("Tags: %v\n", fieldStyle(strings.Join(task.Tags, ", ")))
		fmt.Printf("Source: %v\n", fieldStyle(task.Source))
		fmt.Printf("Created at: %v\n", fieldStyle(task.CreatedAt.Format("2006-01-02 15:04:05")))
		fmt.Printf("Updated at: %v\n", fieldStyle(task.UpdatedAt.Format("2006-01-02 15:04:05")))

		if !taskMeta && task.Body != "" {
			renderedContent, err := glamour.Render(task.Body, "dark")
			if err != nil {
				log.Printf("⚠️ Failed to render markdown content: %v", err)
			} else {
				fmt.Println(renderedContent)
			}
		}
	},
}

var updateTaskCmd = &cobra.Command{
	Use:   "update [Task ID]",
	Short: "Update a task's fields",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseTaskID(args[0])
		s, _ := openStore()
		defer s.Close()

		current, err := s.Get(id)
		if err != nil {
			log.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		upd := model.TaskUpdate{}
		if taskNewTitle != "" {
			upd.Title = &taskNewTitle
		}
		if taskBody != "" {
			upd.Body = &taskBody
		}
		if taskClearDue {
			upd.ClearDue = true
		} else if taskDue != "" {
			due, err := util.ResolveDate(taskDue)
			if err != nil {
				log.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			upd.DueAt = &due
		}
		if taskStatus != "" {
			status := model.TaskStatus(taskStatus)
			upd.Status = &status
		}
		if len(taskTags) > 0 {
			upd.Tags = taskTags
		}
		if upd.IsEmpty() {
			log.Printf("⚠️ Nothing to update; pass --title, --due, --body, --status, or --tag")
			return
		}

		// Title or due changes move the task's identity; recompute the
		// fingerprint and refuse the update when another task holds it.
		if upd.Title != nil || upd.DueAt != nil || upd.ClearDue {
			title := current.Title
			if upd.Title != nil {
				title = *upd.Title
			}
			due := current.DueAt
			if upd.ClearDue {
				due = nil
			} else if upd.DueAt != nil {
				due = upd.DueAt
			}

			fp, err := util.TaskFingerprint(title, due)
			if err != nil {
				log.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			if fp != current.Fingerprint {
				holder, err := s.GetByFingerprint(fp)
				if err != nil {
					log.Printf("❌ Failed to check for duplicates: %v\n", err)
					os.Exit(1)
				}
				if holder != nil && holder.ID != id {
					log.Printf("❌ Update would duplicate task #%d (%s), aborting\n", holder.ID, holder.Title)
					os.Exit(1)
				}
				upd.Fingerprint = &fp
			}
		}

		updated, err := s.Update(id, upd)
		if err != nil {
			log.Printf("❌ Failed to update task %d: %v\n", id, err)
			os.Exit(1)
		}
		fmt.Printf("✅ Task #%d updated: %s\n", updated.ID, updated.Title)

		if updated.DueAt != nil && !util.IsAllDay(*updated.DueAt) && (upd.DueAt != nil) {
			if err := reconcile.TagConflicts(s, updated); err != nil {
				log.Printf("⚠️ Conflict check failed: %v", err)
			}
		}
	},
}

var doneTaskCmd = &cobra.Command{
	Use:     "done [Task ID]",
	Short:   "Mark a task as done",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"d"},
	Run: func(cmd *cobra.Command, args []string) {
		setTaskStatus(args[0], model.StatusDone)
	},
}

var cancelTaskCmd = &cobra.Command{
	Use:   "cancel [Task ID]",
	Short: "Mark a task as cancelled",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setTaskStatus(args[0], model.StatusCancelled)
	},
}

var reopenTaskCmd = &cobra.Command{
	Use:   "reopen [Task ID]",
	Short: "Reopen a done or cancelled task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setTaskStatus(args[0], model.StatusPending)
	},
}

var deleteTaskCmd = &cobra.Command{
	Use:     "remove [Task ID]",
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	Run: func(cmd *cobra.Command, args []string) {
		id := parseTaskID(args[0])
		s, _ := openStore()
		defer s.Close()

		task, err := s.Get(id)
		if err != nil {
			log.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		if !taskForceDelete && !confirm(fmt.Sprintf("Delete task #%d (%s)?", task.ID, task.Title)) {
			fmt.Println("Aborted.")
			return
		}

		if err := s.Delete(id); err != nil {
			log.Printf("❌ Failed to delete task %d: %v\n", id, err)
			os.Exit(1)
		}
		fmt.Printf("✅ Task #%d deleted\n", id)
	},
}

func init() {
	taskCmd.AddCommand(addTaskCmd)
	taskCmd.AddCommand(listTaskCmd)
	taskCmd.AddCommand(showTaskCmd)
	taskCmd.AddCommand(updateTaskCmd)
	taskCmd.AddCommand(doneTaskCmd)
	taskCmd.AddCommand(cancelTaskCmd)
	taskCmd.AddCommand(reopenTaskCmd)
	taskCmd.AddCommand(deleteTaskCmd)
	rootCmd.AddCommand(taskCmd)
	addTaskCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD or 'YYYY-MM-DD HH:MM')")
	addTaskCmd.Flags().StringVar(&taskBody, "body", "", "Task body in markdown")
	addTaskCmd.Flags().StringSliceVarP(&taskTags, "tag", "t", []string{}, "Specify tags")
	listTaskCmd.Flags().StringVar(&taskStatus, "status", "", "Filter by status (Pending, Done, Cancelled)")
	listTaskCmd.Flags().StringVar(&taskFrom, "from", "", "Filter by start date (YYYY-MM-DD)")
	listTaskCmd.Flags().StringVar(&taskTo, "to", "", "Filter by end date (YYYY-MM-DD)")
	listTaskCmd.Flags().IntVar(&taskPageSize, "limit", 20, "Set the number of tasks to display per page (-1 for all)")
	showTaskCmd.Flags().BoolVar(&taskMeta, "meta", false, "Show only metadata without the task body")
	updateTaskCmd.Flags().StringVar(&taskNewTitle, "title", "", "New title")
	updateTaskCmd.Flags().StringVar(&taskDue, "due", "", "New due date (YYYY-MM-DD or 'YYYY-MM-DD HH:MM')")
	updateTaskCmd.Flags().BoolVar(&taskClearDue, "clear-due", false, "Remove the due date")
	updateTaskCmd.Flags().StringVar(&taskBody, "body", "", "New body in markdown")
	updateTaskCmd.Flags().StringVar(&taskStatus, "status", "", "New status (Pending, Done, Cancelled)")
	updateTaskCmd.Flags().StringSliceVarP(&taskTags, "tag", "t", []string{}, "Replace tags")
	deleteTaskCmd.Flags().BoolVarP(&taskForceDelete, "force", "f", false, "Delete without confirmation")
}
