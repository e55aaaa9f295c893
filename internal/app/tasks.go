package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/embycli/internal/emby"
)

func (c *cli) newTasksCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and run scheduled tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTasks(cmd.Context(), all)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden tasks")

	cmd.AddCommand(&cobra.Command{
		Use:   "run <id>",
		Short: "Run a scheduled task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			if err := client.RunTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Task %s started\n", args[0])
			return nil
		},
	})
	return cmd
}

func (c *cli) runTasks(ctx context.Context, all bool) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	tasks, err := client.ScheduledTasks(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		if !all && emby.Bool(t.IsHidden) {
			continue
		}
		var lastRun, lastStatus string
		if r := t.LastExecutionResult; r != nil {
			if r.EndTimeUTC != nil {
				lastRun = emby.FormatPremiereDate(*r.EndTimeUTC)
			}
			lastStatus = emby.String(r.Status, "")
		}
		rows = append(rows, []string{
			emby.String(t.Category, ""),
			emby.String(t.Name, ""),
			emby.String(t.State, ""),
			lastRun,
			lastStatus,
			emby.String(t.ID, ""),
		})
	}
	return c.printTable([]string{"Category", "Name", "State", "Last Run", "Last Status", "ID"}, rows, "No scheduled tasks found")
}
