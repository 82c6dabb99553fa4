package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/scheduler"
)

func (a *App) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "List, add, delete and schedule tasks",
	}
	cmd.AddCommand(a.tasksListCmd())
	cmd.AddCommand(a.tasksAddCmd())
	cmd.AddCommand(a.tasksDeleteCmd())
	cmd.AddCommand(a.tasksDropCmd())
	return cmd
}

func (a *App) tasksListCmd() *cobra.Command {
	var goalID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Example: `  dayplan tasks list
  dayplan tasks list --goal 3f2a...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			tasks, err := repo.ListTasks(cmd.Context(), goalID)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			for _, t := range tasks {
				printTask(out, t)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&goalID, "goal", "", "Only tasks of this goal")

	return cmd
}

func (a *App) tasksAddCmd() *cobra.Command {
	var name, goalID, color string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a goal",
		Long: `Add a task to a goal.

Without --color the task takes the goal's color.`,
		Example: `  dayplan tasks add --name "Run 5k" --goal 3f2a...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := calendar.NewTask(name, goalID, color)
			if err != nil {
				return err
			}
			repo, err := a.repository()
			if err != nil {
				return err
			}
			if err := repo.CreateTask(cmd.Context(), t); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				formatOK("Created task"), formatID(t.ID), t.Name, formatMuted(t.Color))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name (required)")
	cmd.Flags().StringVar(&goalID, "goal", "", "Goal id (required)")
	cmd.Flags().StringVar(&color, "color", "", "Color, defaults to the goal's")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("goal")

	return cmd
}

func (a *App) tasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			if err := repo.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatOK("Deleted task"), formatID(args[0]))
			return nil
		},
	}
}

func (a *App) tasksDropCmd() *cobra.Command {
	var date, start string

	cmd := &cobra.Command{
		Use:   "drop <id>",
		Short: "Schedule a task as an event",
		Long: `Create an event from a task, as if it were dropped on the calendar.

The event is named after the task, colored like it and lasts
calendar.default_duration minutes in calendar.default_category. Without
--start it begins at calendar.default_drop_hour. Overlaps are refused only
when calendar.task_drop_overlap is "reject". The task itself is kept.`,
		Example: `  dayplan tasks drop 7c1e... --date 2025-01-15 --start 07:00`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.parseDay(date)
			if err != nil {
				return err
			}
			policy := a.config.Calendar.Policy()
			at := a.config.Calendar.GridConfig().Resolve(grid.DayTarget(day), policy.DefaultDropHour)
			if start != "" {
				if at, err = parseClockOn(day, start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			t, err := repo.GetTask(ctx, args[0])
			if err != nil {
				return err
			}
			sameDay, err := repo.ListEvents(ctx, &dateutil.DateRange{Start: day, End: day})
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}
			req, err := scheduler.DropTask(t, at, policy, sameDay)
			if err != nil {
				return err
			}
			e, err := req.Issue(ctx, repo)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", formatOK("Scheduled event"), formatID(e.ID))
			PrintEventRow(out, e, 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")

	return cmd
}
