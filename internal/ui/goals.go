package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayplan/internal/calendar"
)

func (a *App) goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goals",
		Aliases: []string{"goal"},
		Short:   "List, add, update and delete goals",
	}
	cmd.AddCommand(a.goalsListCmd())
	cmd.AddCommand(a.goalsAddCmd())
	cmd.AddCommand(a.goalsUpdateCmd())
	cmd.AddCommand(a.goalsDeleteCmd())
	return cmd
}

func (a *App) goalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals with their tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			goals, err := repo.ListGoals(ctx)
			if err != nil {
				return fmt.Errorf("listing goals: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(goals) == 0 {
				fmt.Fprintln(out, "No goals yet. Add one with: dayplan goals add --name ... --color ...")
				return nil
			}

			for i, g := range goals {
				if i > 0 {
					fmt.Fprintln(out)
				}
				tasks, err := repo.ListTasks(ctx, g.ID)
				if err != nil {
					return fmt.Errorf("listing tasks of %s: %w", g.Name, err)
				}
				printGoal(out, g, len(tasks))
				for _, t := range tasks {
					printTask(out, t)
				}
			}
			return nil
		},
	}
}

func (a *App) goalsAddCmd() *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a goal",
		Example: `  dayplan goals add --name Fitness --color "#ff0000"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := calendar.NewGoal(name, color)
			if err != nil {
				return err
			}
			repo, err := a.repository()
			if err != nil {
				return err
			}
			if err := repo.CreateGoal(cmd.Context(), g); err != nil {
				return fmt.Errorf("creating goal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", formatOK("Created goal"), formatID(g.ID), g.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Goal name (required)")
	cmd.Flags().StringVar(&color, "color", "", "Goal color, e.g. #ff0000 (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("color")

	return cmd
}

func (a *App) goalsUpdateCmd() *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or recolor a goal",
		Long: `Update a goal's name or color.

A new color is also applied to every task of the goal.`,
		Example: `  dayplan goals update 3f2a... --color "#00ff00"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch calendar.GoalPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if patch.Name == nil && patch.Color == nil {
				return errors.New("nothing to update, pass --name or --color")
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}
			g, err := repo.UpdateGoal(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", formatOK("Updated goal"), formatID(g.ID), g.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color")

	return cmd
}

func (a *App) goalsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a goal and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			if err := repo.DeleteGoal(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatOK("Deleted goal"), formatID(args[0]))
			return nil
		},
	}
}

func printGoal(w io.Writer, g *calendar.Goal, tasks int) {
	fmt.Fprintf(w, "%s  %s %s\n", formatID(g.ID), formatHeader(g.Name),
		formatMuted(g.Color+", "+countNoun(tasks, "task")))
}

func printTask(w io.Writer, t *calendar.Task) {
	fmt.Fprintf(w, "  %s  %s %s\n", formatID(t.ID), t.Name, formatMuted(t.Color))
}
