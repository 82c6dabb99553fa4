package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/scheduler"
)

func (a *App) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event", "ev"},
		Short:   "List, add, move and delete events",
	}
	cmd.AddCommand(a.eventsListCmd())
	cmd.AddCommand(a.eventsAddCmd())
	cmd.AddCommand(a.eventsMoveCmd())
	cmd.AddCommand(a.eventsDeleteCmd())
	return cmd
}

func (a *App) eventsListCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Long: `List events, grouped by day.

Without flags every event is listed, up to the storage list limit.
If only --start is specified, lists events for that single day.
If both --start and --end are specified, lists events in that range (inclusive).`,
		Example: `  dayplan events list
  dayplan events list --start=2025-01-15
  dayplan events list --start=2025-01-15 --end=2025-01-20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r *dateutil.DateRange
			if startDate != "" || endDate != "" {
				if startDate == "" {
					return errors.New("--end requires --start")
				}
				var err error
				if r, err = a.parseRange(startDate, endDate); err != nil {
					return err
				}
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}
			events, err := repo.ListEvents(cmd.Context(), r)
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No events found.")
				return nil
			}
			PrintEventsByDay(out, events, a.now())
			fmt.Fprintf(out, "\n%s\n", formatMuted(summarize(events)))
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")

	return cmd
}

func (a *App) eventsAddCmd() *cobra.Command {
	var (
		title    string
		category string
		date     string
		start    string
		end      string
		color    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		Long: `Add an event to the calendar.

The category defaults to calendar.default_category and the date to today.
Events may overlap when added directly; only moves are checked.`,
		Example: `  dayplan events add --title "Standup" --start 09:00 --end 09:30
  dayplan events add --title "Gym" --category exercise --date 2025-01-15 --start 18:00 --end 19:00
  dayplan events add --title "Lunch" --category eating --start 12:30 --end 13:15 --color "#ffaa00"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if category == "" {
				category = a.config.Calendar.DefaultCategory
			}
			cat, err := calendar.ParseCategory(category)
			if err != nil {
				return fmt.Errorf("%w: %q", err, category)
			}
			day, err := a.parseDay(date)
			if err != nil {
				return err
			}
			startTime, err := parseClockOn(day, start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endTime, err := parseClockOn(day, end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			e, err := calendar.NewEvent(title, cat, day, startTime, endTime)
			if err != nil {
				return err
			}
			e.Color = color

			repo, err := a.repository()
			if err != nil {
				return err
			}
			if err := repo.CreateEvent(cmd.Context(), e); err != nil {
				return fmt.Errorf("creating event: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", formatOK("Created event"), formatID(e.ID))
			PrintEventRow(out, e, 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title (required)")
	cmd.Flags().StringVar(&category, "category", "", "Category: exercise, eating, work, relax, family or social")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&color, "color", "", "Color override (#rrggbb)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) eventsMoveCmd() *cobra.Command {
	var (
		date  string
		start string
	)

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move an event, keeping its duration",
		Long: `Move an event to a new date and start time.

The event keeps its duration. The move is refused when the event would
overlap another event on the target day.`,
		Example: `  dayplan events move 3f2a... --start 10:00
  dayplan events move 3f2a... --date 2025-01-16 --start 14:30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			e, err := repo.GetEvent(ctx, args[0])
			if err != nil {
				return err
			}

			day := e.Date
			if date != "" {
				if day, err = a.parseDay(date); err != nil {
					return err
				}
			}
			startTime, err := parseClockOn(day, start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}

			sameDay, err := repo.ListEvents(ctx, &dateutil.DateRange{Start: day, End: day})
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}
			req, err := scheduler.MoveEvent(e, startTime, sameDay)
			if err != nil {
				var overlap *scheduler.OverlapError
				if errors.As(err, &overlap) {
					return fmt.Errorf("%w at %s", err,
						formatRange(overlap.Conflict.StartTime, overlap.Conflict.EndTime))
				}
				return err
			}

			moved, err := req.Issue(ctx, repo)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", formatOK("Moved event"), formatID(moved.ID))
			PrintEventRow(out, moved, 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD, defaults to the event's date)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM, required)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func (a *App) eventsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			if err := repo.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatOK("Deleted event"), formatID(args[0]))
			return nil
		},
	}
}

// parseDay parses a YYYY-MM-DD date in the local zone; empty means today.
func (a *App) parseDay(s string) (time.Time, error) {
	now := a.now()
	if s == "" {
		return dateutil.TruncateToDay(now), nil
	}
	return dateutil.ParseDateIn(s, now.Location())
}

// parseRange is dateutil.NewDateRange in the App's clock zone.
func (a *App) parseRange(startDate, endDate string) (*dateutil.DateRange, error) {
	start, err := a.parseDay(startDate)
	if err != nil {
		return nil, err
	}
	end := start
	if endDate != "" {
		if end, err = a.parseDay(endDate); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, dateutil.ErrEndDateBeforeStart
	}
	return &dateutil.DateRange{Start: start, End: end}, nil
}

// parseClockOn parses "HH:MM" as a time on day.
func parseClockOn(day time.Time, s string) (time.Time, error) {
	h, m, err := dateutil.ParseClock(s)
	if err != nil {
		return time.Time{}, err
	}
	return dateutil.At(day, h, m), nil
}
