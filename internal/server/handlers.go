package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// eventInput is the request body for creating or updating an event.
// Timestamps travel as ISO-8601 strings.
type eventInput struct {
	Title      *string `json:"title"`
	Category   *string `json:"category"`
	Date       *string `json:"date"`
	StartTime  *string `json:"startTime"`
	EndTime    *string `json:"endTime"`
	Color      *string `json:"color"`
	IsExpanded *bool   `json:"isExpanded"`
}

type goalInput struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type taskInput struct {
	Name   *string `json:"name"`
	GoalID *string `json:"goalId"`
	Color  *string `json:"color"`
}

var errInvalidBody = calendar.Validation("invalid request body")

func (s *Server) listEvents(c *fiber.Ctx) error {
	var r *dateutil.DateRange
	startDate, endDate := c.Query("startDate"), c.Query("endDate")
	if startDate != "" && endDate != "" {
		start, err := s.parseDay("startDate", startDate)
		if err != nil {
			return err
		}
		end, err := s.parseDay("endDate", endDate)
		if err != nil {
			return err
		}
		if end.Before(start) {
			return calendar.Validation("endDate must not be before startDate")
		}
		r = &dateutil.DateRange{Start: start, End: end}
	}

	events, err := s.repo.ListEvents(c.UserContext(), r)
	if err != nil {
		return err
	}
	return c.JSON(nonNil(events))
}

func (s *Server) getEvent(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	e, err := s.repo.GetEvent(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(e)
}

func (s *Server) createEvent(c *fiber.Ctx) error {
	var input eventInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}

	e, err := s.newEvent(input)
	if err != nil {
		return err
	}
	if err := s.repo.CreateEvent(c.UserContext(), e); err != nil {
		return err
	}
	s.log.Debug("event created", "id", e.ID, "title", e.Title)
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (s *Server) updateEvent(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var input eventInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}

	patch, err := s.eventPatch(input)
	if err != nil {
		return err
	}
	e, err := s.repo.UpdateEvent(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(e)
}

func (s *Server) deleteEvent(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteEvent(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Event removed"})
}

func (s *Server) listGoals(c *fiber.Ctx) error {
	goals, err := s.repo.ListGoals(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(nonNil(goals))
}

func (s *Server) getGoal(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	g, err := s.repo.GetGoal(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(g)
}

func (s *Server) createGoal(c *fiber.Ctx) error {
	var input goalInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}

	g, err := calendar.NewGoal(deref(input.Name), deref(input.Color))
	if err != nil {
		return err
	}
	if err := s.repo.CreateGoal(c.UserContext(), g); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

func (s *Server) updateGoal(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var input goalInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}

	g, err := s.repo.UpdateGoal(c.UserContext(), id, calendar.GoalPatch{Name: input.Name, Color: input.Color})
	if err != nil {
		return err
	}
	return c.JSON(g)
}

func (s *Server) deleteGoal(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteGoal(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Goal and associated tasks removed"})
}

func (s *Server) listGoalTasks(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetGoal(c.UserContext(), id); err != nil {
		return err
	}
	tasks, err := s.repo.ListTasks(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(nonNil(tasks))
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	goalID := strings.TrimSpace(c.Query("goalId"))
	if goalID != "" && uuid.Validate(goalID) != nil {
		return calendar.ErrMalformedID
	}
	tasks, err := s.repo.ListTasks(c.UserContext(), goalID)
	if err != nil {
		return err
	}
	return c.JSON(nonNil(tasks))
}

func (s *Server) getTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	t, err := s.repo.GetTask(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}

	t, err := calendar.NewTask(deref(input.Name), deref(input.GoalID), deref(input.Color))
	if err != nil {
		return err
	}
	if uuid.Validate(t.GoalID) != nil {
		return calendar.ErrGoalReference
	}
	if err := s.repo.CreateTask(c.UserContext(), t); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}

	patch := calendar.TaskPatch{Name: input.Name, GoalID: input.GoalID, Color: input.Color}
	if patch.ChangesGoal() && uuid.Validate(strings.TrimSpace(*patch.GoalID)) != nil {
		return calendar.ErrGoalReference
	}
	t, err := s.repo.UpdateTask(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTask(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Task removed"})
}

// newEvent builds a validated event from a create request.
func (s *Server) newEvent(in eventInput) (*calendar.Event, error) {
	category, err := calendar.ParseCategory(deref(in.Category))
	if err != nil {
		return nil, err
	}
	if in.Date == nil || strings.TrimSpace(*in.Date) == "" {
		return nil, calendar.ErrMissingDate
	}
	date, err := s.parseDay("date", *in.Date)
	if err != nil {
		return nil, err
	}
	if in.StartTime == nil {
		return nil, calendar.ErrMissingStart
	}
	start, err := s.parseTime("startTime", *in.StartTime)
	if err != nil {
		return nil, err
	}
	if in.EndTime == nil {
		return nil, calendar.ErrMissingEnd
	}
	end, err := s.parseTime("endTime", *in.EndTime)
	if err != nil {
		return nil, err
	}

	e, err := calendar.NewEvent(deref(in.Title), category, date, start, end)
	if err != nil {
		return nil, err
	}
	e.Color = strings.TrimSpace(deref(in.Color))
	if in.IsExpanded != nil {
		e.IsExpanded = *in.IsExpanded
	}
	return e, nil
}

// eventPatch converts an update request into a patch. Absent fields stay nil.
func (s *Server) eventPatch(in eventInput) (calendar.EventPatch, error) {
	patch := calendar.EventPatch{
		Title:      in.Title,
		Color:      in.Color,
		IsExpanded: in.IsExpanded,
	}
	if in.Category != nil {
		category, err := calendar.ParseCategory(*in.Category)
		if err != nil {
			return patch, err
		}
		patch.Category = &category
	}
	if in.Date != nil {
		date, err := s.parseDay("date", *in.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}
	if in.StartTime != nil {
		start, err := s.parseTime("startTime", *in.StartTime)
		if err != nil {
			return patch, err
		}
		patch.StartTime = &start
	}
	if in.EndTime != nil {
		end, err := s.parseTime("endTime", *in.EndTime)
		if err != nil {
			return patch, err
		}
		patch.EndTime = &end
	}
	return patch, nil
}

func (s *Server) parseTime(field, value string) (time.Time, error) {
	t, err := dateutil.ParseTimestamp(value, s.loc)
	if err != nil {
		return time.Time{}, calendar.Validation(fmt.Sprintf("%s must be an ISO-8601 timestamp, got %q", field, value))
	}
	return t, nil
}

// parseDay keeps the calendar day written by the caller. A timestamp such as
// "2024-06-12T00:00:00+02:00" names June 12 regardless of the server's zone.
func (s *Server) parseDay(field, value string) (time.Time, error) {
	t, err := dateutil.ParseTimestamp(value, s.loc)
	if err != nil {
		return time.Time{}, calendar.Validation(fmt.Sprintf("%s must be an ISO-8601 date, got %q", field, strings.TrimSpace(value)))
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc), nil
}

func idParam(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if uuid.Validate(id) != nil {
		return "", calendar.ErrMalformedID
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonNil makes empty listings encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
