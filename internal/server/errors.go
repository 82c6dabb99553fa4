package server

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/javiermolinar/dayplan/internal/calendar"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, calendar.ErrGoalReference):
		return fiber.StatusNotFound
	case calendar.IsValidation(err):
		return fiber.StatusBadRequest
	case calendar.IsNotFound(err):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler writes {"message": ...} for every error returned by a handler.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)

	message := capitalize(err.Error())
	if code == fiber.StatusInternalServerError {
		s.log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		message = "Server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
