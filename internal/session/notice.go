package session

import (
	"errors"
	"time"

	"github.com/javiermolinar/dayplan/internal/calendar"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notice is a transient message shown to the user.
type Notice struct {
	ID      int
	Level   Level
	Text    string
	Expires time.Time
}

// Notify pushes a notice that expires NoticeTTL after now.
func (s *Session) Notify(level Level, text string, now time.Time) Notice {
	s.nextNotice++
	n := Notice{ID: s.nextNotice, Level: level, Text: text, Expires: now.Add(s.noticeTTL)}
	s.notices = append(s.notices, n)
	return n
}

// NotifyError pushes the user-facing message for err.
func (s *Session) NotifyError(err error, now time.Time) Notice {
	return s.Notify(LevelError, Message(err), now)
}

// Notices returns the notices still visible at now, oldest first.
func (s *Session) Notices(now time.Time) []Notice {
	var visible []Notice
	for _, n := range s.notices {
		if now.Before(n.Expires) {
			visible = append(visible, n)
		}
	}
	return visible
}

// Expire drops notices that are no longer visible at now.
func (s *Session) Expire(now time.Time) {
	s.notices = s.Notices(now)
}

// Dismiss removes a notice before it expires.
func (s *Session) Dismiss(id int) {
	for i, n := range s.notices {
		if n.ID == id {
			s.notices = append(s.notices[:i], s.notices[i+1:]...)
			return
		}
	}
}

// Message converts a repository or scheduling error into the text shown
// to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, calendar.ErrOverlap):
		return "Cannot move event: it would overlap with another event."
	case errors.Is(err, calendar.ErrGoalReference):
		return "Goal not found"
	case calendar.IsNotFound(err), calendar.IsValidation(err):
		return capitalize(rootMessage(err))
	case errors.Is(err, calendar.ErrTransient):
		return "Connection problem: " + err.Error()
	default:
		return err.Error()
	}
}

// rootMessage returns the message of the innermost wrapped error.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
