package calendar

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestNewGoal(t *testing.T) {
	g, err := NewGoal("  Fitness ", "#ff0000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name != "Fitness" {
		t.Errorf("Name = %q, want trimmed", g.Name)
	}

	if _, err := NewGoal("", "#ff0000"); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := NewGoal("Fitness", ""); !errors.Is(err, ErrMissingColor) {
		t.Errorf("expected ErrMissingColor, got %v", err)
	}
}

func TestGoalPatch(t *testing.T) {
	g := &Goal{ID: "g1", Name: "Fitness", Color: "#ff0000"}

	p := GoalPatch{Color: strPtr("#00ff00")}
	if !p.ChangesColor() {
		t.Error("expected color change")
	}
	if err := p.Apply(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Color != "#00ff00" {
		t.Errorf("Color = %q", g.Color)
	}

	if err := (GoalPatch{Name: strPtr(" ")}).Apply(g); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if g.Name != "Fitness" {
		t.Errorf("failed patch modified goal: %q", g.Name)
	}
}

func TestNewTask(t *testing.T) {
	tsk, err := NewTask("Run", "g1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tsk.InheritColor(&Goal{ID: "g1", Color: "#ff0000"})
	if tsk.Color != "#ff0000" {
		t.Errorf("Color = %q, want inherited #ff0000", tsk.Color)
	}

	explicit, _ := NewTask("Swim", "g1", "#0000ff")
	explicit.InheritColor(&Goal{ID: "g1", Color: "#ff0000"})
	if explicit.Color != "#0000ff" {
		t.Errorf("explicit color overwritten: %q", explicit.Color)
	}

	if _, err := NewTask(" ", "g1", ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := NewTask("Run", "", ""); !errors.Is(err, ErrMissingGoal) {
		t.Errorf("expected ErrMissingGoal, got %v", err)
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	newGoal := &Goal{ID: "g2", Name: "Reading", Color: "#00ff00"}

	t.Run("goal change takes new goal color", func(t *testing.T) {
		tsk := &Task{ID: "t1", Name: "Run", GoalID: "g1", Color: "#ff0000"}
		if err := (TaskPatch{GoalID: strPtr("g2")}).Apply(tsk, newGoal); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tsk.GoalID != "g2" || tsk.Color != "#00ff00" {
			t.Errorf("got goal %q color %q", tsk.GoalID, tsk.Color)
		}
	})

	t.Run("explicit color wins over goal color", func(t *testing.T) {
		tsk := &Task{ID: "t1", Name: "Run", GoalID: "g1", Color: "#ff0000"}
		p := TaskPatch{GoalID: strPtr("g2"), Color: strPtr("#abcdef")}
		if err := p.Apply(tsk, newGoal); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tsk.Color != "#abcdef" {
			t.Errorf("Color = %q", tsk.Color)
		}
	})

	t.Run("goal change without goal is a reference error", func(t *testing.T) {
		tsk := &Task{ID: "t1", Name: "Run", GoalID: "g1", Color: "#ff0000"}
		err := (TaskPatch{GoalID: strPtr("missing")}).Apply(tsk, nil)
		if !errors.Is(err, ErrGoalReference) {
			t.Errorf("expected ErrGoalReference, got %v", err)
		}
		if tsk.GoalID != "g1" {
			t.Errorf("failed patch modified task")
		}
	})

	t.Run("rename", func(t *testing.T) {
		tsk := &Task{ID: "t1", Name: "Run", GoalID: "g1", Color: "#ff0000"}
		if err := (TaskPatch{Name: strPtr(" Sprint ")}).Apply(tsk, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tsk.Name != "Sprint" {
			t.Errorf("Name = %q", tsk.Name)
		}
	})
}
