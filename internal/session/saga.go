package session

// Compensation restores local state after a failed optimistic mutation.
// Exactly one of Commit or Rollback takes effect; later calls are no-ops.
type Compensation struct {
	label string
	undo  func()
	done  bool
}

func newCompensation(label string, undo func()) *Compensation {
	return &Compensation{label: label, undo: undo}
}

// Label describes the mutation, for notices and logs.
func (c *Compensation) Label() string { return c.label }

// Commit discards the backup once the repository has confirmed the change.
func (c *Compensation) Commit() {
	if c == nil || c.done {
		return
	}
	c.done = true
	c.undo = nil
}

// Rollback reinstates the prior state.
func (c *Compensation) Rollback() {
	if c == nil || c.done {
		return
	}
	c.done = true
	if c.undo != nil {
		c.undo()
	}
	c.undo = nil
}

// Settled reports whether the mutation has been committed or rolled back.
func (c *Compensation) Settled() bool {
	return c == nil || c.done
}
