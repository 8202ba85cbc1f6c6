// Package shadow holds the committed configuration and the copy being edited
// in a menu session.
package shadow

import "github.com/thatsimonsguy/ledclock/internal/model"

type Editor struct {
	committed model.Configuration
	shadow    model.Configuration
	editing   bool
}

func NewEditor(committed model.Configuration) *Editor {
	return &Editor{committed: committed, shadow: committed}
}

// BeginEdit starts a session with a copy of base as the shadow.
func (e *Editor) BeginEdit(base model.Configuration) {
	e.shadow = base
	e.editing = true
}

func (e *Editor) Editing() bool {
	return e.editing
}

// Shadow returns the record being edited. Mutations through the pointer are
// only kept if the session is committed.
func (e *Editor) Shadow() *model.Configuration {
	return &e.shadow
}

func (e *Editor) Committed() model.Configuration {
	return e.committed
}

// CommitOrDiscard ends the session. It returns true when the shadow replaced
// the committed record and must be persisted.
func (e *Editor) CommitOrDiscard(discard bool) bool {
	e.editing = false
	if discard || e.shadow == e.committed {
		e.shadow = e.committed
		return false
	}
	e.committed = e.shadow
	return true
}

// Replace installs a configuration written from outside the menu. An open
// session continues from the new record.
func (e *Editor) Replace(cfg model.Configuration) {
	e.committed = cfg
	if e.editing {
		e.shadow = cfg
	}
}
