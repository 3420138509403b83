// Package service defines the backend-agnostic interfaces for task export.
package service

import (
	"context"
	"errors"
)

// ErrUnauthorized matches (via errors.Is) backend errors caused by
// rejected credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Source is the read side: the task tracker the report is built from.
// All Habitica API calls go through this interface.
// Commands never import the HTTP client directly.
type Source interface {
	// TaskOrder returns the IDs of the user's unfinished to-dos in display order.
	TaskOrder(ctx context.Context) ([]string, error)

	// Task returns a single task by ID.
	Task(ctx context.Context, id string) (Task, error)

	// CompletedTasks returns the recently completed to-dos in API order.
	CompletedTasks(ctx context.Context) ([]Task, error)
}

// Sink is the write side used by push: a task list service that
// unfinished to-dos are mirrored into.
type Sink interface {
	// ListLists returns all task lists in API order.
	ListLists(ctx context.Context) ([]TaskList, error)

	// EnsureList finds a list by name (case-insensitive, trimmed),
	// creating it when no list matches.
	EnsureList(ctx context.Context, name string) (TaskList, error)

	// ListOpenTitles returns the titles of all open tasks in a list.
	ListOpenTitles(ctx context.Context, listID string) ([]string, error)

	// CreateTask creates a new task in the specified list.
	CreateTask(ctx context.Context, listID, title, notes string) error
}

// Need describes which backends a command requires.
type Need int

const (
	NeedSource Need = 1 << iota
	NeedSink

	NeedNone Need = 0
)

// Has reports whether n includes want.
func (n Need) Has(want Need) bool {
	return n&want == want
}

// Backends carries the backends built for a command.
// A field is nil when the command did not ask for it.
type Backends struct {
	Source Source
	Sink   Sink
}
