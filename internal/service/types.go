// Package service defines the backend-agnostic interfaces for task export.
package service

// TypeTodo is the task type exported to the report.
const TypeTodo = "todo"

// Task represents a single tracker task.
type Task struct {
	ID            string
	Text          string
	Type          string // "todo", "daily", "habit" or "reward"
	Notes         string
	Completed     bool
	DateCompleted string // ISO-8601, empty when unknown
	Checklist     []ChecklistItem
}

// IsOpenTodo reports whether the task is an unfinished to-do.
func (t Task) IsOpenTodo() bool {
	return t.Type == TypeTodo && !t.Completed
}

// ChecklistItem is a sub-item of a task.
type ChecklistItem struct {
	Text      string
	Completed bool
}

// TaskList represents a task list on the sink side.
type TaskList struct {
	ID        string
	Title     string
	IsDefault bool
}
