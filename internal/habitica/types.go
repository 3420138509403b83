package habitica

import (
	"encoding/json"

	"hbexport/internal/service"
)

// envelope is the wrapper around every Habitica API response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// userData is the subset of GET /user this client reads.
type userData struct {
	TasksOrder struct {
		Todos []string `json:"todos"`
	} `json:"tasksOrder"`
}

// apiTask is a task as returned by /tasks endpoints.
type apiTask struct {
	ID            string          `json:"id"`
	LegacyID      string          `json:"_id"`
	Text          string          `json:"text"`
	Type          string          `json:"type"`
	Notes         string          `json:"notes"`
	Completed     bool            `json:"completed"`
	DateCompleted string          `json:"dateCompleted"`
	Checklist     []checklistItem `json:"checklist"`
}

type checklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func (t apiTask) toService() service.Task {
	id := t.ID
	if id == "" {
		id = t.LegacyID
	}
	st := service.Task{
		ID:            id,
		Text:          t.Text,
		Type:          t.Type,
		Notes:         t.Notes,
		Completed:     t.Completed,
		DateCompleted: t.DateCompleted,
	}
	for _, item := range t.Checklist {
		st.Checklist = append(st.Checklist, service.ChecklistItem{
			Text:      item.Text,
			Completed: item.Completed,
		})
	}
	return st
}
