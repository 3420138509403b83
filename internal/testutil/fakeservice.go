// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hbexport/internal/service"
)

// DefaultListID is the ID used for the sink's default list.
const DefaultListID = "@default"

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeSource is an in-memory implementation of service.Source for testing.
type FakeSource struct {
	mu        sync.Mutex
	order     []string
	tasks     map[string]service.Task
	completed []service.Task
	calls     []string

	// Error injection for testing
	TaskOrderErr error
	TaskErr      map[string]error // taskID -> error
	CompletedErr error

	// AfterTask, when set, runs after each Task call with the requested ID.
	AfterTask func(id string)
}

// NewFakeSource creates an empty FakeSource.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		tasks:   make(map[string]service.Task),
		TaskErr: make(map[string]error),
	}
}

// AddTask stores a task retrievable by ID. When inOrder is set the ID is
// also appended to the task order.
func (f *FakeSource) AddTask(task service.Task, inOrder bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = task
	if inOrder {
		f.order = append(f.order, task.ID)
	}
}

// AddTodo adds an unfinished to-do to the task order.
func (f *FakeSource) AddTodo(id, text string, checklist ...service.ChecklistItem) {
	f.AddTask(service.Task{ID: id, Text: text, Type: service.TypeTodo, Checklist: checklist}, true)
}

// AddOrderID appends an ID to the task order without storing a task.
func (f *FakeSource) AddOrderID(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, id)
}

// AddCompleted appends a task to the completed collection.
func (f *FakeSource) AddCompleted(id, text, dateCompleted string, checklist ...service.ChecklistItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, service.Task{
		ID:            id,
		Text:          text,
		Type:          service.TypeTodo,
		Completed:     true,
		DateCompleted: dateCompleted,
		Checklist:     checklist,
	})
}

// Calls returns the IDs passed to Task, in call order.
func (f *FakeSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, len(f.calls))
	copy(result, f.calls)
	return result
}

// TaskOrder implements service.Source.
func (f *FakeSource) TaskOrder(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.TaskOrderErr != nil {
		return nil, f.TaskOrderErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, len(f.order))
	copy(result, f.order)
	return result, nil
}

// Task implements service.Source.
func (f *FakeSource) Task(ctx context.Context, id string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if f.AfterTask != nil {
		defer f.AfterTask(id)
	}

	if err := ctx.Err(); err != nil {
		return service.Task{}, err
	}

	if err, ok := f.TaskErr[id]; ok && err != nil {
		return service.Task{}, err
	}
	t, ok := f.tasks[id]
	if !ok {
		return service.Task{}, ErrNotFound
	}
	return t, nil
}

// CompletedTasks implements service.Source.
func (f *FakeSource) CompletedTasks(ctx context.Context) ([]service.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.CompletedErr != nil {
		return nil, f.CompletedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.completed))
	copy(result, f.completed)
	return result, nil
}

// SinkTask is a task stored in a FakeSink.
type SinkTask struct {
	Title string
	Notes string
}

// FakeSink is an in-memory implementation of service.Sink for testing.
type FakeSink struct {
	mu    sync.RWMutex
	lists []service.TaskList
	tasks map[string][]SinkTask // listID -> tasks

	// Error injection for testing
	ListListsErr      error
	EnsureListErr     error
	ListOpenTitlesErr error
	CreateTaskErr     error
}

// NewFakeSink creates a new FakeSink with a default list.
func NewFakeSink() *FakeSink {
	return &FakeSink{
		lists: []service.TaskList{{ID: DefaultListID, Title: "My Tasks", IsDefault: true}},
		tasks: map[string][]SinkTask{DefaultListID: nil},
	}
}

// AddList adds a list to the fake sink.
func (f *FakeSink) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
	if _, ok := f.tasks[id]; !ok {
		f.tasks[id] = nil
	}
}

// AddTask adds an open task to a list.
func (f *FakeSink) AddTask(listID, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[listID] = append(f.tasks[listID], SinkTask{Title: title})
}

// Tasks returns the tasks stored in a list.
func (f *FakeSink) Tasks(listID string) []SinkTask {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]SinkTask, len(f.tasks[listID]))
	copy(result, f.tasks[listID])
	return result
}

// ListLists implements service.Sink.
func (f *FakeSink) ListLists(ctx context.Context) ([]service.TaskList, error) {
	if f.ListListsErr != nil {
		return nil, f.ListListsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.TaskList, len(f.lists))
	copy(result, f.lists)
	return result, nil
}

// EnsureList implements service.Sink.
func (f *FakeSink) EnsureList(ctx context.Context, name string) (service.TaskList, error) {
	if f.EnsureListErr != nil {
		return service.TaskList{}, f.EnsureListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	name = strings.TrimSpace(name)
	for _, l := range f.lists {
		if strings.EqualFold(strings.TrimSpace(l.Title), name) {
			return l, nil
		}
	}

	// Generate a simple ID
	id := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	list := service.TaskList{ID: id, Title: name}
	f.lists = append(f.lists, list)
	f.tasks[id] = nil
	return list, nil
}

// ListOpenTitles implements service.Sink.
func (f *FakeSink) ListOpenTitles(ctx context.Context, listID string) ([]string, error) {
	if f.ListOpenTitlesErr != nil {
		return nil, f.ListOpenTitlesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return nil, ErrNotFound
	}
	titles := make([]string, 0, len(tasks))
	for _, t := range tasks {
		titles = append(titles, t.Title)
	}
	return titles, nil
}

// CreateTask implements service.Sink.
func (f *FakeSink) CreateTask(ctx context.Context, listID, title, notes string) error {
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[listID]; !ok {
		return ErrNotFound
	}
	f.tasks[listID] = append(f.tasks[listID], SinkTask{Title: title, Notes: notes})
	return nil
}
