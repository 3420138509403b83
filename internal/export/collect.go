// Package export gathers to-dos from a service.Source for the report and
// mirrors unfinished ones into a service.Sink.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"hbexport/internal/logging"
	"hbexport/internal/service"
)

// Options controls Collect.
type Options struct {
	// Concurrency bounds in-flight per-task fetches. Values below 1 mean 1.
	Concurrency int

	// Progress receives one line per fetched task. Nil disables progress output.
	Progress io.Writer

	// Logger receives warnings for skipped tasks. Nil discards.
	Logger *slog.Logger
}

// Result is the outcome of a collection run.
type Result struct {
	// Unfinished holds open to-dos in task-order sequence.
	Unfinished []service.Task

	// Completed holds completed to-dos, newest first.
	Completed []service.Task

	// Skipped holds IDs whose fetch failed.
	Skipped []string

	// CompletedErr is the error from the completed-list fetch, if any.
	// Completed is empty when it is set.
	CompletedErr error
}

// Collect fetches the task order, every task in it, and the completed list.
// Only the task-order fetch is fatal. A failed task is skipped and a failed
// completed-list fetch yields an empty list. Cancelling ctx is fatal at any
// stage: Collect then returns ctx.Err() and no partial result.
func Collect(ctx context.Context, src service.Source, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = logging.WithComponent(log, "export")

	progress := &progressWriter{w: opts.Progress}

	progress.printf("📥 正在拉取未完成 To-Do（来自 /user -> tasksOrder.todos）...\n")
	ids, err := src.TaskOrder(ctx)
	if err != nil {
		return nil, err
	}
	progress.total = len(ids)

	res := &Result{}
	res.Unfinished, res.Skipped = fetchOpenTodos(ctx, src, ids, opts.Concurrency, progress, log)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress.printf("📥 正在拉取已完成 To-Do（最近）...\n")
	completed, err := src.CompletedTasks(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		progress.printf("❌ 获取已完成 To-Do 失败：%v\n", err)
		log.Warn("completed to-dos unavailable, treating as empty", logging.Err(err))
		res.CompletedErr = err
		completed = nil
	}
	SortCompleted(completed)
	res.Completed = completed

	return res, nil
}

// fetched is the per-slot outcome of a task fetch.
type fetched struct {
	task service.Task
	err  error
}

// fetchOpenTodos fetches every ID with at most limit requests in flight.
// Results are slotted by index so output order is the task order.
func fetchOpenTodos(ctx context.Context, src service.Source, ids []string, limit int, progress *progressWriter, log *slog.Logger) ([]service.Task, []string) {
	if limit < 1 {
		limit = 1
	}

	slots := make([]fetched, len(ids))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			// Once cancelled, remaining slots are left unfetched and unreported
			if err := ctx.Err(); err != nil {
				slots[i] = fetched{err: err}
				return nil
			}
			task, err := src.Task(ctx, id)
			slots[i] = fetched{task: task, err: err}
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				progress.failed(i, id)
				log.Warn("skipping task", logging.TaskID(id), logging.Err(err))
			} else {
				progress.checked(i, task.Text)
			}
			// Failures stay local to their slot.
			return nil
		})
	}
	_ = g.Wait()

	var open []service.Task
	var skipped []string
	for i, s := range slots {
		if s.err != nil {
			skipped = append(skipped, ids[i])
			continue
		}
		if s.task.IsOpenTodo() {
			open = append(open, s.task)
		}
	}
	return open, skipped
}

// SortCompleted orders tasks newest first by comparing DateCompleted as
// strings. Ties keep their original relative order; empty dates sort last.
func SortCompleted(tasks []service.Task) {
	slices.SortStableFunc(tasks, func(a, b service.Task) int {
		return strings.Compare(b.DateCompleted, a.DateCompleted)
	})
}

// progressWriter serializes progress lines from concurrent fetches.
type progressWriter struct {
	mu    sync.Mutex
	w     io.Writer
	total int
}

func (p *progressWriter) checked(i int, text string) {
	p.printf("[%d/%d] ✅ 检查任务：%s\n", i+1, p.total, text)
}

func (p *progressWriter) failed(i int, id string) {
	p.printf("[%d/%d] ❌ 无法获取任务 %s\n", i+1, p.total, id)
}

func (p *progressWriter) printf(format string, args ...any) {
	if p.w == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}
