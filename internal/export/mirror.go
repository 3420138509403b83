package export

import (
	"context"
	"fmt"
	"strings"

	"hbexport/internal/output"
	"hbexport/internal/service"
)

// MirrorResult counts what Mirror did.
type MirrorResult struct {
	List    service.TaskList
	Created int
	Skipped int
}

// Mirror copies unfinished to-dos into the named sink list. A to-do whose
// normalized title already matches an open task in the list is skipped, so
// repeated runs do not duplicate tasks. The first create failure aborts.
func Mirror(ctx context.Context, sink service.Sink, listName string, todos []service.Task) (MirrorResult, error) {
	var res MirrorResult

	list, err := sink.EnsureList(ctx, listName)
	if err != nil {
		return res, fmt.Errorf("resolve list %q: %w", listName, err)
	}
	res.List = list

	titles, err := sink.ListOpenTitles(ctx, list.ID)
	if err != nil {
		return res, fmt.Errorf("list open tasks: %w", err)
	}
	existing := make(map[string]bool, len(titles))
	for _, t := range titles {
		existing[titleKey(t)] = true
	}

	for _, todo := range todos {
		title := output.NormalizeTitle(todo.Text)
		key := titleKey(title)
		if existing[key] {
			res.Skipped++
			continue
		}
		if err := sink.CreateTask(ctx, list.ID, title, output.ChecklistNotes(todo)); err != nil {
			return res, fmt.Errorf("create task %q: %w", title, err)
		}
		existing[key] = true
		res.Created++
	}
	return res, nil
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
