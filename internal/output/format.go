// Package output renders tasks into the Markdown export report.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"hbexport/internal/service"
)

// Report headings and markers.
const (
	ReportTitle       = "# 📋 Habitica To-Do 导出记录\n"
	UnfinishedHeading = "## 🔸 当前进行中 To-Do（未完成）\n"
	CompletedHeading  = "\n## ✅ 最近完成的 To-Do\n"

	StatusDone    = "✅ 已完成"
	StatusPending = "🕒 未完成"

	CheckedMark   = "☑️"
	UncheckedMark = "⬜"

	// NoTime replaces a completion timestamp that cannot be parsed.
	NoTime = "(无时间)"

	// Untitled replaces an empty task title.
	Untitled = "(无标题)"

	timestampLayout = "2006-01-02 15:04"
)

// isoLayouts are tried in order by FormatTimestamp.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatTimestamp renders an ISO-8601 timestamp as "YYYY-MM-DD HH:MM" in the
// timestamp's own offset. Empty input yields "", unparseable input NoTime.
func FormatTimestamp(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(timestampLayout)
		}
	}
	return NoTime
}

// FormatTask formats a task as a Markdown bullet followed by one indented
// bullet per checklist item.
//
//	- **{TITLE}** ({STATUS}[, {DATE}])
//	  - {MARK} {ITEM}
func FormatTask(task service.Task) []string {
	status := StatusPending
	date := ""
	if task.Completed {
		status = StatusDone
		date = FormatTimestamp(task.DateCompleted)
	}

	title := normalizeTitle(task.Text)
	lines := make([]string, 0, 1+len(task.Checklist))
	if date != "" {
		lines = append(lines, "- **"+title+"** ("+status+", "+date+")")
	} else {
		lines = append(lines, "- **"+title+"** ("+status+")")
	}

	for _, item := range task.Checklist {
		mark := UncheckedMark
		if item.Completed {
			mark = CheckedMark
		}
		lines = append(lines, "  - "+mark+" "+singleLine(item.Text))
	}
	return lines
}

// FormatReport assembles the full document. Lines are joined with "\n" and
// the document has no trailing newline.
func FormatReport(unfinished, completed []service.Task) string {
	lines := []string{ReportTitle, UnfinishedHeading}
	for _, t := range unfinished {
		lines = append(lines, FormatTask(t)...)
	}
	lines = append(lines, CompletedHeading)
	for _, t := range completed {
		lines = append(lines, FormatTask(t)...)
	}
	return strings.Join(lines, "\n")
}

// ChecklistNotes renders checklist items as plain lines for a sink's notes field.
func ChecklistNotes(task service.Task) string {
	var b strings.Builder
	if notes := strings.TrimSpace(task.Notes); notes != "" {
		b.WriteString(notes)
	}
	for _, item := range task.Checklist {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		mark := UncheckedMark
		if item.Completed {
			mark = CheckedMark
		}
		b.WriteString(mark + " " + singleLine(item.Text))
	}
	return b.String()
}

// FormatListName prints a sink list name, marking the default list.
func FormatListName(w io.Writer, list service.TaskList) {
	title := list.Title
	if strings.TrimSpace(title) == "" {
		title = Untitled
	}
	if list.IsDefault {
		title += " [default]"
	}
	fmt.Fprintln(w, title)
}

// NormalizeTitle is the title used in the report and for sink de-duplication.
func NormalizeTitle(title string) string {
	return normalizeTitle(title)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(无标题)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = singleLine(title)
	if strings.TrimSpace(title) == "" {
		return Untitled
	}
	return title
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
