package output_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"hbexport/internal/output"
	"hbexport/internal/service"
	"hbexport/internal/testutil"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"utc zulu", "2025-06-01T10:00:00Z", "2025-06-01 10:00"},
		{"milliseconds", "2025-06-27T08:15:42.123Z", "2025-06-27 08:15"},
		{"offset kept", "2025-06-01T18:30:00+08:00", "2025-06-01 18:30"},
		{"offset without colon", "2025-06-01T18:30:00+0800", "2025-06-01 18:30"},
		{"negative offset with millis", "2025-06-01T07:45:10.250-0500", "2025-06-01 07:45"},
		{"no zone", "2025-06-01T10:05:00", "2025-06-01 10:05"},
		{"minutes only", "2025-06-01T10:05", "2025-06-01 10:05"},
		{"date only", "2025-06-01", "2025-06-01 00:00"},
		{"surrounding space", "  2025-06-01T10:00:00Z ", "2025-06-01 10:00"},
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"malformed", "yesterday", "(无时间)"},
		{"bad month", "2025-13-01T10:00:00Z", "(无时间)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := output.FormatTimestamp(tt.in); got != tt.want {
				t.Errorf("FormatTimestamp(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTask_UnfinishedWithChecklist(t *testing.T) {
	task := service.Task{
		Text:      "Buy milk",
		Type:      "todo",
		Completed: false,
		Checklist: []service.ChecklistItem{
			{Text: "2%", Completed: true},
			{Text: "whole", Completed: false},
		},
	}

	got := output.FormatTask(task)
	want := []string{
		"- **Buy milk** (🕒 未完成)",
		"  - ☑️ 2%",
		"  - ⬜ whole",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FormatTask() = %q, want %q", got, want)
	}
}

func TestFormatTask_CompletedWithDate(t *testing.T) {
	task := service.Task{
		Text:          "File taxes",
		Completed:     true,
		DateCompleted: "2025-06-01T10:00:00Z",
	}

	got := output.FormatTask(task)
	want := []string{"- **File taxes** (✅ 已完成, 2025-06-01 10:00)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FormatTask() = %q, want %q", got, want)
	}
}

func TestFormatTask_CompletedWithoutDate(t *testing.T) {
	task := service.Task{Text: "Old", Completed: true}

	got := output.FormatTask(task)
	want := []string{"- **Old** (✅ 已完成)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FormatTask() = %q, want %q", got, want)
	}
}

func TestFormatTask_CompletedMalformedDate(t *testing.T) {
	task := service.Task{Text: "Odd", Completed: true, DateCompleted: "not-a-date"}

	got := output.FormatTask(task)
	want := []string{"- **Odd** (✅ 已完成, (无时间))"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FormatTask() = %q, want %q", got, want)
	}
}

func TestFormatTask_PendingIgnoresDate(t *testing.T) {
	task := service.Task{Text: "Reopened", DateCompleted: "2025-06-01T10:00:00Z"}

	got := output.FormatTask(task)
	if got[0] != "- **Reopened** (🕒 未完成)" {
		t.Errorf("unexpected line %q", got[0])
	}
}

func TestFormatTask_NormalizesText(t *testing.T) {
	task := service.Task{
		Text:      "  \n ",
		Checklist: []service.ChecklistItem{{Text: "line one\nline two"}},
	}

	got := output.FormatTask(task)
	want := []string{
		"- **(无标题)** (🕒 未完成)",
		"  - ⬜ line one line two",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FormatTask() = %q, want %q", got, want)
	}
}

func TestFormatReport_Empty(t *testing.T) {
	got := output.FormatReport(nil, nil)
	want := "# 📋 Habitica To-Do 导出记录\n\n## 🔸 当前进行中 To-Do（未完成）\n\n\n## ✅ 最近完成的 To-Do\n"
	if got != want {
		t.Errorf("FormatReport() = %q, want %q", got, want)
	}
}

func TestFormatReport_Golden(t *testing.T) {
	unfinished := []service.Task{
		{
			Text: "Buy milk",
			Checklist: []service.ChecklistItem{
				{Text: "2%", Completed: true},
				{Text: "whole"},
			},
		},
		{Text: "Call mom"},
	}
	completed := []service.Task{
		{Text: "File taxes", Completed: true, DateCompleted: "2025-06-02T09:30:00.000Z"},
		{Text: "Pack", Completed: true, DateCompleted: "2025-06-01T10:00:00Z",
			Checklist: []service.ChecklistItem{{Text: "passport", Completed: true}}},
	}

	testutil.GoldenString(t, "report", output.FormatReport(unfinished, completed))
}

func TestChecklistNotes(t *testing.T) {
	task := service.Task{
		Notes: " bring bags ",
		Checklist: []service.ChecklistItem{
			{Text: "2%", Completed: true},
			{Text: "whole"},
		},
	}

	got := output.ChecklistNotes(task)
	want := "bring bags\n☑️ 2%\n⬜ whole"
	if got != want {
		t.Errorf("ChecklistNotes() = %q, want %q", got, want)
	}

	if got := output.ChecklistNotes(service.Task{}); got != "" {
		t.Errorf("expected empty notes, got %q", got)
	}
}

func TestRenderTerminal_NoTTY(t *testing.T) {
	md := output.FormatReport([]service.Task{{Text: "Buy milk"}}, nil)

	got, err := output.RenderTerminal(md, 0, false)
	if err != nil {
		t.Fatalf("RenderTerminal: %v", err)
	}
	if !strings.Contains(got, "Habitica To-Do") {
		t.Errorf("rendered output missing title:\n%s", got)
	}
	if !strings.Contains(got, "Buy milk") {
		t.Errorf("rendered output missing task:\n%s", got)
	}
}

func TestFormatListName(t *testing.T) {
	var buf bytes.Buffer
	output.FormatListName(&buf, service.TaskList{ID: "@default", Title: "My Tasks", IsDefault: true})
	output.FormatListName(&buf, service.TaskList{ID: "x", Title: " "})
	output.FormatListName(&buf, service.TaskList{ID: "hab", Title: "Habitica"})

	want := "My Tasks [default]\n(无标题)\nHabitica\n"
	if buf.String() != want {
		t.Errorf("FormatListName() = %q, want %q", buf.String(), want)
	}
}
