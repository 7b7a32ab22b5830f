package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// FormatTaskList renders a styled task table inside a bordered box.
// projectNames maps project IDs to display names; unknown IDs render dimmed.
func FormatTaskList(title string, tasks []*domain.Task, projectNames map[string]string) string {
	if len(tasks) == 0 {
		return RenderBox(title, Dim("No tasks."))
	}

	now := time.Now()
	headers := []string{"", "ID", "PRI", "TASK", "PROJECT", "DUE", "LABELS"}
	rows := make([][]string, 0, len(tasks))

	for _, t := range tasks {
		project := Dim("--")
		if name, ok := projectNames[t.ProjectID]; ok {
			project = StyleBlue.Render(name)
		}

		content := t.Content
		if t.IsCompleted {
			content = StyleDim.Render(content)
		} else {
			content = StyleFg.Render(content)
		}

		labels := Dim("--")
		if len(t.Labels) > 0 {
			labels = StylePurple.Render("@" + strings.Join(t.Labels, " @"))
		}

		rows = append(rows, []string{
			Checkbox(t.IsCompleted),
			TruncID(t.ID),
			PriorityIndicator(t.Priority),
			content,
			project,
			DueStyled(t.DueDate, t.DueDatetime, now),
			labels,
		})
	}

	return RenderBox(title, RenderTable(headers, rows))
}

// FormatTask renders a single task as a detail card.
func FormatTask(t *domain.Task, projectName string) string {
	now := time.Now()
	var b strings.Builder

	b.WriteString(Bold(t.Content))
	b.WriteString("\n\n")
	if t.Description != "" {
		b.WriteString(StyleFg.Render(t.Description))
		b.WriteString("\n\n")
	}

	b.WriteString(Dim("ID        ") + TruncID(t.ID) + "\n")
	b.WriteString(Dim("Priority  ") + PriorityIndicator(t.Priority) + "\n")
	if projectName != "" {
		b.WriteString(Dim("Project   ") + StyleBlue.Render(projectName) + "\n")
	}
	b.WriteString(Dim("Due       ") + DueStyled(t.DueDate, t.DueDatetime, now) + "\n")
	if t.IsRecurring {
		b.WriteString(Dim("Repeats   ") + StyleYellow.Render("yes") + "\n")
	}
	if len(t.Labels) > 0 {
		b.WriteString(Dim("Labels    ") + StylePurple.Render("@"+strings.Join(t.Labels, " @")) + "\n")
	}
	b.WriteString(Dim("Status    "))
	if t.IsCompleted {
		b.WriteString(StyleGreen.Render("completed"))
	} else {
		b.WriteString(StyleFg.Render("pending"))
	}
	b.WriteString("\n")

	return RenderBox("Task", b.String())
}
