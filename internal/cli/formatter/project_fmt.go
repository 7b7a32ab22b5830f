package formatter

import (
	"github.com/alexanderramin/taskline/internal/domain"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return RenderBox("Projects", Dim("No projects."))
	}

	headers := []string{"ID", "NAME", "FLAGS"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		name := Bold(p.Name)
		if p.ParentID != nil {
			name = Dim("· ") + StyleFg.Render(p.Name)
		}

		flags := ""
		if p.IsInbox {
			flags += StyleBlue.Render("inbox ")
		}
		if p.IsFavorite {
			flags += StyleYellow.Render("★")
		}
		if flags == "" {
			flags = Dim("--")
		}

		rows = append(rows, []string{TruncID(p.ID), name, flags})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatSectionList renders the sections of one project.
func FormatSectionList(projectName string, sections []*domain.Section) string {
	if len(sections) == 0 {
		return RenderBox(projectName, Dim("No sections."))
	}

	headers := []string{"ID", "SECTION"}
	rows := make([][]string, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, []string{TruncID(s.ID), StyleFg.Render(s.Name)})
	}

	return RenderBox(projectName, RenderTable(headers, rows))
}

// FormatLabelList renders a styled label list inside a bordered box.
func FormatLabelList(labels []*domain.Label) string {
	if len(labels) == 0 {
		return RenderBox("Labels", Dim("No labels."))
	}

	headers := []string{"ID", "LABEL", "COLOR"}
	rows := make([][]string, 0, len(labels))
	for _, l := range labels {
		name := StylePurple.Render("@" + l.Name)
		if l.IsFavorite {
			name += " " + StyleYellow.Render("★")
		}
		rows = append(rows, []string{TruncID(l.ID), name, Dim(l.Color)})
	}

	return RenderBox("Labels", RenderTable(headers, rows))
}
