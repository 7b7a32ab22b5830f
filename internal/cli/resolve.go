package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/taskline/internal/repository"
)

// resolveProjectID accepts a project name (case-insensitive), a full local
// ID, or an unambiguous ID prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}

	projects, err := app.Queries.Projects(ctx, app.BackendID)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveSectionID accepts a section name within the project, a full local
// ID, or an unambiguous ID prefix.
func resolveSectionID(ctx context.Context, app *App, projectID, input string) (string, error) {
	sections, err := app.Queries.Sections(ctx, projectID)
	if err != nil {
		return "", err
	}

	for _, s := range sections {
		if strings.EqualFold(s.Name, input) {
			return s.ID, nil
		}
	}
	for _, s := range sections {
		if s.ID == input {
			return s.ID, nil
		}
	}

	var matches []string
	for _, s := range sections {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("section not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("section %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTaskID accepts a full local ID or an unambiguous ID prefix.
func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}

	tasks, err := app.Queries.Tasks(ctx, app.BackendID, repository.TaskFilter{})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveLabelID accepts a label name (with or without a leading @), a full
// local ID, or an unambiguous ID prefix.
func resolveLabelID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("label is required")
	}
	name := strings.TrimPrefix(input, "@")

	labels, err := app.Queries.Labels(ctx, app.BackendID)
	if err != nil {
		return "", err
	}

	for _, l := range labels {
		if strings.EqualFold(l.Name, name) {
			return l.ID, nil
		}
	}
	for _, l := range labels {
		if l.ID == input {
			return l.ID, nil
		}
	}

	var matches []string
	for _, l := range labels {
		if strings.HasPrefix(l.ID, input) {
			matches = append(matches, l.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("label not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("label %q is ambiguous (%d matches)", input, len(matches))
	}
}

// projectNameIndex builds the projectID -> name map used by the task table.
func projectNameIndex(ctx context.Context, app *App) (map[string]string, error) {
	projects, err := app.Queries.Projects(ctx, app.BackendID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}
