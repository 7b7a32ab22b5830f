package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Checkbox renders a completion marker.
func Checkbox(done bool) string {
	if done {
		return StyleGreen.Render("[x]")
	}
	return StyleDim.Render("[ ]")
}

// RelativeDate returns a human-friendly relative date string.
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// RelativeDateFrom returns a human-friendly relative date string from a
// reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueStyled renders a task's due date with urgency coloring. dueDate is the
// stored YYYY-MM-DD form; dueDatetime, when set, takes precedence and is
// rendered with its time component.
func DueStyled(dueDate, dueDatetime *string, now time.Time) string {
	if dueDatetime != nil {
		if t, err := time.Parse(time.RFC3339, *dueDatetime); err == nil {
			text := RelativeDateFrom(t, now) + " " + t.Local().Format("15:04")
			return dueUrgencyStyle(t, now).Render(text)
		}
	}
	if dueDate != nil {
		if t, err := time.ParseInLocation("2006-01-02", *dueDate, now.Location()); err == nil {
			return dueUrgencyStyle(t, now).Render(RelativeDateFrom(t, now))
		}
	}
	return StyleDim.Render("--")
}

func dueUrgencyStyle(t time.Time, now time.Time) lipgloss.Style {
	days := int(math.Round(t.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return StyleRed
	case days <= 1:
		return StyleYellow
	default:
		return StyleFg
	}
}
