package cli

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dueParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseDuePhrase turns a due expression into the stored date forms. It
// accepts an explicit YYYY-MM-DD date, an RFC 3339 datetime, or a natural
// phrase such as "tomorrow" or "friday 5pm". Phrases that resolve to
// midnight are treated as date-only.
func parseDuePhrase(input string, now time.Time) (dueDate *string, dueDatetime *string, err error) {
	if input == "" {
		return nil, nil, nil
	}

	if t, perr := time.ParseInLocation("2006-01-02", input, now.Location()); perr == nil {
		s := t.Format("2006-01-02")
		return &s, nil, nil
	}
	if t, perr := time.Parse(time.RFC3339, input); perr == nil {
		s := t.Format(time.RFC3339)
		return nil, &s, nil
	}

	// Parse against midnight so bare day phrases ("tomorrow", "friday")
	// come back date-only instead of inheriting the current clock time.
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	r, perr := dueParser.Parse(input, base)
	if perr != nil {
		return nil, nil, fmt.Errorf("parsing due phrase %q: %w", input, perr)
	}
	if r == nil {
		return nil, nil, fmt.Errorf("unrecognized due phrase %q", input)
	}

	t := r.Time
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		s := t.Format("2006-01-02")
		return &s, nil, nil
	}
	s := t.Format(time.RFC3339)
	return nil, &s, nil
}
