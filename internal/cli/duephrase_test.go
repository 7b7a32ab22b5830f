package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuePhrase(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 4, 0, 0, time.UTC)

	t.Run("empty input", func(t *testing.T) {
		date, datetime, err := parseDuePhrase("", now)
		require.NoError(t, err)
		assert.Nil(t, date)
		assert.Nil(t, datetime)
	})

	t.Run("explicit date", func(t *testing.T) {
		date, datetime, err := parseDuePhrase("2026-09-15", now)
		require.NoError(t, err)
		require.NotNil(t, date)
		assert.Equal(t, "2026-09-15", *date)
		assert.Nil(t, datetime)
	})

	t.Run("explicit datetime", func(t *testing.T) {
		date, datetime, err := parseDuePhrase("2026-09-15T09:30:00Z", now)
		require.NoError(t, err)
		assert.Nil(t, date)
		require.NotNil(t, datetime)
		assert.Equal(t, "2026-09-15T09:30:00Z", *datetime)
	})

	t.Run("bare day phrase is date-only", func(t *testing.T) {
		date, datetime, err := parseDuePhrase("tomorrow", now)
		require.NoError(t, err)
		require.NotNil(t, date)
		assert.Equal(t, "2026-08-31", *date)
		assert.Nil(t, datetime)
	})

	t.Run("timed phrase keeps the clock", func(t *testing.T) {
		date, datetime, err := parseDuePhrase("tomorrow at 5pm", now)
		require.NoError(t, err)
		assert.Nil(t, date)
		require.NotNil(t, datetime)
		parsed, perr := time.Parse(time.RFC3339, *datetime)
		require.NoError(t, perr)
		assert.Equal(t, 17, parsed.Hour())
		assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), parsed.Format("2006-01-02"))
	})

	t.Run("unrecognized phrase", func(t *testing.T) {
		_, _, err := parseDuePhrase("gibberish", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized due phrase")
	})
}
