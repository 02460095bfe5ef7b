package helpers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeJSON(t *testing.T) {
	d := NewDateTime(time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-29 18:30:00"`, string(data))

	var parsed DateTime
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, d.Time(), parsed.Time())
}

func TestDateTimeUnmarshalRejectsOtherFormats(t *testing.T) {
	var d DateTime
	assert.Error(t, json.Unmarshal([]byte(`"2026-08-29T18:30:00Z"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"29.08.2026"`), &d))

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}

func TestNewDateTimeTruncatesSubsecond(t *testing.T) {
	d := NewDateTime(time.Date(2026, 8, 29, 18, 30, 0, 999_000_000, time.UTC))
	assert.Equal(t, "2026-08-29 18:30:00", d.String())
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2026-08-29 18:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC), got)

	_, err = ParseDateTime("not a date")
	assert.Error(t, err)
}

func TestPageClamp(t *testing.T) {
	assert.Equal(t, Page{From: 0, Size: 10}, Page{From: -5, Size: 0}.Clamp())
	assert.Equal(t, Page{From: 0, Size: 10}, Page{From: 0, Size: MaxPageSize + 1}.Clamp())
	assert.Equal(t, Page{From: 30, Size: 50}, Page{From: 30, Size: 50}.Clamp())
}
