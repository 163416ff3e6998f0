package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineDateTime(t *testing.T) {
	got, err := CombineDateTime("2024-06-10", "09:00")
	require.NoError(t, err)

	want := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	assert.True(t, got.Equal(want), "ожидалось %v, получено %v", want, got)
	assert.Equal(t, time.Local, got.Location(), "метка планирования всегда локальная")
}

func TestCombineDateTimeMidnightAndEndOfDay(t *testing.T) {
	got, err := CombineDateTime("2024-12-31", "00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Hour())

	got, err = CombineDateTime("2024-12-31", "23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, got.Hour())
	assert.Equal(t, 59, got.Minute())
}

func TestCombineDateTimeRejectsBadInput(t *testing.T) {
	_, err := CombineDateTime("10.06.2024", "09:00")
	assert.Error(t, err)

	_, err = CombineDateTime("2024-06-10", "9am")
	assert.Error(t, err)

	_, err = CombineDateTime("", "")
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2024, 6, 10, 15, 42, 7, 0, time.Local)
	start, end := DayBounds(day)

	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, time.Local), end)
}

func TestSameDay(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	assert.True(t, SameDay(time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local), day))
	assert.True(t, SameDay(time.Date(2024, 6, 10, 23, 59, 59, 0, time.Local), day))
	assert.False(t, SameDay(time.Date(2024, 6, 11, 0, 0, 0, 0, time.Local), day))
	assert.False(t, SameDay(time.Date(2024, 6, 9, 23, 59, 59, 0, time.Local), day))
}
