package utils

import (
	"fmt"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// CombineDateTime склеивает календарную дату и время суток в одну
// локальную метку времени планирования. Никакой нормализации часовых
// поясов не выполняется: "2024-06-10" + "09:00" всегда дает локальное
// 2024-06-10T09:00:00.
func CombineDateTime(dateStr, timeStr string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, dateStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("неверный формат даты %q: %w", dateStr, err)
	}
	t, err := time.ParseInLocation(TimeLayout, timeStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("неверный формат времени %q: %w", timeStr, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// DayBounds возвращает границы локальных календарных суток дня day:
// [начало; начало следующего дня).
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// SameDay сообщает, попадает ли ts в локальные календарные сутки дня day.
func SameDay(ts, day time.Time) bool {
	start, end := DayBounds(day)
	return !ts.Before(start) && ts.Before(end)
}
