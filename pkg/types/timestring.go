package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

const (
	timeLayout    = "15:04"
	endOfDay      = "24:00"
	minutesPerDay = 24 * 60
)

// TimeString время суток в формате HH:MM с точностью до минуты.
// Значение "24:00" допустимо и обозначает конец дня (для границ диапазонов).
type TimeString string

// NewTimeString создает TimeString из времени суток t
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку формата HH:MM
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes out of day", ErrInvalidTimeString, minutes)
	}
	if minutes == minutesPerDay {
		return endOfDay, nil
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет формат
func (t TimeString) Validate() error {
	if t == endOfDay {
		return nil
	}
	if len(t) != len(timeLayout) {
		return ErrInvalidTimeString
	}
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return ErrInvalidTimeString
	}
	return nil
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут от полуночи.
// Для некорректного значения возвращает -1.
func (t TimeString) Minutes() int {
	if t == endOfDay {
		return minutesPerDay
	}
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// AddMinutes возвращает время, сдвинутое на n минут. Выход за пределы суток - ошибка.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(t.Minutes() + n)
}

// IsBefore строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// On возвращает момент времени в день date (в локации date)
func (t TimeString) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(t.Minutes()) * time.Minute)
}

func (t TimeString) String() string {
	return string(t)
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner (поддерживает TIME колонки Postgres вида "10:00:00")
func (t *TimeString) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}

	if len(raw) > len(timeLayout) {
		raw = raw[:len(timeLayout)]
	}
	parsed, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalJSON валидирует значение при декодировании
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
