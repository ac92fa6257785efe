package availability

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// rangeJSON диапазон в колонке days (JSONB)
type rangeJSON struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// daysJSON ключ - день недели в нижнем регистре ("monday")
type daysJSON map[string][]rangeJSON

func encodeDays(days map[time.Weekday][]domain.TimeRange) (string, error) {
	raw := make(daysJSON, len(days))
	for wd, ranges := range days {
		items := make([]rangeJSON, 0, len(ranges))
		for _, r := range ranges {
			items = append(items, rangeJSON{Start: r.Start, End: r.End})
		}
		raw[domain.WeekdayName(wd)] = items
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return string(data), nil
}

func decodeDays(data []byte) (map[time.Weekday][]domain.TimeRange, error) {
	var raw daysJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	days := make(map[time.Weekday][]domain.TimeRange, len(raw))
	for name, items := range raw {
		wd, err := domain.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncode, err)
		}
		ranges := make([]domain.TimeRange, 0, len(items))
		for _, item := range items {
			ranges = append(ranges, domain.TimeRange{Start: item.Start, End: item.End})
		}
		days[wd] = ranges
	}
	return days, nil
}

// encodeDates DATE[] передаётся как текстовый массив '{2026-03-02,...}'
func encodeDates(dates []time.Time) pq.StringArray {
	result := make(pq.StringArray, 0, len(dates))
	for _, d := range dates {
		result = append(result, d.Format(domain.DateFormat))
	}
	return result
}

func decodeDates(raw pq.StringArray) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	result := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, fmt.Errorf("%w: blocked date %q: %v", ErrEncode, s, err)
		}
		result = append(result, d)
	}
	return result, nil
}
