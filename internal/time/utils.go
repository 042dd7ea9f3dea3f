package timeutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/imishinist/nnresults/internal/models"
)

// Date layouts accepted in the fecha column, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// ParseDate parses a record date. ok is false when no layout matches.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ResolutionDuration maps a resolution name to its duration.
func ResolutionDuration(resolution string) (time.Duration, error) {
	switch resolution {
	case "1m":
		return time.Minute, nil
	case "5m":
		return 5 * time.Minute, nil
	case "1h":
		return time.Hour, nil
	case "1d":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unsupported resolution: %s", resolution)
	}
}

// AlignTimestamp aligns timestamp to the specified resolution and alignment
func AlignTimestamp(t time.Time, resolution string, alignment string) (time.Time, error) {
	duration, err := ResolutionDuration(resolution)
	if err != nil {
		return t, err
	}

	aligned := t.Truncate(duration)

	switch alignment {
	case "floor":
		return aligned, nil
	case "ceil":
		if t.After(aligned) {
			return aligned.Add(duration), nil
		}
		return aligned, nil
	case "round":
		half := duration / 2
		if t.Sub(aligned) >= half {
			return aligned.Add(duration), nil
		}
		return aligned, nil
	default:
		return t, fmt.Errorf("unsupported alignment: %s", alignment)
	}
}

// BuildHistory turns a date-keyed series into MLflow metric points under key.
// Points whose date cannot be parsed are stamped with fallback. Steps count
// resolution units since the first parsed date; sequence mode, and auto mode
// for unparsed dates, use the point's position instead.
func BuildHistory(key string, points []models.SeriesPoint, config models.TimeConfig, fallback time.Time) ([]models.Metric, error) {
	duration, err := ResolutionDuration(config.Resolution)
	if err != nil {
		return nil, err
	}

	var base time.Time
	haveBase := false
	for _, p := range points {
		if t, ok := ParseDate(p.Date); ok {
			base, err = AlignTimestamp(t, config.Resolution, config.Alignment)
			if err != nil {
				return nil, err
			}
			haveBase = true
			break
		}
	}

	result := make([]models.Metric, 0, len(points))
	for i, p := range points {
		timestamp := fallback
		parsed, ok := ParseDate(p.Date)
		if ok {
			timestamp, err = AlignTimestamp(parsed, config.Resolution, config.Alignment)
			if err != nil {
				return nil, err
			}
		}

		var step int64
		switch config.StepMode {
		case "timestamp":
			if haveBase {
				step = int64(timestamp.Sub(base) / duration)
			} else {
				step = int64(i)
			}
		case "sequence":
			step = int64(i)
		case "auto":
			if ok && haveBase {
				step = int64(timestamp.Sub(base) / duration)
			} else {
				step = int64(i)
			}
		default:
			return nil, fmt.Errorf("unsupported step mode: %s", config.StepMode)
		}

		result = append(result, models.Metric{
			Key:       key,
			Value:     p.Value,
			Timestamp: timestamp,
			Step:      step,
		})
	}

	return result, nil
}
