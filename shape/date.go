package shape

import (
	"encoding/json"
	"math"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

// ExtractDate finds a timestamp in the well-known fields of doc: "date"
// (string or UNIX seconds), "fs.date", "lastupdate" and "time". Documents
// without a usable timestamp get the UNIX epoch.
func ExtractDate(doc map[string]any) time.Time {
	if v, ok := doc["date"]; ok {
		return dateOf(v)
	}
	if fs, ok := doc["fs"].(map[string]any); ok {
		if v, ok := fs["date"]; ok {
			return dateOf(v)
		}
	}
	if v, ok := doc["lastupdate"]; ok {
		return dateOf(v)
	}
	if v, ok := doc["time"]; ok {
		return dateOf(v)
	}
	return epoch()
}

func dateOf(v any) time.Time {
	switch x := v.(type) {
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC()
			}
		}
	case int:
		return time.Unix(int64(x), 0).UTC()
	case int64:
		return time.Unix(x, 0).UTC()
	case float64:
		return fromSeconds(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return fromSeconds(f)
		}
	}
	return epoch()
}

func fromSeconds(f float64) time.Time {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return epoch()
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

func epoch() time.Time {
	return time.Unix(0, 0).UTC()
}
