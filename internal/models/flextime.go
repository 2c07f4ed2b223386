package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// FlexTime is an epoch-millisecond timestamp that tolerates the heterogeneous
// encodings upstream sources emit: JSON numbers, numeric strings and ISO date
// strings. Zero means absent; callers normalize before doing arithmetic.
type FlexTime int64

var flexTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts a number, a numeric string or a date string. Values
// that cannot be interpreted decode to zero rather than failing the whole
// document.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = 0
		return nil
	}

	switch v := raw.(type) {
	case float64:
		*t = FlexTime(v)
	case string:
		*t = parseFlexString(v)
	default:
		*t = 0
	}
	return nil
}

// MarshalJSON always encodes as an epoch-millisecond number.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(t), 10)), nil
}

func parseFlexString(s string) FlexTime {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FlexTime(n)
	}
	for _, layout := range flexTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return FlexTime(parsed.UnixMilli())
		}
	}
	return 0
}
