// Package normalize validates and coerces the loosely-typed numeric and
// timestamp fields that arrive from push events and historical REST records.
// Upstream sources are not trusted: any arithmetic on their timestamps (age,
// sort order) must not see absurd values.
package normalize

import (
	"encoding/json"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"memelaunch/internal/models"
)

// MaxTimestampMillis is 2100-01-01T00:00:00Z. Anything later is rejected.
const MaxTimestampMillis = 4102444800000

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp coerces a loosely-typed timestamp into epoch milliseconds.
// Missing, unparsable and out-of-range inputs all resolve to the current
// time; out-of-range and unparsable inputs are logged. Never returns a value
// outside [1, MaxTimestampMillis].
func Timestamp(input interface{}) int64 {
	now := time.Now().UnixMilli()

	var millis int64
	switch v := input.(type) {
	case nil:
		return now
	case int64:
		millis = v
	case int:
		millis = int64(v)
	case float64:
		millis = int64(v)
	case models.FlexTime:
		millis = int64(v)
	case time.Time:
		millis = v.UnixMilli()
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			log.WithField("timestamp", v.String()).Warn("Invalid timestamp received, using current time")
			return now
		}
		millis = int64(parsed)
	case string:
		parsed, ok := parseTimestampString(v)
		if !ok {
			log.WithField("timestamp", v).Warn("Invalid timestamp received, using current time")
			return now
		}
		millis = parsed
	default:
		log.WithField("timestamp", input).Warn("Unsupported timestamp type, using current time")
		return now
	}

	if millis <= 0 || millis > MaxTimestampMillis {
		if millis != 0 {
			log.WithField("timestamp", millis).Warn("Timestamp out of range, using current time")
		}
		return now
	}
	return millis
}

// TimestampString renders a loosely-typed timestamp as an RFC 3339 UTC
// string, applying the same coercion rules as Timestamp.
func TimestampString(input interface{}) string {
	return time.UnixMilli(Timestamp(input)).UTC().Format("2006-01-02T15:04:05.000Z")
}

func parseTimestampString(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UnixMilli(), true
		}
	}
	return 0, false
}
