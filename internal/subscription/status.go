// Package subscription normalizes the backend's many representations of a
// subscription status into one canonical lowercase string and classifies it.
//
// Depending on the endpoint, the status arrives as a boolean, a numeric flag,
// a string, or only as an expiry timestamp, nested under different keys.
// Normalization is a pure function over the decoded JSON payload.
package subscription

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Canonical status values. The type is an open string: unrecognized backend
// values pass through Normalize verbatim.
const (
	StatusUnknown  = "unknown"
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusExpired  = "expired"
)

// inactiveStatuses is the fixed set of statuses that block app use. Anything
// else, including "active" and "unknown", allows use: an ambiguous status
// must never lock a user out.
var inactiveStatuses = map[string]struct{}{
	"inactive":      {},
	"expired":       {},
	"ended":         {},
	"cancelled":     {},
	"canceled":      {},
	"paused":        {},
	"suspended":     {},
	"trial_expired": {},
	"past_due":      {},
}

// IsInactive reports whether status belongs to the blocking set. Matching is
// case-insensitive and ignores surrounding whitespace.
func IsInactive(status string) bool {
	_, ok := inactiveStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

// extractor pulls one candidate status value out of the payload, returning
// ok=false when its key path is absent or nil. Candidates are tried in fixed
// priority order; the first hit wins.
type extractor func(profile map[string]any) (any, bool)

var extractors = []extractor{
	topLevel("subscription_status"),
	nested("subscription", "status"),
	nested("subscription", "subscription_status"),
	nested("subscription", "state"),
}

func topLevel(key string) extractor {
	return func(profile map[string]any) (any, bool) {
		v, ok := profile[key]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}

func nested(parent, key string) extractor {
	return func(profile map[string]any) (any, bool) {
		sub, ok := profile[parent].(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := sub[key]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}

// Normalize converts a decoded profile or subscription payload into a
// canonical lowercase status string.
//
// The first non-nil candidate is coerced: booleans map to active/inactive,
// numbers map to active only when exactly 1, and everything else is
// stringified, trimmed and lowercased, passing unrecognized values through
// verbatim. When no candidate yields a value, an expiry timestamp strictly
// in the past yields "expired". Otherwise the status is "unknown".
func Normalize(profile map[string]any) string {
	return normalizeAt(profile, time.Now())
}

func normalizeAt(profile map[string]any, now time.Time) string {
	if profile == nil {
		return StatusUnknown
	}

	for _, extract := range extractors {
		v, ok := extract(profile)
		if !ok {
			continue
		}
		if s, ok := coerce(v); ok {
			return s
		}
	}

	if endsAt, ok := nested("subscription", "ends_at")(profile); ok {
		if ts, ok := parseTime(endsAt); ok && ts.Before(now) {
			return StatusExpired
		}
	}

	return StatusUnknown
}

// coerce maps one candidate value to a status string. ok=false means the
// value was unusable (e.g. an empty string) and the next candidate or the
// expiry fallback should be consulted.
func coerce(v any) (string, bool) {
	switch value := v.(type) {
	case bool:
		if value {
			return StatusActive, true
		}
		return StatusInactive, true
	case float64:
		if value == 1 {
			return StatusActive, true
		}
		return StatusInactive, true
	case int:
		if value == 1 {
			return StatusActive, true
		}
		return StatusInactive, true
	case int64:
		if value == 1 {
			return StatusActive, true
		}
		return StatusInactive, true
	case json.Number:
		if f, err := value.Float64(); err == nil && f == 1 {
			return StatusActive, true
		}
		return StatusInactive, true
	default:
		s := strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
		if s == "" {
			return "", false
		}
		return s, true
	}
}

// timeLayouts are the timestamp shapes the backend has been seen to emit for
// subscription.ends_at.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
