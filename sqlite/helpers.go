package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/veridoc"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including
// the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// encodeJSON marshals v for a JSON column.
func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// encodeBBox marshals an optional bounding box; nil stays NULL.
func encodeBBox(b *veridoc.BoundingBox) (*string, error) {
	if b == nil {
		return nil, nil
	}
	s, err := encodeJSON(b)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// decodePoint parses an origin_json column.
func decodePoint(s string) (*veridoc.Point, error) {
	var p veridoc.Point
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("failed to parse origin_json: %w", err)
	}
	return &p, nil
}

// decodeBBox parses an optional bbox_json column.
func decodeBBox(s *string) (*veridoc.BoundingBox, error) {
	if s == nil {
		return nil, nil
	}
	var b veridoc.BoundingBox
	if err := json.Unmarshal([]byte(*s), &b); err != nil {
		return nil, fmt.Errorf("failed to parse bbox_json: %w", err)
	}
	return &b, nil
}
