// Package inventory converts loosely-typed backend payloads into the
// canonical domain records. The backend's payload shapes drift across
// deployments (bare arrays vs {items:[]} vs {data:[]}, renamed fields),
// so every record is built by probing an ordered alias list per logical
// field and rejecting raw items that fail the required-field checks.
// A half-populated record is worse than a missing one: invalid items are
// dropped, never defaulted.
package inventory

import (
	"math"
	"strconv"
	"strings"
)

// asRecord narrows an untyped JSON value to a key-value map.
func asRecord(value interface{}) (map[string]interface{}, bool) {
	record, ok := value.(map[string]interface{})
	return record, ok
}

// collectionItems extracts the item sequence from a collection payload:
// a bare array, an items field, or a data field, in that order. Anything
// else is an empty collection.
func collectionItems(raw interface{}) []interface{} {
	if items, ok := raw.([]interface{}); ok {
		return items
	}
	if record, ok := asRecord(raw); ok {
		if items, ok := record["items"].([]interface{}); ok {
			return items
		}
		if items, ok := record["data"].([]interface{}); ok {
			return items
		}
	}
	return nil
}

// readString returns the first alias that resolves to a non-empty string.
func readString(record map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := record[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// readNumber returns the first alias that resolves to a finite number.
// String-encoded numerics are coerced.
func readNumber(record map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := record[key].(type) {
		case float64:
			if !math.IsInf(v, 0) && !math.IsNaN(v) {
				return v, true
			}
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsInf(n, 0) {
				return n, true
			}
		}
	}
	return 0, false
}

// readInt is readNumber truncated to an integer.
func readInt(record map[string]interface{}, keys ...string) (int, bool) {
	n, ok := readNumber(record, keys...)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// readBool returns the first alias holding a boolean.
func readBool(record map[string]interface{}, keys ...string) (bool, bool) {
	for _, key := range keys {
		if b, ok := record[key].(bool); ok {
			return b, true
		}
	}
	return false, false
}
