package intel

import (
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// stringValue returns the column as a string, or "" for a missing or null
// value. Non-string values are formatted.
func stringValue(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// numberValue reads an integer or float column. ok is false for missing,
// null or non-numeric values.
func numberValue(rec *neo4j.Record, key string) (float64, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

func intValue(rec *neo4j.Record, key string) int64 {
	f, _ := numberValue(rec, key)
	return int64(f)
}

// rawValue returns the column as stored, nil when absent.
func rawValue(rec *neo4j.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}

func boolValue(rec *neo4j.Record, key string) bool {
	v, ok := rec.Get(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
