package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList is a string slice stored as a JSON text column so both SQLite
// and PostgreSQL can hold it without an extra table.
type JSONList []string

// Value implements driver.Valuer.
func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list: %v", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *JSONList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// ReviewLog is the append-only review history, stored as a JSON text column.
type ReviewLog []ReviewLogEntry

// Value implements driver.Valuer.
func (h ReviewLog) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %v", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (h *ReviewLog) Scan(src interface{}) error {
	return scanJSON(src, h)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
