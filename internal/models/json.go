// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// json.go provides sql.Scanner/driver.Valuer wrappers so JSONB columns
// round-trip through database/sql without per-query marshalling.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a free-form JSON object column (settings, seo_data, metadata).
type JSONMap map[string]any

// Value marshals the map for storage in a JSONB column. A nil map is
// stored as SQL NULL rather than the string "null".
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan unmarshals a JSONB column into the map.
func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scan JSONMap: unexpected type %T", src)
	}
	return json.Unmarshal(b, m)
}

// StringList is a JSON array of strings column (target_keywords).
type StringList []string

// Value marshals the list for storage in a JSONB column.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan unmarshals a JSONB column into the list.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scan StringList: unexpected type %T", src)
	}
	return json.Unmarshal(b, l)
}
