package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NullableRef is an optional reference to another record in a partial update.
// Set reports whether the key was present at all; a present null or empty
// string clears the reference.
type NullableRef struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	n.Set = true
	n.Value = nil

	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("reference must be a string id: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid reference id %q", raw)
	}
	n.Value = &parsed
	return nil
}

// MarshalJSON renders null for cleared references.
func (n NullableRef) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value.String())
}

// Ref builds a present reference from an id.
func Ref(id uuid.UUID) NullableRef {
	return NullableRef{Set: true, Value: &id}
}
