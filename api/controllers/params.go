package controllers

import (
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseRef reads an optional id from a request body. A blank value is nil.
func parseRef(field, raw string, problems pkgerrors.FieldErrors) *uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		problems.Add(field, "must be a valid id")
		return nil
	}
	return &id
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(field, raw string, problems pkgerrors.FieldErrors) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	problems.Add(field, "must be a date")
	return nil
}
