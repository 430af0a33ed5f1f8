package errors

import (
	"sort"
	"strings"
)

// FieldErrors accumulates field -> reason pairs so a single failure can report every offending field.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, reason string) {
	if _, exists := f[field]; exists {
		return
	}
	f[field] = reason
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Fields returns the offending field names in stable order.
func (f FieldErrors) Fields() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Err returns nil when nothing was collected, otherwise a VALIDATION_ERROR carrying the map as details.
func (f FieldErrors) Err() error {
	if f.Empty() {
		return nil
	}
	return Validation(f)
}

func Validation(fields map[string]string) *Error {
	msg := "invalid fields: " + strings.Join(FieldErrors(fields).Fields(), ", ")
	return New(CodeValidation, msg).WithDetails(map[string]string(fields))
}

func ValidationField(field, reason string) *Error {
	return Validation(map[string]string{field: reason})
}

func Reference(field string) *Error {
	return New(CodeReference, field+" does not exist").WithDetails(map[string]string{field: "not found"})
}

func NotFound(entity string) *Error {
	return New(CodeNotFound, entity+" not found")
}

// FieldDetails extracts the field map of a validation or reference error.
func FieldDetails(err error) map[string]string {
	typed := As(err)
	if typed == nil {
		return nil
	}
	fields, _ := typed.Details().(map[string]string)
	return fields
}
