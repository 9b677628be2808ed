package models

import "fmt"

// ParseError signals a structurally unusable input file. It aborts the
// whole run before any processing, per-row anomalies do not use it.
type ParseError struct {
	File    string // "physical" or "shopify"
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s file: %s", e.File, e.Message)
}

// NewParseError creates a ParseError for the given input file.
func NewParseError(file, format string, args ...interface{}) *ParseError {
	return &ParseError{File: file, Message: fmt.Sprintf(format, args...)}
}
