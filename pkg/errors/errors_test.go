package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMissingDependency, "%s depends on %s", "b", "a")

	if err.Code != ErrCodeMissingDependency {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingDependency)
	}

	if err.Message != "b depends on a" {
		t.Errorf("Message = %v, want %v", err.Message, "b depends on a")
	}

	expected := "MISSING_DEPENDENCY: b depends on a"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeIO, cause, "read %s", "a.sql")

	if err.Code != ErrCodeIO {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeIO)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "IO_ERROR: read a.sql: permission denied"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWithPath(t *testing.T) {
	err := New(ErrCodeInvalidLayer, "bad layer").WithPath("db/a.sql")
	if err.Path != "db/a.sql" {
		t.Errorf("Path = %q, want %q", err.Path, "db/a.sql")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeNameClash, "test"),
			code:     ErrCodeNameClash,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNameClash, "test"),
			code:     ErrCodeIO,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeIO, New(ErrCodeInvalidLayer, "inner"), "outer"),
			code:     ErrCodeIO,
			expected: true,
		},
		{
			name:     "fmt wrapped error",
			err:      fmt.Errorf("build: %w", New(ErrCodeGraphMissing, "inner")),
			code:     ErrCodeGraphMissing,
			expected: true,
		},
		{
			name:     "cycle error",
			err:      fmt.Errorf("build: %w", &CycleError{}),
			code:     ErrCodeCyclicDependency,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeIO,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeIO,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeTooManyNames, "test"),
			expected: ErrCodeTooManyNames,
		},
		{
			name:     "coder type",
			err:      &CycleError{},
			expected: ErrCodeCyclicDependency,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeMissingExist, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCycleError(t *testing.T) {
	err := &CycleError{Cycles: []Cycle{
		{
			Layer: "normal",
			Participants: []Participant{
				{Name: "a", Path: "db/a.sql"},
				{Name: "b", Path: "db/b.sql"},
			},
			Edges: [][2]string{{"a", "b"}, {"b", "a"}},
		},
	}}

	msg := err.Error()
	for _, want := range []string{
		"CYCLIC_DEPENDENCY",
		"Cycle 1 (layer normal):",
		"- a (db/a.sql)",
		"- b (db/b.sql)",
		"- a -> b",
		"- b -> a",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() missing %q in:\n%s", want, msg)
		}
	}

	if err.Code() != ErrCodeCyclicDependency {
		t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeCyclicDependency)
	}
}
