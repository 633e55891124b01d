package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeValidation, "port out of range")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeValidation {
		t.Errorf("expected code %s, got %s", ErrCodeValidation, err.Code)
	}
	if err.Message != "port out of range" {
		t.Errorf("expected message 'port out of range', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeStepFatal, "store init failed", cause)

	if err.Code != ErrCodeStepFatal {
		t.Errorf("expected code %s, got %s", ErrCodeStepFatal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodePrivilege, "root required"),
			expected: "[PRIVILEGE] root required",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeBackup, "snapshot failed", errors.New("disk full")),
			expected: "[BACKUP] snapshot failed: disk full",
		},
		{
			name:     "formatted message",
			err:      Newf(ErrCodeValidation, "port %d out of range", 70000),
			expected: "[VALIDATION] port 70000 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "direct", err: New(ErrCodeStepWarning, "firewall skipped"), want: ErrCodeStepWarning},
		{name: "wrapped in fmt chain", err: wrapStd(New(ErrCodePrerequisite, "no node")), want: ErrCodePrerequisite},
		{name: "plain error", err: errors.New("plain"), want: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := Wrap(ErrCodeStepFatal, "corrupt store", errors.New("integrity check failed"))
	if !IsCode(err, ErrCodeStepFatal) {
		t.Error("expected IsCode to match STEP_FATAL")
	}
	if IsCode(err, ErrCodeStepWarning) {
		t.Error("did not expect IsCode to match STEP_WARNING")
	}
	if IsCode(errors.New("plain"), ErrCodeStepFatal) {
		t.Error("plain error should not match any code")
	}
}

func wrapStd(err error) error {
	return errors.Join(errors.New("outer"), err)
}
