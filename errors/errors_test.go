package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeInternal, "boom")
	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if err.Error() != "boom" {
		t.Errorf("expected message 'boom', got %q", err.Error())
	}
}

func TestAppError_ErrorIsMessage(t *testing.T) {
	err := NoImplementation("Storage").WithCause(fmt.Errorf("underlying"))
	if err.Error() != "No implementations found for: Storage" {
		t.Errorf("cause must not leak into Error(), got %q", err.Error())
	}
}

func TestResolutionConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		code    ErrorCode
		message string
	}{
		{"no implementation", NoImplementation("X"), ErrCodeNoImplementation, "No implementations found for: X"},
		{"more than one", MoreThanOneImplementation("X"), ErrCodeAmbiguousImplementation, "More than one implementation found for: X"},
		{"duplicate type", DuplicateType("X", "b"), ErrCodeAmbiguousImplementation, "More than one implementation found for: X with type: b"},
		{"type not found", TypeNotFound("z"), ErrCodeTypeNotFound, "No implementation found for type: z"},
		{"setting not found", SettingNotFound("missing"), ErrCodeSettingNotFound, "Setting name: missing not found in SettingsProvider."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, tc.err.Message)
			}
		})
	}
}

func TestDuplicateType_Details(t *testing.T) {
	err := DuplicateType("Handler", "json")
	if err.Details["subject"] != "Handler" {
		t.Errorf("expected subject=Handler, got %v", err.Details["subject"])
	}
	if err.Details["type"] != "json" {
		t.Errorf("expected type=json, got %v", err.Details["type"])
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Internal(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad").
		WithDetail("field", "name").
		WithDetails(map[string]any{"reason": "empty"})
	if err.Details["field"] != "name" || err.Details["reason"] != "empty" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestMissingField(t *testing.T) {
	err := MissingField("name")
	if err.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", err.Code)
	}
	if err.Message != "Missing required field: name" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestHasCode_ThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("startup: %w", SettingNotFound("db.url"))
	if !HasCode(wrapped, ErrCodeSettingNotFound) {
		t.Error("expected HasCode to see through fmt wrapping")
	}
	if HasCode(wrapped, ErrCodeNoImplementation) {
		t.Error("expected HasCode to reject other codes")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("expected HasCode to reject non-AppError")
	}
}

func TestAsAppError(t *testing.T) {
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("plain error is not an AppError")
	}
	appErr, ok := AsAppError(fmt.Errorf("wrap: %w", TypeNotFound("a")))
	if !ok {
		t.Fatal("expected AppError")
	}
	if appErr.Code != ErrCodeTypeNotFound {
		t.Errorf("expected TYPE_NOT_FOUND, got %s", appErr.Code)
	}
	if !IsAppError(appErr) {
		t.Error("expected IsAppError true")
	}
}

func TestIsResolutionCode(t *testing.T) {
	for _, code := range []ErrorCode{ErrCodeNoImplementation, ErrCodeAmbiguousImplementation, ErrCodeTypeNotFound} {
		if !IsResolutionCode(code) {
			t.Errorf("%s should be a resolution code", code)
		}
	}
	if IsResolutionCode(ErrCodeSettingNotFound) {
		t.Error("SETTING_NOT_FOUND is not a resolution code")
	}
}
