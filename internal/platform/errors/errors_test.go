package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorMatchesByCode(t *testing.T) {
	first := New(CodeNotFound, "session missing")
	second := New(CodeNotFound, "different message")

	if !stderrors.Is(first, second) {
		t.Fatal("errors with the same code should match")
	}
	if stderrors.Is(first, New(CodeOverflow, "session missing")) {
		t.Fatal("errors with different codes should not match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	wrapped := Wrap(CodeUnknown, "save session", cause)

	if !stderrors.Is(wrapped, cause) {
		t.Fatal("wrapped error should match its cause")
	}
	if wrapped.Error() != "save session" {
		t.Fatalf("message = %q, want %q", wrapped.Error(), "save session")
	}
}

func TestCodeClass(t *testing.T) {
	cases := map[Code]Class{
		CodeSessionNameTooLong:      ClassInvalidArgument,
		CodeDivisionByZero:          ClassFailedPrecondition,
		CodeNotFound:                ClassNotFound,
		CodeUnknown:                 ClassInternal,
		Code("SOMETHING_UNLISTED"):  ClassInternal,
		CodeScenarioAssertionFailed: ClassFailedPrecondition,
	}
	for code, want := range cases {
		if got := code.Class(); got != want {
			t.Fatalf("%s class = %v, want %v", code, got, want)
		}
	}
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeSessionNameTooLong, "name too long", map[string]string{
		"Max": "64",
	})
	if err.Metadata["Max"] != "64" {
		t.Fatalf("metadata = %v", err.Metadata)
	}
}
