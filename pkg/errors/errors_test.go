package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	t.Run("knownCode", func(t *testing.T) {
		meta := MetadataFor(CodeNotFound)
		if meta.HTTPStatus != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", meta.HTTPStatus)
		}
	})

	t.Run("unknownCodeFallsBackToInternal", func(t *testing.T) {
		meta := MetadataFor(Code("BOGUS"))
		if meta.HTTPStatus != http.StatusInternalServerError {
			t.Fatalf("expected 500 fallback, got %d", meta.HTTPStatus)
		}
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeStorage, cause, "saving snapshot")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to satisfy errors.Is")
	}
	if err.Code() != CodeStorage {
		t.Fatalf("expected storage code, got %s", err.Code())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeValidation, nil, "name required")
	if err.Unwrap() != nil {
		t.Fatal("expected nil cause")
	}
	if err.Error() != "VALIDATION_ERROR: name required" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestAsFindsTypedErrorThroughChain(t *testing.T) {
	typed := New(CodeConflict, "barcode already registered")
	wrapped := fmt.Errorf("add product: %w", typed)

	got := As(wrapped)
	if got == nil {
		t.Fatal("expected typed error from chain")
	}
	if got.Code() != CodeConflict {
		t.Fatalf("expected conflict, got %s", got.Code())
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestDump(t *testing.T) {
	cause := stdErrors.New("root")
	err := Wrap(CodeDependency, cause, "notify shell")

	report := Dump(err)
	if report.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", report.Code)
	}
	if len(report.Chain) != 2 {
		t.Fatalf("expected chain of 2, got %d", len(report.Chain))
	}
}
