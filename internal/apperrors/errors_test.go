package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(New(KindNotFound, "x")) != KindNotFound {
		t.Error("tagged error should report its kind")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Error("untagged errors default to internal")
	}
	wrapped := fmt.Errorf("outer: %w", New(KindInvalidState, "inner"))
	if KindOf(wrapped) != KindInvalidState {
		t.Error("kind should survive wrapping")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindPermissionDenied, http.StatusForbidden},
		{KindInvalidArgument, http.StatusBadRequest},
		{KindInvalidState, http.StatusBadRequest},
		{KindUpstream, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(New(c.kind, "x")); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestWrapMessage(t *testing.T) {
	cause := errors.New("no route to host")
	err := Wrap(KindUpstream, cause, "gateway request failed")
	if err.Error() != "gateway request failed: no route to host" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable with errors.Is")
	}
}
