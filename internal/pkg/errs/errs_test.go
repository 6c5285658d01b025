package errs

import (
	"fmt"
	"net/http"
	"testing"
)

func TestNewErrorKnownCode(t *testing.T) {
	err := NewError(ErrEventFull)
	if err.Code != ErrEventFull {
		t.Errorf("Code = %d, want ErrEventFull", err.Code)
	}
	if err.Message == "" {
		t.Error("known code produced an empty message")
	}
}

func TestNewErrorUnknownCodeFallsBack(t *testing.T) {
	err := NewError(99999)
	if err.Code != ErrUnknown {
		t.Errorf("Code = %d, want ErrUnknown fallback", err.Code)
	}
}

func TestNewHTTPErrorCarriesStatus(t *testing.T) {
	err := NewHTTPError(http.StatusConflict, "This event is sold out.")
	if err.Code != ErrHTTP {
		t.Errorf("Code = %d, want ErrHTTP", err.Code)
	}
	if err.Status != http.StatusConflict {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Message != "This event is sold out." {
		t.Errorf("Message = %q", err.Message)
	}

	fallback := NewHTTPError(http.StatusBadGateway, "")
	if fallback.Message == "" {
		t.Error("empty server message produced an empty error message")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"500", NewHTTPError(http.StatusInternalServerError, ""), true},
		{"503", NewHTTPError(http.StatusServiceUnavailable, ""), true},
		{"429", NewHTTPError(http.StatusTooManyRequests, ""), true},
		{"404", NewHTTPError(http.StatusNotFound, ""), false},
		{"409", NewHTTPError(http.StatusConflict, ""), false},
		{"timeout", NewError(ErrTimeout), false},
		{"network", NewError(ErrNetwork), false},
		{"plain error", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestCodeOfAndStatusOf(t *testing.T) {
	err := NewHTTPError(http.StatusNotFound, "")
	if CodeOf(err) != ErrHTTP {
		t.Errorf("CodeOf = %d, want ErrHTTP", CodeOf(err))
	}
	if StatusOf(err) != http.StatusNotFound {
		t.Errorf("StatusOf = %d, want 404", StatusOf(err))
	}

	plain := fmt.Errorf("boom")
	if CodeOf(plain) != 0 {
		t.Errorf("CodeOf(plain) = %d, want 0", CodeOf(plain))
	}
	if IsCode(plain, ErrHTTP) {
		t.Error("IsCode(plain, ErrHTTP) = true")
	}
}

func TestErrorFormatting(t *testing.T) {
	withStatus := NewHTTPError(http.StatusNotFound, "gone")
	if got := withStatus.Error(); got != "Error Code 1103 (HTTP 404): gone" {
		t.Errorf("Error() = %q", got)
	}

	local := NewError(ErrUnauthenticated)
	if StatusOf(local) != 0 {
		t.Errorf("local error Status = %d, want 0", StatusOf(local))
	}
}
