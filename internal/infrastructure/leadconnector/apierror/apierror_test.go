package apierror

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsKind_SeesThroughWrapping(t *testing.T) {
	base := New(KindRemoteClient, "bad request")
	wrapped := fmt.Errorf("list contacts: %w", base)

	if !IsKind(wrapped, KindRemoteClient) {
		t.Fatal("IsKind should unwrap")
	}
	if IsKind(wrapped, KindRemoteServer) {
		t.Fatal("wrong kind matched")
	}
	if IsKind(errors.New("plain"), KindRemoteClient) {
		t.Fatal("plain error matched")
	}
}

func TestIsRateLimited_MatchesBothSources(t *testing.T) {
	local := &Error{Kind: KindRateLimited, Message: "local quota"}
	remote := &Error{Kind: KindRateLimited, Status: 429, Message: "remote"}

	for _, err := range []error{local, remote} {
		if !IsRateLimited(err) {
			t.Fatalf("expected rate limited: %v", err)
		}
	}
	if IsRateLimited(New(KindRemoteClient, "teapot")) {
		t.Fatal("non-throttle error matched")
	}
}

func TestStatusAndResetAccessors(t *testing.T) {
	resetAt := time.Now().Add(10 * time.Second)
	err := &Error{Kind: KindRateLimited, Status: 429, ResetAt: resetAt}

	if got := StatusOf(err); got != 429 {
		t.Fatalf("StatusOf = %d", got)
	}
	if got, ok := ResetAtOf(err); !ok || !got.Equal(resetAt) {
		t.Fatalf("ResetAtOf = %v, %v", got, ok)
	}
	if _, ok := ResetAtOf(New(KindNetwork, "dial")); ok {
		t.Fatal("no reset time expected")
	}
	if got := StatusOf(errors.New("plain")); got != 0 {
		t.Fatalf("StatusOf plain = %d", got)
	}
}

func TestError_MessageFormats(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(KindConfiguration, "CRM API key is required"), "[CONFIGURATION] CRM API key is required"},
		{&Error{Kind: KindRemoteClient, Status: 404, Message: "not found"}, "[REMOTE_CLIENT] 404 not found"},
		{Wrap(KindNetwork, "GET /contacts/", errors.New("dial tcp: refused")), "[NETWORK] GET /contacts/: dial tcp: refused"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Fatalf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindNetwork, "dispatch", cause)
	if !errors.Is(err, cause) {
		t.Fatal("Unwrap chain broken")
	}
}
