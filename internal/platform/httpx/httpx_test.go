package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
)

func TestIsUnavailable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"net", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"500", &StatusError{Service: "rest", StatusCode: 502}, true},
		{"429", fmt.Errorf("wrapped: %w", &StatusError{StatusCode: 429}), true},
		{"400", &StatusError{StatusCode: 400}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsUnavailable(tc.err); got != tc.want {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestStatusErrorTruncatesBody(t *testing.T) {
	e := &StatusError{Service: "openai", StatusCode: 500, Body: strings.Repeat("x", 600)}
	msg := e.Error()
	if !strings.HasPrefix(msg, "openai http 500: ") || !strings.HasSuffix(msg, "...") {
		t.Fatalf("unexpected: %q", msg[:40])
	}
	if StatusCode(fmt.Errorf("w: %w", e)) != 500 {
		t.Fatalf("StatusCode unwrap")
	}
}
