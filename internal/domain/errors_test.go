package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrEmptyInput, "empty_input"},
		{ErrStyleAnalysis, "style_analysis"},
		{ErrEmptyResponse, "empty_response"},
		{ErrTransport, "transport"},
		{ErrNotFound, "not_found"},
		{ErrBusy, "busy"},
		{ErrNoActiveResult, "no_active_result"},
		{fmt.Errorf("%w: wrapped twice: %w", ErrTransport, errors.New("inner")), "transport"},
		{errors.New("anything else"), "internal"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestParseAspectRatio(t *testing.T) {
	for _, id := range []string{"1:1", "3:4", "16:9", "9:16"} {
		aspect, err := ParseAspectRatio(id)
		if err != nil {
			t.Fatalf("ParseAspectRatio(%q) returned error: %v", id, err)
		}
		if aspect.String() != id {
			t.Fatalf("aspect = %q, want %q", aspect.String(), id)
		}
	}
	if _, err := ParseAspectRatio("4:20"); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("unsupported aspect error = %v, want ErrEmptyInput", err)
	}
}
