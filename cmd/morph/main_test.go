package main

import (
	"errors"
	"testing"

	"github.com/san-kum/morph/internal/compose"
)

func TestParseSchedule(t *testing.T) {
	script := compose.DefaultScript()
	at, err := parseSchedule([]string{"0=initial", " 120 = morph", "300=settle"}, script)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := map[int]string{0: "initial", 120: "morph", 300: "settle"}
	if len(at) != len(want) {
		t.Fatalf("got %v, want %v", at, want)
	}
	for f, name := range want {
		if at[f] != name {
			t.Errorf("frame %d: got %q, want %q", f, at[f], name)
		}
	}
}

func TestParseSchedule_Errors(t *testing.T) {
	script := compose.DefaultScript()
	tests := []struct {
		name  string
		entry string
	}{
		{"missing separator", "120"},
		{"bad frame", "abc=morph"},
		{"negative frame", "-1=morph"},
		{"unknown scene", "10=nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSchedule([]string{tt.entry}, script); err == nil {
				t.Errorf("expected error for %q", tt.entry)
			}
		})
	}

	if _, err := parseSchedule([]string{"1=nope"}, script); !errors.Is(err, compose.ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}
}
