package textutil

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestNormalize(t *testing.T) {
	decomposed := norm.NFD.String("승승리")
	if decomposed == "승승리" {
		t.Fatal("test precondition: NFD form should differ")
	}
	if got := Normalize("  " + decomposed + "\n"); got != "승승리" {
		t.Errorf("expected NFC 승승리, got %q", got)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \t\n") || !IsBlank("") || IsBlank(" a ") {
		t.Error("IsBlank returned unexpected result")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"안녕하세요", 3, "안녕하"},
		{"안녕", 5, "안녕"},
		{"abc", 0, ""},
		{"abc", 3, "abc"},
	}
	for _, tt := range tests {
		if got := TruncateRunes(tt.in, tt.limit); got != tt.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
	if RuneLen("안녕") != 2 {
		t.Error("RuneLen should count runes")
	}
}
