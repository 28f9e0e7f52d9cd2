package utils

import (
	"testing"

	"go.uber.org/zap"
)

func TestFold(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	tests := []struct {
		in   string
		want string
	}{
		{"Salír", "salir"},
		{"ADIÓS", "adios"},
		{"  Qué   es   DKIM  ", "que es dkim"},
		{"ya normalizado", "ya normalizado"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := tp.Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	if got := tp.TruncateText("hola", 0); got != "hola" {
		t.Errorf("TruncateText with no limit = %q", got)
	}
	if got := tp.TruncateText("hola mundo", 4); got != "hola" {
		t.Errorf("TruncateText = %q, want %q", got, "hola")
	}
	// Never cut a multibyte rune in half
	if got := tp.TruncateText("año", 2); got != "a" {
		t.Errorf("TruncateText over rune boundary = %q, want %q", got, "a")
	}
}
