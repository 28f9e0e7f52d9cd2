package domains

import "testing"

func TestOfEmail(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"Ana Pérez <ana@Example.COM>", "example.com"},
		{"ana@example.com", "example.com"},
		{"<bounce@mail.empresa.com>", "mail.empresa.com"},
		{"sin arroba", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := OfEmail(tt.addr); got != tt.want {
			t.Errorf("OfEmail(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestOfURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.Example.com/path?q=1", "www.example.com"},
		{"http://203.0.113.5/login", "203.0.113.5"},
		{"sin esquema", ""},
	}
	for _, tt := range tests {
		if got := OfURL(tt.raw); got != tt.want {
			t.Errorf("OfURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestRegistrable(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"mail.empresa.com", "empresa.com"},
		{"empresa.com", "empresa.com"},
		{"a.b.example.co.uk", "example.co.uk"},
		{"tienda.com.mx", "tienda.com.mx"},
		{"gmail.com", "google.com"},
		{"googlemail.com", "google.com"},
		{"localhost", "localhost"},
	}
	for _, tt := range tests {
		if got := Registrable(tt.domain); got != tt.want {
			t.Errorf("Registrable(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}

func TestRelated(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"empresa.com", "empresa.com", true},
		{"mail.empresa.com", "empresa.com", true},
		{"empresa.com", "mail.empresa.com", true},
		{"gmail.com", "googlemail.com", true},
		{"google.com", "youtube.com", true},
		{"outlook.com", "microsoft.com", true},
		{"empresa.com", "otraempresa.com", false},
		{"paypal.com", "paypal-seguro.xyz", false},
		{"", "empresa.com", false},
	}
	for _, tt := range tests {
		if got := Related(tt.a, tt.b); got != tt.want {
			t.Errorf("Related(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatchesBrand(t *testing.T) {
	tests := []struct {
		token  string
		domain string
		want   bool
	}{
		{"paypal", "paypal.com", true},
		{"paypal", "www.paypal.com", true},
		{"paypal", "paypal-verify.xyz", false},
		{"google", "googlemail.com", true},
		{"desconocida", "example.com", false},
	}
	for _, tt := range tests {
		if got := MatchesBrand(tt.token, tt.domain); got != tt.want {
			t.Errorf("MatchesBrand(%q, %q) = %v, want %v", tt.token, tt.domain, got, tt.want)
		}
	}
}
