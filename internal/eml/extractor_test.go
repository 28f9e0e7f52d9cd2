package eml

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestExtractSimpleMessage(t *testing.T) {
	raw := []byte("From: Ana <ana@example.com>\r\n" +
		"To: bob@example.org\r\n" +
		"Subject: Reunión de\r\n" +
		" mañana\r\n" +
		"\r\n" +
		"Nos vemos a las 10.\r\n")

	msg, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got := msg.Headers.Get("From"); got != "Ana <ana@example.com>" {
		t.Errorf("From = %q", got)
	}
	// Folded header values are unfolded into a single line
	if got := msg.Headers.Get("Subject"); got != "Reunión de mañana" {
		t.Errorf("Subject = %q", got)
	}
	if !strings.Contains(msg.Body(), "Nos vemos a las 10.") {
		t.Errorf("Body() = %q", msg.Body())
	}
}

func TestExtractParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no separator", "From: a@b.com\r\nSubject: hola"},
		{"malformed header line", "From: a@b.com\r\nnot a header\r\n\r\nbody"},
		{"continuation before header", " folded\r\n\r\nbody"},
		{"empty headers", "\r\nbody only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.raw))
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Extract() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestExtractLatin1Fallback(t *testing.T) {
	raw := []byte("From: a@b.com\r\nSubject: Acci\xf3n requerida\r\n\r\nVer\xe1s el enlace.\r\n")

	msg, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got := msg.Headers.Get("Subject"); got != "Acción requerida" {
		t.Errorf("Subject = %q, want latin-1 decoded value", got)
	}
	if !strings.Contains(msg.Body(), "Verás") {
		t.Errorf("Body() = %q, want latin-1 decoded body", msg.Body())
	}
}

func TestExtractRejectsBinary(t *testing.T) {
	if _, err := Extract([]byte("From: a@b.com\r\n\r\nbody\x00body")); err == nil {
		t.Fatal("Extract() accepted input with NUL bytes")
	}
}

func TestExtractMultipart(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("MZ fake executable"))
	raw := []byte("From: a@b.com\r\n" +
		"Subject: factura\r\n" +
		"Content-Type: multipart/mixed; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Adjunto la factura.\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><a href=\"http://pagos.example.net/f\">Ver factura</a></body></html>\r\n" +
		"--b1\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"Content-Disposition: attachment; filename=\"factura.exe\"\r\n" +
		"\r\n" +
		payload + "\r\n" +
		"--b1--\r\n")

	msg, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(msg.TextPlain, "Adjunto la factura.") {
		t.Errorf("TextPlain = %q", msg.TextPlain)
	}
	if len(msg.Links) != 1 {
		t.Fatalf("Links = %v, want one link", msg.Links)
	}
	if msg.Links[0].Href != "http://pagos.example.net/f" || msg.Links[0].Text != "Ver factura" {
		t.Errorf("Links[0] = %+v", msg.Links[0])
	}
	if len(msg.Attachments) != 1 {
		t.Fatalf("Attachments = %v, want one attachment", msg.Attachments)
	}
	att := msg.Attachments[0]
	if att.Filename != "factura.exe" || att.Ext != ".exe" {
		t.Errorf("Attachment = %+v", att)
	}
	if att.Size != len("MZ fake executable") {
		t.Errorf("Attachment size = %d after base64 decode", att.Size)
	}
	if att.SHA256 == "" {
		t.Error("Attachment hash is empty")
	}
}

func TestExtractOriginIP(t *testing.T) {
	raw := []byte("Received: from relay2.example.com [198.51.100.20]\r\n" +
		"Received: from sender.example.net [203.0.113.7]\r\n" +
		"From: a@b.com\r\n" +
		"\r\n" +
		"hola\r\n")

	msg, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	// The bottom-most Received header is closest to the real sender
	if msg.OriginIP != "203.0.113.7" {
		t.Errorf("OriginIP = %q, want 203.0.113.7", msg.OriginIP)
	}
	if got := len(msg.ReceivedChain()); got != 2 {
		t.Errorf("ReceivedChain() has %d entries, want 2", got)
	}
}

func TestExtractURLsInText(t *testing.T) {
	raw := []byte("From: a@b.com\r\n\r\n" +
		"Paga en http://203.0.113.9/login y luego en http://203.0.113.9/login otra vez.\r\n")

	msg, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(msg.URLsInText) != 1 || msg.URLsInText[0] != "http://203.0.113.9/login" {
		t.Errorf("URLsInText = %v, want single deduplicated URL", msg.URLsInText)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	raw := []byte("Received: from relay [198.51.100.20]\r\n" +
		"From: Ana <ana@example.com>\r\n" +
		"Subject: Reunión de\r\n" +
		" mañana\r\n" +
		"received: from sender [203.0.113.7]\r\n" +
		"\r\n" +
		"Nos vemos a las 10.\r\n")

	first, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	// Re-parsing the serialized headers plus body yields the same map
	reserialized := []byte(first.Headers.String() + "\r\n" + first.Body())
	second, err := Extract(reserialized)
	if err != nil {
		t.Fatalf("Extract() of reserialized message error = %v", err)
	}

	if first.Headers.Len() != second.Headers.Len() {
		t.Fatalf("header count changed: %d vs %d", first.Headers.Len(), second.Headers.Len())
	}
	var fields []string
	first.Headers.Fields(func(name, value string) {
		fields = append(fields, name+": "+value)
	})
	i := 0
	second.Headers.Fields(func(name, value string) {
		if got := name + ": " + value; got != fields[i] {
			t.Errorf("field %d = %q, want %q", i, got, fields[i])
		}
		i++
	})
	if first.Body() != second.Body() {
		t.Errorf("body changed: %q vs %q", first.Body(), second.Body())
	}
}

func TestHeaderMapOrderAndLookup(t *testing.T) {
	h := NewHeaderMap()
	h.Add("received", "first hop")
	h.Add("RECEIVED", "second hop")
	h.Add("Subject", "hola")

	if got := h.Get("Received"); got != "first hop" {
		t.Errorf("Get(Received) = %q, want first value", got)
	}
	if got := len(h.Values("Received")); got != 2 {
		t.Errorf("Values(Received) has %d entries, want 2", got)
	}
	if !h.Has("subject") {
		t.Error("Has(subject) = false, lookup should be case-insensitive")
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
}
