package eml

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Message is a parsed email: normalized headers plus the extracted
// content the heuristics operate on
type Message struct {
	Headers     *HeaderMap
	TextPlain   string
	TextHTML    string
	Links       []Link
	URLsInText  []string
	Attachments []Attachment
	OriginIP    string
}

// Body returns the text the content heuristics scan: the plain part
// when present, otherwise the raw HTML
func (m *Message) Body() string {
	if strings.TrimSpace(m.TextPlain) != "" {
		return m.TextPlain
	}
	return m.TextHTML
}

// ReceivedChain returns all Received headers in original order
// (topmost relay first)
func (m *Message) ReceivedChain() []string {
	return m.Headers.Values("Received")
}

var (
	ipv4Literal = regexp.MustCompile(`\[([0-9]{1,3}(?:\.[0-9]{1,3}){3})\]`)
	ipv6Literal = regexp.MustCompile(`\[([0-9a-fA-F:]+)\]`)
)

// Extract parses a raw .eml byte sequence into a Message. It splits at
// the first blank line, unfolds continuation lines and walks MIME
// parts. It returns a *ParseError when no header/body separator exists
// or the bytes are not decodable as text.
func Extract(raw []byte) (*Message, error) {
	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	headers, body, err := splitMessage(text)
	if err != nil {
		return nil, err
	}

	msg := &Message{Headers: headers}
	if err := extractContent(msg, body); err != nil {
		return nil, err
	}

	msg.OriginIP = originIP(msg.ReceivedChain())
	msg.URLsInText = findURLs(msg.TextPlain)
	msg.Links = extractHTMLLinks(msg.TextHTML)
	return msg, nil
}

// decodeText attempts UTF-8 first and falls back to Latin-1. Bytes are
// never dropped; input with NUL bytes is rejected as binary.
func decodeText(raw []byte) (string, error) {
	if bytes.IndexByte(raw, 0) >= 0 {
		return "", parseErrorf("input is not decodable as text")
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &ParseError{Reason: "latin-1 decode failed", Err: err}
	}
	return string(decoded), nil
}

// splitMessage separates headers from body at the first blank line and
// unfolds folded header values
func splitMessage(text string) (*HeaderMap, string, error) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	sep := strings.Index(normalized, "\n\n")
	if sep < 0 {
		return nil, "", parseErrorf("no header/body separator found")
	}

	headerBlock := normalized[:sep]
	body := normalized[sep+2:]

	headers := NewHeaderMap()
	var name, value string
	flush := func() {
		if name != "" {
			headers.Add(name, strings.TrimSpace(value))
		}
		name, value = "", ""
	}

	for _, line := range strings.Split(headerBlock, "\n") {
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			// Continuation of the previous header value
			if name == "" {
				return nil, "", parseErrorf("continuation line before any header")
			}
			value += " " + strings.TrimSpace(line)
			continue
		}
		colon := strings.Index(line, ":")
		if colon <= 0 {
			return nil, "", parseErrorf("malformed header line %q", line)
		}
		flush()
		name = line[:colon]
		value = line[colon+1:]
	}
	flush()

	if headers.Len() == 0 {
		return nil, "", parseErrorf("message has no headers")
	}
	return headers, body, nil
}

// originIP applies the original heuristic: take the bottom-most
// Received header (closest to the sender) and pull an IP literal out
func originIP(received []string) string {
	if len(received) == 0 {
		return ""
	}
	last := received[len(received)-1]
	if m := ipv4Literal.FindStringSubmatch(last); m != nil {
		return m[1]
	}
	if m := ipv6Literal.FindStringSubmatch(last); m != nil {
		return m[1]
	}
	return ""
}
