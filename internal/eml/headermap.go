package eml

import (
	"net/textproto"
	"strings"
)

// HeaderMap is an ordered, case-insensitive mapping from header name to
// one or more raw values. Names are canonicalized on insert; the
// original order is preserved so the Received chain can be walked
// top to bottom.
type HeaderMap struct {
	order []headerField
	index map[string][]string
}

type headerField struct {
	name  string
	value string
}

// NewHeaderMap creates an empty HeaderMap
func NewHeaderMap() *HeaderMap {
	return &HeaderMap{index: make(map[string][]string)}
}

// Add appends a header value, canonicalizing the name
func (h *HeaderMap) Add(name, value string) {
	canonical := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(name))
	h.order = append(h.order, headerField{name: canonical, value: value})
	h.index[canonical] = append(h.index[canonical], value)
}

// Get returns the first value for a header, or "" when absent
func (h *HeaderMap) Get(name string) string {
	values := h.Values(name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns all values for a header in original order
func (h *HeaderMap) Values(name string) []string {
	return h.index[textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(name))]
}

// Has reports whether the header is present
func (h *HeaderMap) Has(name string) bool {
	return len(h.Values(name)) > 0
}

// Len returns the number of header fields, counting repeats
func (h *HeaderMap) Len() int {
	return len(h.order)
}

// Fields iterates all header fields in original order
func (h *HeaderMap) Fields(fn func(name, value string)) {
	for _, f := range h.order {
		fn(f.name, f.value)
	}
}

// String re-serializes the headers in original order, one field per
// line. Round-tripping the result through Extract yields an equal map.
func (h *HeaderMap) String() string {
	var b strings.Builder
	for _, f := range h.order {
		b.WriteString(f.name)
		b.WriteString(": ")
		b.WriteString(f.value)
		b.WriteString("\r\n")
	}
	return b.String()
}
