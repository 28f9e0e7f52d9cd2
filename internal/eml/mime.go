package eml

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Attachment describes one attached file. Payloads are never opened,
// only enumerated and hashed.
type Attachment struct {
	Filename string
	MIMEType string
	Size     int
	SHA256   string
	Ext      string
}

// extractContent walks the MIME structure of the body, filling the
// message's text parts and attachment list
func extractContent(msg *Message, body string) error {
	contentType := msg.Headers.Get("Content-Type")
	cte := msg.Headers.Get("Content-Transfer-Encoding")
	walkPart(msg, contentType, cte, "", body)
	return nil
}

func walkPart(msg *Message, contentType, cte, filename, body string) {
	mediaType := "text/plain"
	var params map[string]string
	if contentType != "" {
		if parsed, p, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = strings.ToLower(parsed)
			params = p
		}
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			// No boundary to split on; treat as opaque text
			msg.TextPlain += decodePartText(body, cte, params["charset"])
			return
		}
		mr := multipart.NewReader(strings.NewReader(body), boundary)
		for {
			part, err := mr.NextPart()
			if err != nil {
				// io.EOF ends the walk; truncated bodies keep what was read
				return
			}
			data, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			walkPart(msg,
				part.Header.Get("Content-Type"),
				part.Header.Get("Content-Transfer-Encoding"),
				part.FileName(),
				string(data),
			)
		}
	}

	if filename != "" {
		payload := decodePartBytes(body, cte)
		sum := sha256.Sum256(payload)
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename: filename,
			MIMEType: mediaType,
			Size:     len(payload),
			SHA256:   hex.EncodeToString(sum[:]),
			Ext:      strings.ToLower(filepath.Ext(filename)),
		})
		return
	}

	switch mediaType {
	case "text/plain":
		msg.TextPlain += decodePartText(body, cte, params["charset"])
	case "text/html":
		msg.TextHTML += decodePartText(body, cte, params["charset"])
	}
}

// decodePartBytes undoes the transfer encoding of a part
func decodePartBytes(body, cte string) []byte {
	switch strings.ToLower(strings.TrimSpace(cte)) {
	case "base64":
		cleaned := strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
				return -1
			}
			return r
		}, body)
		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return []byte(body)
		}
		return decoded
	case "quoted-printable":
		decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body)))
		if err != nil {
			return []byte(body)
		}
		return decoded
	default:
		return []byte(body)
	}
}

// decodePartText decodes a text part respecting its charset, falling
// back to Latin-1 for anything that is not valid UTF-8
func decodePartText(body, cte, charset string) string {
	raw := decodePartBytes(body, cte)
	switch strings.ToLower(charset) {
	case "iso-8859-1", "latin-1", "windows-1252":
		if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
			return string(decoded)
		}
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
		return string(decoded)
	}
	return string(raw)
}
