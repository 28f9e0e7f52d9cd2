package core

import (
	"time"
)

// RiskLevel is the overall phishing risk of an analyzed message
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String returns the wire representation of the risk level
func (r RiskLevel) String() string {
	switch r {
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "low"
	}
}

// ParseRiskLevel maps a stored risk string back to its RiskLevel
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "high":
		return RiskHigh
	case "medium":
		return RiskMedium
	default:
		return RiskLow
	}
}

// AuthResult is the outcome of one authentication mechanism (SPF, DKIM
// or DMARC) as reported by the receiving server's headers.
// A missing header always maps to AuthUnknown, never to AuthFail.
type AuthResult int

const (
	AuthUnknown AuthResult = iota
	AuthPass
	AuthFail
	AuthNeutral
	AuthNone
)

// String returns the lowercase token form of the result
func (a AuthResult) String() string {
	switch a {
	case AuthPass:
		return "pass"
	case AuthFail:
		return "fail"
	case AuthNeutral:
		return "neutral"
	case AuthNone:
		return "none"
	default:
		return "unknown"
	}
}

// FindingKind identifies the heuristic that produced a finding
type FindingKind string

const (
	FindingAuthFail             FindingKind = "auth_fail"
	FindingDomainMismatch       FindingKind = "domain_mismatch"
	FindingReplyToMismatch      FindingKind = "replyto_mismatch"
	FindingSuspiciousLink       FindingKind = "suspicious_link"
	FindingUrgencyLanguage      FindingKind = "urgency_language"
	FindingSpoofedDisplayName   FindingKind = "spoofed_display_name"
	FindingSuspiciousAttachment FindingKind = "suspicious_attachment"
)

// Finding is a single heuristic observation contributing to a verdict.
// Findings are append-only within one analysis and never mutated.
type Finding struct {
	Kind   FindingKind `json:"kind"`
	Weight int         `json:"weight"`
	Title  string      `json:"title"`
	Detail string      `json:"detail"`
}

// Verdict is the scored outcome of one analysis: a risk level plus the
// ordered findings that justify it
type Verdict struct {
	Risk     RiskLevel
	Score    int
	Findings []Finding
}

// Intent is the classified purpose of a user message, produced fresh
// per message. Ties resolve GOODBYE > ANALYSIS_REQUEST > QUESTION >
// UNKNOWN.
type Intent string

const (
	IntentQuestion        Intent = "question"
	IntentAnalysisRequest Intent = "analysis_request"
	IntentGoodbye         Intent = "goodbye"
	IntentUnknown         Intent = "unknown"
)

// PayloadItem is one finding rendered as a title/detail pair with no
// formatting markup
type PayloadItem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// PresentationPayload is the UI-agnostic result handed to whatever
// renders the verdict (HTML, plain text, JSON API)
type PresentationPayload struct {
	Risk        string        `json:"risk"`
	Headline    string        `json:"headline"`
	Findings    []PayloadItem `json:"findings"`
	LinkDomains []string      `json:"link_domains"`
	Tips        []string      `json:"tips"`
}

// AnalysisResult bundles the verdict with its presentation payload
type AnalysisResult struct {
	Verdict    Verdict
	Payload    PresentationPayload
	AnalyzedAt time.Time
	FromCache  bool
}

// VerdictEntry is a cached verdict keyed by the SHA-256 of the raw
// message. Analysis is deterministic, so a cached entry is exact.
type VerdictEntry struct {
	MessageHash string
	Risk        RiskLevel
	Score       int
	Findings    []Finding
	AnalyzedAt  time.Time
	ExpiresAt   time.Time
}
