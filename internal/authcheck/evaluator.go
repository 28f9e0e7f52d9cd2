// Package authcheck inspects extracted headers for SPF/DKIM/DMARC
// outcomes and header-consistency anomalies. It performs no network
// lookups: it only reads what the receiving server already recorded.
package authcheck

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/domains"
	"github.com/phishguard/phishbot/internal/eml"
)

// Severity weights for authentication findings. DMARC failure weighs
// highest since it reflects policy enforcement; a lone SPF failure
// weighs lowest because forwarding breaks SPF on legitimate mail.
const (
	WeightDMARCFail          = 4
	WeightDKIMFail           = 3
	WeightSPFFail            = 2
	WeightReturnPathMismatch = 3
	WeightReplyToMismatch    = 2
)

// Result holds the per-mechanism outcomes plus any header-consistency
// findings. Missing headers are a neutral signal, never an error.
type Result struct {
	SPF       core.AuthResult
	DKIM      core.AuthResult
	DMARC     core.AuthResult
	Anomalies []core.Finding
}

// Findings returns the auth-failure findings implied by the mechanism
// outcomes followed by the consistency anomalies, in stable order
func (r Result) Findings() []core.Finding {
	var findings []core.Finding
	if r.DMARC == core.AuthFail {
		findings = append(findings, core.Finding{
			Kind:   core.FindingAuthFail,
			Weight: WeightDMARCFail,
			Title:  "Autenticación DMARC fallida",
			Detail: "El servidor receptor reportó dmarc=fail: el dominio del remitente no autoriza este envío según su política publicada.",
		})
	}
	if r.DKIM == core.AuthFail {
		findings = append(findings, core.Finding{
			Kind:   core.FindingAuthFail,
			Weight: WeightDKIMFail,
			Title:  "Firma DKIM inválida",
			Detail: "La firma criptográfica del mensaje no verifica: el contenido pudo ser alterado en tránsito.",
		})
	}
	if r.SPF == core.AuthFail {
		findings = append(findings, core.Finding{
			Kind:   core.FindingAuthFail,
			Weight: WeightSPFFail,
			Title:  "Verificación SPF fallida",
			Detail: "La IP de origen no está autorizada para enviar en nombre del dominio. Los reenvíos legítimos también pueden causar este fallo.",
		})
	}
	return append(findings, r.Anomalies...)
}

var mechToken = regexp.MustCompile(`(?i)\b(spf|dkim|dmarc)\s*=\s*([a-zA-Z]+)`)

// Evaluate scans Authentication-Results (with a Received-SPF fallback
// for SPF) and cross-checks the sender headers for domain mismatches
func Evaluate(headers *eml.HeaderMap) Result {
	result := Result{
		SPF:   core.AuthUnknown,
		DKIM:  core.AuthUnknown,
		DMARC: core.AuthUnknown,
	}

	// First occurrence of each mechanism wins, scanning header values
	// in original order
	for _, value := range headers.Values("Authentication-Results") {
		for _, m := range mechToken.FindAllStringSubmatch(value, -1) {
			outcome := parseResultWord(m[2])
			switch strings.ToLower(m[1]) {
			case "spf":
				if result.SPF == core.AuthUnknown {
					result.SPF = outcome
				}
			case "dkim":
				if result.DKIM == core.AuthUnknown {
					result.DKIM = outcome
				}
			case "dmarc":
				if result.DMARC == core.AuthUnknown {
					result.DMARC = outcome
				}
			}
		}
	}

	// Received-SPF carries its result as the leading word
	if result.SPF == core.AuthUnknown {
		if value := headers.Get("Received-Spf"); value != "" {
			fields := strings.Fields(value)
			if len(fields) > 0 {
				result.SPF = parseResultWord(strings.TrimRight(fields[0], ";:"))
			}
		}
	}

	result.Anomalies = senderAnomalies(headers)
	return result
}

// parseResultWord maps an Authentication-Results token to an
// AuthResult. Softfail and transient/permanent errors fold into
// NEUTRAL: they are inconclusive, not failures.
func parseResultWord(word string) core.AuthResult {
	switch strings.ToLower(word) {
	case "pass":
		return core.AuthPass
	case "fail", "hardfail":
		return core.AuthFail
	case "neutral", "softfail", "temperror", "permerror", "policy":
		return core.AuthNeutral
	case "none":
		return core.AuthNone
	default:
		return core.AuthUnknown
	}
}

// senderAnomalies cross-checks From against Return-Path and Reply-To.
// A mismatch is reported regardless of the SPF/DKIM outcome: display
// name spoofing can ride on technically authenticated mail.
func senderAnomalies(headers *eml.HeaderMap) []core.Finding {
	fromDomain := domains.OfEmail(headers.Get("From"))
	if fromDomain == "" {
		return nil
	}

	var findings []core.Finding
	if rpDomain := domains.OfEmail(headers.Get("Return-Path")); rpDomain != "" && !domains.Related(fromDomain, rpDomain) {
		findings = append(findings, core.Finding{
			Kind:   core.FindingDomainMismatch,
			Weight: WeightReturnPathMismatch,
			Title:  "Return-Path diferente al dominio del remitente",
			Detail: fmt.Sprintf("El correo dice venir de %s pero los rebotes van a %s.", fromDomain, rpDomain),
		})
	}
	if rtDomain := domains.OfEmail(headers.Get("Reply-To")); rtDomain != "" && !domains.Related(fromDomain, rtDomain) {
		findings = append(findings, core.Finding{
			Kind:   core.FindingReplyToMismatch,
			Weight: WeightReplyToMismatch,
			Title:  "Reply-To diferente al remitente",
			Detail: fmt.Sprintf("Las respuestas irían a %s, no al dominio visible %s.", rtDomain, fromDomain),
		})
	}
	return findings
}
