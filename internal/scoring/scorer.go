// Package scoring combines authentication findings with content
// heuristics into a risk verdict. Scoring is a pure function of the
// extracted message: no randomness, no network, so the same file always
// produces the same verdict.
package scoring

import (
	"fmt"
	"net"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/phishguard/phishbot/internal/authcheck"
	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/domains"
	"github.com/phishguard/phishbot/internal/eml"
	"github.com/phishguard/phishbot/internal/utils"
)

// Aggregate severity thresholds: totals below ThresholdMedium are LOW,
// totals from ThresholdMedium up to but excluding ThresholdHigh are
// MEDIUM, anything at or above ThresholdHigh is HIGH. On the weight
// scale a single hard signal scores 2-4 points.
const (
	ThresholdMedium = 3
	ThresholdHigh   = 6
)

// Content heuristic weights
const (
	WeightSuspiciousLink     = 2
	WeightUrgencyLanguage    = 1
	WeightSpoofedDisplayName = 3
)

// Urgency keyword sets, matched against diacritic-folded text
var urgencyWords = []string{
	"urgente", "urgencia", "inmediato", "inmediatamente", "suspension",
	"suspendido", "suspendida", "expira", "expirara", "vence", "hoy",
	"verifica", "verificar", "verifique", "actualiza", "actualizar",
	"actue", "bloqueado", "bloqueada", "alerta", "alert", "seguridad",
	"pago", "factura", "ganaste", "ganador", "premio",
}

var urgencyPhrases = []string{
	"verifica tu cuenta", "verifique su cuenta", "actualiza tu cuenta",
	"actualiza tus datos", "confirma tu identidad", "accion requerida",
	"action required", "important update required", "actue ahora",
	"evita la suspension", "riesgo de bloqueo", "suspenderemos tu cuenta",
}

// Attachment extensions, scored like the original extractor: +2 for
// executable or macro-enabled files, +1 for containers, capped at 6
var (
	dangerousExts = map[string]struct{}{
		".exe": {}, ".scr": {}, ".bat": {}, ".cmd": {}, ".js": {},
		".vbs": {}, ".jar": {}, ".ps1": {}, ".hta": {}, ".lnk": {},
		".msi": {}, ".apk": {}, ".docm": {}, ".xlsm": {}, ".pptm": {},
	}
	containerExts = map[string]struct{}{
		".zip": {}, ".rar": {}, ".iso": {}, ".img": {},
	}
)

var (
	urlishText   = regexp.MustCompile(`(?i)https?://|\b[a-z0-9-]+\.[a-z]{2,}\b`)
	capsToken    = regexp.MustCompile(`\b[A-ZÁÉÍÓÚ]{4,}\b`)
	stemSuffixes = regexp.MustCompile(`(ar|er|ir|s|es)$`)
)

// Scorer applies the content heuristics and aggregates severity
type Scorer struct {
	tp     *utils.TextProcessor
	logger *zap.Logger
}

// NewScorer creates a new Scorer
func NewScorer(tp *utils.TextProcessor, logger *zap.Logger) *Scorer {
	return &Scorer{tp: tp, logger: logger}
}

// Score evaluates the content heuristics, merges them with the
// authentication findings and derives the risk level. A DMARC failure
// alone forces at least MEDIUM regardless of the total.
func (s *Scorer) Score(auth authcheck.Result, msg *eml.Message) core.Verdict {
	findings := auth.Findings()

	if f := s.suspiciousLink(msg); f != nil {
		findings = append(findings, *f)
	}
	if f := s.urgencyLanguage(msg); f != nil {
		findings = append(findings, *f)
	}
	if f := s.spoofedDisplayName(msg); f != nil {
		findings = append(findings, *f)
	}
	if f := s.suspiciousAttachments(msg); f != nil {
		findings = append(findings, *f)
	}

	total := 0
	for _, f := range findings {
		total += f.Weight
	}

	risk := core.RiskLow
	switch {
	case total >= ThresholdHigh:
		risk = core.RiskHigh
	case total >= ThresholdMedium:
		risk = core.RiskMedium
	}
	// DMARC fail reflects policy enforcement; never report it as LOW
	if auth.DMARC == core.AuthFail && risk == core.RiskLow {
		risk = core.RiskMedium
	}

	s.logger.Debug("Scored message",
		zap.Int("total_severity", total),
		zap.String("risk", risk.String()),
		zap.Int("findings", len(findings)))

	return core.Verdict{Risk: risk, Score: total, Findings: findings}
}

// suspiciousLink fires when a link's visible text resolves to a
// different domain than its target, or when the target host is a bare
// IP literal
func (s *Scorer) suspiciousLink(msg *eml.Message) *core.Finding {
	for _, link := range msg.Links {
		hrefDomain := domains.OfURL(link.Href)
		if hrefDomain != "" && net.ParseIP(hrefDomain) != nil {
			return &core.Finding{
				Kind:   core.FindingSuspiciousLink,
				Weight: WeightSuspiciousLink,
				Title:  "Enlace hacia una dirección IP",
				Detail: fmt.Sprintf("Un enlace apunta directamente a la IP %s en lugar de un dominio reconocible.", hrefDomain),
			}
		}
		text := strings.TrimSpace(link.Text)
		if text == "" || link.Href == "" || !urlishText.MatchString(text) {
			continue
		}
		textDomain := domains.OfURL(text)
		if textDomain == "" {
			textDomain = domains.Guess(text)
		}
		if textDomain != "" && hrefDomain != "" && !domains.Related(textDomain, hrefDomain) {
			return &core.Finding{
				Kind:   core.FindingSuspiciousLink,
				Weight: WeightSuspiciousLink,
				Title:  "El texto del enlace no coincide con el destino real",
				Detail: fmt.Sprintf("El enlace muestra %s pero lleva a %s.", textDomain, hrefDomain),
			}
		}
	}
	for _, raw := range msg.URLsInText {
		if host := domains.OfURL(raw); host != "" && net.ParseIP(host) != nil {
			return &core.Finding{
				Kind:   core.FindingSuspiciousLink,
				Weight: WeightSuspiciousLink,
				Title:  "Enlace hacia una dirección IP",
				Detail: fmt.Sprintf("Un enlace apunta directamente a la IP %s en lugar de un dominio reconocible.", host),
			}
		}
	}
	return nil
}

// urgencyLanguage fires when the urgency score reaches 3 on the 0-5
// scale of the original heuristic
func (s *Scorer) urgencyLanguage(msg *eml.Message) *core.Finding {
	subject := msg.Headers.Get("Subject")
	score := s.urgencyScore(subject, msg.Body())
	if score < 3 {
		return nil
	}
	return &core.Finding{
		Kind:   core.FindingUrgencyLanguage,
		Weight: WeightUrgencyLanguage,
		Title:  "Lenguaje urgente o de presión",
		Detail: "El mensaje usa urgencia, amenazas de suspensión o peticiones de verificación inmediata, típicas de ingeniería social.",
	}
}

// urgencyScore counts unique urgency terms (deduplicated by a crude
// stem), emphasis phrases, exclamation runs and shouted subject tokens
func (s *Scorer) urgencyScore(subject, body string) int {
	raw := subject + "\n" + body
	corpus := s.tp.Fold(raw)

	stems := make(map[string]struct{})
	for _, word := range urgencyWords {
		if !containsWord(corpus, word) {
			continue
		}
		stem := stemSuffixes.ReplaceAllString(word, "")
		if stem == "" {
			stem = word
		}
		stems[stem] = struct{}{}
	}
	score := len(stems)

	for _, phrase := range urgencyPhrases {
		if strings.Contains(corpus, phrase) {
			score++
			break
		}
	}
	if strings.Count(raw, "!") >= 3 {
		score++
	}
	if capsToken.MatchString(subject) {
		score++
	}
	if score > 5 {
		score = 5
	}
	return score
}

func containsWord(corpus, word string) bool {
	idx := 0
	for {
		pos := strings.Index(corpus[idx:], word)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(word)
		beforeOK := start == 0 || !isWordByte(corpus[start-1])
		afterOK := end == len(corpus) || !isWordByte(corpus[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// spoofedDisplayName fires when the From display name carries a known
// brand token but the sending domain does not belong to that brand
func (s *Scorer) spoofedDisplayName(msg *eml.Message) *core.Finding {
	from := msg.Headers.Get("From")
	if from == "" {
		return nil
	}
	display := from
	if idx := strings.Index(from, "<"); idx >= 0 {
		display = from[:idx]
	}
	display = s.tp.Fold(strings.Trim(display, `"' `))
	if display == "" {
		return nil
	}
	fromDomain := domains.OfEmail(from)
	for _, token := range domains.BrandTokens() {
		if !containsWord(display, token) {
			continue
		}
		if fromDomain != "" && domains.MatchesBrand(token, fromDomain) {
			continue
		}
		return &core.Finding{
			Kind:   core.FindingSpoofedDisplayName,
			Weight: WeightSpoofedDisplayName,
			Title:  "Nombre visible suplanta una marca conocida",
			Detail: fmt.Sprintf("El remitente se presenta como %q pero envía desde %s.", strings.TrimSpace(token), fromDomain),
		}
	}
	return nil
}

// suspiciousAttachments folds the 0-6 attachment suspicion score into a
// single finding weighted score/2
func (s *Scorer) suspiciousAttachments(msg *eml.Message) *core.Finding {
	score := 0
	var worst string
	for _, att := range msg.Attachments {
		if _, ok := dangerousExts[att.Ext]; ok {
			score += 2
			worst = att.Filename
		} else if _, ok := containerExts[att.Ext]; ok {
			score++
			if worst == "" {
				worst = att.Filename
			}
		}
	}
	if score > 6 {
		score = 6
	}
	weight := score / 2
	if weight == 0 {
		return nil
	}
	return &core.Finding{
		Kind:   core.FindingSuspiciousAttachment,
		Weight: weight,
		Title:  "Adjunto potencialmente riesgoso",
		Detail: fmt.Sprintf("El adjunto %q tiene una extensión asociada a malware o macros.", worst),
	}
}
