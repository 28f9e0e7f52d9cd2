// Package nlu classifies user messages into intents with keyword and
// pattern rules, and holds the educational reply content. Matching is
// case- and accent-insensitive; no model, no network.
package nlu

import (
	"regexp"
	"strings"

	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/utils"
)

// Topic narrows a QUESTION intent to the reply the dispatcher should
// pick
type Topic string

const (
	TopicGreeting     Topic = "greeting"
	TopicSignals      Topic = "signals"
	TopicBestPractice Topic = "best_practices"
	TopicTerminology  Topic = "terminology"
	TopicDefinition   Topic = "definition"
)

// Classification is the result of classifying one message
type Classification struct {
	Intent   core.Intent
	Topic    Topic
	Term     string
	Subtopic string
}

// Keyword sets are stored pre-folded (lowercase, no diacritics); input
// text is folded the same way before matching
var goodbyeKeywords = []string{
	"adios", "chao", "chau", "bye", "salir", "exit", "quit",
	"hasta luego", "nos vemos", "hasta pronto", "me voy",
}

var analysisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\banaliza(r)?\b`),
	regexp.MustCompile(`\brevisa(r)?\b`),
	regexp.MustCompile(`\bevalua(r)?\b`),
	regexp.MustCompile(`\bveredicto\b`),
	regexp.MustCompile(`\beste correo\b`),
	regexp.MustCompile(`\bmi correo\b`),
	regexp.MustCompile(`\bmensaje adjunto\b`),
}

var greetingKeywords = []string{
	"hola", "buenas", "que puedes hacer", "ayuda", "menu", "opciones",
}

var signalsKeywords = []string{
	"senales phishing", "senales", "senales comunes", "como identificar",
	"pistas", "red flags", "como detectar", "indicadores phishing",
	"alertas phishing",
}

var bestPracticeKeywords = []string{
	"consejos", "buenas practicas", "recomendaciones", "como prevenir",
	"prevencion phishing", "que hacer", "buenas practicas correo",
}

// Ordered so a message touching several subtopics resolves the same
// way every time
var bestPracticeSubtopics = []struct {
	name     string
	keywords []string
}{
	{"enlaces", []string{"enlace", "link", "url", "acortador", "bit.ly", "tinyurl", "redirigir", "dominio"}},
	{"contrasenas", []string{"contrasena", "password", "gestor", "reutilizar"}},
	{"2fa", []string{"2fa", "mfa", "doble factor", "autenticacion"}},
	{"adjuntos", []string{"adjunto", "archivo", ".zip", ".exe", "macro", "documento"}},
	{"qr", []string{"qr", "codigo qr", "quishing"}},
}

var terminologyTerms = []string{
	"spf", "dkim", "dmarc", "reply-to", "return-path",
	"homografos", "display name", "cabeceras", "encabezados",
}

var conceptKeywords = []string{
	"phishing", "smishing", "vishing", "bec",
	"ingenieria social", "ingenieria",
	"2fa", "mfa", "autenticacion", "doble factor", "doble autenticacion",
	"return path", "return-path", "reply to", "reply-to",
}

var definitionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`que es (.+)`),
	regexp.MustCompile(`que significa (.+)`),
	regexp.MustCompile(`definicion (.+)`),
	regexp.MustCompile(`explica(?:r)? (.+)`),
	regexp.MustCompile(`explicacion de (.+)`),
}

// Classifier maps a free-text message to an intent with an ordered
// rule list, first match wins: GOODBYE, then ANALYSIS_REQUEST, then
// QUESTION topics, then UNKNOWN
type Classifier struct {
	tp *utils.TextProcessor
}

// NewClassifier creates a new Classifier
func NewClassifier(tp *utils.TextProcessor) *Classifier {
	return &Classifier{tp: tp}
}

// Classify classifies one user message
func (c *Classifier) Classify(text string) Classification {
	folded := c.tp.Fold(text)

	// Farewell dominates even when other keywords co-occur
	for _, kw := range goodbyeKeywords {
		if containsPhrase(folded, kw) {
			return Classification{Intent: core.IntentGoodbye}
		}
	}

	for _, pattern := range analysisPatterns {
		if pattern.MatchString(folded) {
			return Classification{Intent: core.IntentAnalysisRequest}
		}
	}

	if cls, ok := c.questionTopic(folded); ok {
		return cls
	}

	return Classification{Intent: core.IntentUnknown}
}

// questionTopic applies the QUESTION rules in priority order:
// explicit definition question, bare concept term, terminology,
// signals, best-practice subtopic, general best practices, greeting
func (c *Classifier) questionTopic(folded string) (Classification, bool) {
	for _, pattern := range definitionPatterns {
		if m := pattern.FindStringSubmatch(folded); m != nil {
			term := strings.TrimRight(strings.TrimSpace(m[1]), "?.!")
			return Classification{Intent: core.IntentQuestion, Topic: TopicDefinition, Term: term}, true
		}
	}

	// A message that is just a concept term asks for its definition
	words := strings.Fields(folded)
	if len(words) > 0 && len(words) <= 3 {
		for _, concept := range conceptKeywords {
			if folded == concept || containsPhrase(folded, concept) {
				return Classification{Intent: core.IntentQuestion, Topic: TopicDefinition, Term: concept}, true
			}
		}
	}

	for _, term := range terminologyTerms {
		if containsPhrase(folded, term) {
			return Classification{Intent: core.IntentQuestion, Topic: TopicTerminology, Term: term}, true
		}
	}

	for _, kw := range signalsKeywords {
		if containsPhrase(folded, kw) {
			return Classification{Intent: core.IntentQuestion, Topic: TopicSignals}, true
		}
	}

	for _, sub := range bestPracticeSubtopics {
		for _, kw := range sub.keywords {
			if containsPhrase(folded, kw) {
				return Classification{Intent: core.IntentQuestion, Topic: TopicBestPractice, Subtopic: sub.name}, true
			}
		}
	}

	for _, kw := range bestPracticeKeywords {
		if containsPhrase(folded, kw) {
			return Classification{Intent: core.IntentQuestion, Topic: TopicBestPractice}, true
		}
	}

	for _, concept := range conceptKeywords {
		if containsPhrase(folded, concept) {
			return Classification{Intent: core.IntentQuestion, Topic: TopicDefinition, Term: concept}, true
		}
	}

	for _, kw := range greetingKeywords {
		if containsPhrase(folded, kw) {
			return Classification{Intent: core.IntentQuestion, Topic: TopicGreeting}, true
		}
	}

	return Classification{}, false
}

// containsPhrase reports whether the phrase occurs on word boundaries
func containsPhrase(text, phrase string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], phrase)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(phrase)
		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
