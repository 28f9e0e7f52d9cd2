package nlu

import (
	"testing"

	"go.uber.org/zap"

	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/utils"
)

func newClassifier() *Classifier {
	return NewClassifier(utils.NewTextProcessor(zap.NewNop()))
}

func TestClassifyIntents(t *testing.T) {
	tests := []struct {
		text   string
		intent core.Intent
	}{
		// Farewells, regardless of case or accents
		{"adios", core.IntentGoodbye},
		{"SALIR", core.IntentGoodbye},
		{"Salír", core.IntentGoodbye},
		{"gracias por todo, hasta luego", core.IntentGoodbye},
		// Farewell wins even when other keywords co-occur
		{"qué es phishing? bueno mejor me voy, adiós", core.IntentGoodbye},

		{"puedes analizar este correo?", core.IntentAnalysisRequest},
		{"revisa el mensaje adjunto por favor", core.IntentAnalysisRequest},
		{"quiero un veredicto sobre esto", core.IntentAnalysisRequest},

		{"hola", core.IntentQuestion},
		{"¿Qué es DKIM?", core.IntentQuestion},
		{"cuáles son las señales comunes de phishing", core.IntentQuestion},
		{"dame consejos sobre contraseñas", core.IntentQuestion},

		{"xyzzy plugh", core.IntentUnknown},
		{"cuanto cuesta un coche usado", core.IntentUnknown},
	}
	c := newClassifier()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Intent != tt.intent {
				t.Errorf("Classify(%q).Intent = %s, want %s", tt.text, got.Intent, tt.intent)
			}
		})
	}
}

func TestClassifyQuestionTopics(t *testing.T) {
	tests := []struct {
		text     string
		topic    Topic
		term     string
		subtopic string
	}{
		{"¿qué es el phishing?", TopicDefinition, "el phishing", ""},
		{"que significa smishing", TopicDefinition, "smishing", ""},
		{"phishing", TopicDefinition, "phishing", ""},
		{"spf", TopicTerminology, "spf", ""},
		{"para que sirve dmarc", TopicTerminology, "dmarc", ""},
		{"como identificar un correo falso", TopicSignals, "", ""},
		{"dame consejos sobre enlaces acortados", TopicBestPractice, "", "enlaces"},
		{"recomendaciones para el correo", TopicBestPractice, "", ""},
		{"buenas, que puedes hacer", TopicGreeting, "", ""},
	}
	c := newClassifier()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Intent != core.IntentQuestion {
				t.Fatalf("Classify(%q).Intent = %s, want question", tt.text, got.Intent)
			}
			if got.Topic != tt.topic {
				t.Errorf("Topic = %s, want %s", got.Topic, tt.topic)
			}
			if tt.term != "" && got.Term != tt.term {
				t.Errorf("Term = %q, want %q", got.Term, tt.term)
			}
			if tt.subtopic != "" && got.Subtopic != tt.subtopic {
				t.Errorf("Subtopic = %q, want %q", got.Subtopic, tt.subtopic)
			}
		})
	}
}

func TestClassifyAccentInsensitive(t *testing.T) {
	c := newClassifier()
	plain := c.Classify("que es dkim")
	accented := c.Classify("¿Qué es DKIM?")
	if plain.Intent != accented.Intent || plain.Topic != accented.Topic || plain.Term != accented.Term {
		t.Errorf("accented form classified as %+v, plain as %+v", accented, plain)
	}
}
