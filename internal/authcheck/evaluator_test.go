package authcheck

import (
	"testing"

	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/eml"
)

func headers(pairs ...string) *eml.HeaderMap {
	h := eml.NewHeaderMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Add(pairs[i], pairs[i+1])
	}
	return h
}

func TestEvaluateAuthenticationResults(t *testing.T) {
	tests := []struct {
		name  string
		value string
		spf   core.AuthResult
		dkim  core.AuthResult
		dmarc core.AuthResult
	}{
		{
			name:  "all pass",
			value: "mx.example.com; spf=pass smtp.mailfrom=example.com; dkim=pass header.d=example.com; dmarc=pass",
			spf:   core.AuthPass, dkim: core.AuthPass, dmarc: core.AuthPass,
		},
		{
			name:  "dkim fail",
			value: "mx.example.com; spf=pass; dkim=fail header.d=example.com; dmarc=fail",
			spf:   core.AuthPass, dkim: core.AuthFail, dmarc: core.AuthFail,
		},
		{
			name:  "softfail and errors fold into neutral",
			value: "mx.example.com; spf=softfail; dkim=temperror; dmarc=permerror",
			spf:   core.AuthNeutral, dkim: core.AuthNeutral, dmarc: core.AuthNeutral,
		},
		{
			name:  "none",
			value: "mx.example.com; spf=none; dkim=none; dmarc=none",
			spf:   core.AuthNone, dkim: core.AuthNone, dmarc: core.AuthNone,
		},
		{
			name:  "mixed case",
			value: "mx.example.com; SPF=Pass; DKIM=FAIL; dmarc=PASS",
			spf:   core.AuthPass, dkim: core.AuthFail, dmarc: core.AuthPass,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(headers("Authentication-Results", tt.value))
			if result.SPF != tt.spf || result.DKIM != tt.dkim || result.DMARC != tt.dmarc {
				t.Errorf("Evaluate() = spf=%s dkim=%s dmarc=%s, want spf=%s dkim=%s dmarc=%s",
					result.SPF, result.DKIM, result.DMARC, tt.spf, tt.dkim, tt.dmarc)
			}
		})
	}
}

func TestEvaluateFirstOccurrenceWins(t *testing.T) {
	h := headers(
		"Authentication-Results", "mx.example.com; dkim=fail header.d=example.com",
		"Authentication-Results", "other.example.net; dkim=pass",
	)
	result := Evaluate(h)
	if result.DKIM != core.AuthFail {
		t.Errorf("DKIM = %s, want fail from the first header", result.DKIM)
	}
}

func TestEvaluateReceivedSPFFallback(t *testing.T) {
	h := headers("Received-SPF", "Fail (protection.example.com: domain of example.com does not designate 203.0.113.7 as permitted sender)")
	result := Evaluate(h)
	if result.SPF != core.AuthFail {
		t.Errorf("SPF = %s, want fail from Received-SPF", result.SPF)
	}
	if result.DKIM != core.AuthUnknown || result.DMARC != core.AuthUnknown {
		t.Errorf("DKIM/DMARC = %s/%s, want unknown when headers are absent", result.DKIM, result.DMARC)
	}
}

func TestEvaluateMissingHeaders(t *testing.T) {
	result := Evaluate(headers("From", "a@example.com", "Subject", "hola"))
	if result.SPF != core.AuthUnknown || result.DKIM != core.AuthUnknown || result.DMARC != core.AuthUnknown {
		t.Errorf("Evaluate() = %+v, want all unknown", result)
	}
	if len(result.Findings()) != 0 {
		t.Errorf("Findings() = %v, want none for missing headers", result.Findings())
	}
}

func TestSenderAnomalies(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		extra []string
		kinds []core.FindingKind
	}{
		{
			name:  "return-path mismatch",
			from:  "Banco <alertas@banco.com>",
			extra: []string{"Return-Path", "<bounce@sospechoso.xyz>"},
			kinds: []core.FindingKind{core.FindingDomainMismatch},
		},
		{
			name:  "reply-to mismatch",
			from:  "soporte@empresa.com",
			extra: []string{"Reply-To", "atacante@otrodominio.net"},
			kinds: []core.FindingKind{core.FindingReplyToMismatch},
		},
		{
			name:  "subdomain is not a mismatch",
			from:  "noreply@empresa.com",
			extra: []string{"Return-Path", "<bounces@mail.empresa.com>"},
			kinds: nil,
		},
		{
			name:  "provider siblings are not a mismatch",
			from:  "amigo@gmail.com",
			extra: []string{"Return-Path", "<amigo@googlemail.com>"},
			kinds: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := append([]string{"From", tt.from}, tt.extra...)
			result := Evaluate(headers(pairs...))
			if len(result.Anomalies) != len(tt.kinds) {
				t.Fatalf("Anomalies = %v, want %d findings", result.Anomalies, len(tt.kinds))
			}
			for i, kind := range tt.kinds {
				if result.Anomalies[i].Kind != kind {
					t.Errorf("Anomalies[%d].Kind = %s, want %s", i, result.Anomalies[i].Kind, kind)
				}
			}
		})
	}
}

func TestFindingsOrderAndWeights(t *testing.T) {
	h := headers(
		"Authentication-Results", "mx.example.com; spf=fail; dkim=fail; dmarc=fail",
		"From", "a@example.com",
	)
	findings := Evaluate(h).Findings()
	if len(findings) != 3 {
		t.Fatalf("Findings() returned %d, want 3", len(findings))
	}
	wantWeights := []int{WeightDMARCFail, WeightDKIMFail, WeightSPFFail}
	for i, want := range wantWeights {
		if findings[i].Kind != core.FindingAuthFail {
			t.Errorf("Findings()[%d].Kind = %s", i, findings[i].Kind)
		}
		if findings[i].Weight != want {
			t.Errorf("Findings()[%d].Weight = %d, want %d", i, findings[i].Weight, want)
		}
	}
}
