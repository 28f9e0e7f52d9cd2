package scoring

import (
	"sort"

	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/domains"
	"github.com/phishguard/phishbot/internal/eml"
)

var headlines = map[core.RiskLevel]string{
	core.RiskHigh:   "Es muy probable que sea phishing.",
	core.RiskMedium: "El correo presenta señales que requieren atención.",
	core.RiskLow:    "No detectamos riesgos claros.",
}

var tips = map[core.RiskLevel][]string{
	core.RiskHigh: {
		"No abras enlaces ni adjuntos.",
		"Contacta al remitente por un canal oficial antes de responder.",
		"Reporta el correo a tu equipo de seguridad o proveedor.",
	},
	core.RiskMedium: {
		"Verifica la información entrando manualmente al sitio legítimo.",
		"Responde solo si confirmas que proviene de la organización real.",
	},
	core.RiskLow: {
		"Aun así, evita compartir contraseñas o códigos por correo.",
		"Ante cualquier duda, confirma por un canal oficial.",
	},
}

// Compose turns a verdict into the UI-agnostic presentation payload:
// plain strings only, rendering is the caller's concern
func Compose(verdict core.Verdict, msg *eml.Message) core.PresentationPayload {
	items := make([]core.PayloadItem, 0, len(verdict.Findings))
	for _, f := range verdict.Findings {
		items = append(items, core.PayloadItem{Title: f.Title, Detail: f.Detail})
	}

	return core.PresentationPayload{
		Risk:        verdict.Risk.String(),
		Headline:    headlines[verdict.Risk],
		Findings:    items,
		LinkDomains: linkDomains(msg),
		Tips:        tips[verdict.Risk],
	}
}

// ComposeCached rebuilds a payload from a cached verdict, without the
// link summary that only the parsed message can provide
func ComposeCached(verdict core.Verdict) core.PresentationPayload {
	items := make([]core.PayloadItem, 0, len(verdict.Findings))
	for _, f := range verdict.Findings {
		items = append(items, core.PayloadItem{Title: f.Title, Detail: f.Detail})
	}
	return core.PresentationPayload{
		Risk:     verdict.Risk.String(),
		Headline: headlines[verdict.Risk],
		Findings: items,
		Tips:     tips[verdict.Risk],
	}
}

func linkDomains(msg *eml.Message) []string {
	if msg == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, link := range msg.Links {
		if d := domains.OfURL(link.Href); d != "" {
			seen[d] = struct{}{}
		}
	}
	for _, raw := range msg.URLsInText {
		if d := domains.OfURL(raw); d != "" {
			seen[d] = struct{}{}
		}
	}
	list := make([]string, 0, len(seen))
	for d := range seen {
		list = append(list, d)
	}
	sort.Strings(list)
	return list
}
