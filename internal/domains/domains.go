package domains

import (
	"net/url"
	"regexp"
	"strings"
)

// Large mail providers route legitimate traffic through sibling
// domains, so a plain string comparison of From vs Return-Path would
// flag half the internet. Aliases and trusted groups fold those
// siblings together before the mismatch heuristics run.

var multiLevelTLDs = map[string]struct{}{
	"co.uk": {}, "com.au": {}, "com.br": {}, "com.ar": {}, "com.mx": {},
	"com.tr": {}, "com.cn": {}, "com.sa": {}, "com.eg": {}, "com.ve": {},
	"com.co": {}, "com.pe": {}, "com.cl": {},
}

var aliases = map[string]string{
	"c.gle":                   "google.com",
	"g.co":                    "google.com",
	"googlemail.com":          "google.com",
	"gmail.com":               "google.com",
	"youtube.com":             "google.com",
	"yt.be":                   "google.com",
	"1e100.net":               "google.com",
	"facebookmail.com":        "facebook.com",
	"fb.com":                  "facebook.com",
	"messaging.microsoft.com": "microsoft.com",
	"outlook.com":             "microsoft.com",
	"office365.com":           "microsoft.com",
}

var trustedGroups = [][]string{
	{"google.com", "gmail.com", "googlemail.com", "g.co", "c.gle", "youtube.com", "yt.be", "android.com", "withgoogle.com", "googleapis.com", "1e100.net"},
	{"facebook.com", "facebookmail.com", "fb.com", "meta.com", "instagram.com", "whatsapp.com"},
	{"microsoft.com", "outlook.com", "office.com", "office365.com", "microsoftonline.com", "live.com"},
	{"apple.com", "icloud.com", "me.com"},
}

// brandDomains maps a well-known brand token (as it appears in display
// names) to the domains that legitimately send for that brand
var brandDomains = map[string][]string{
	"google":    {"google.com"},
	"gmail":     {"google.com"},
	"facebook":  {"facebook.com"},
	"instagram": {"facebook.com", "instagram.com"},
	"whatsapp":  {"facebook.com", "whatsapp.com"},
	"microsoft": {"microsoft.com"},
	"outlook":   {"microsoft.com"},
	"apple":     {"apple.com"},
	"icloud":    {"apple.com"},
	"paypal":    {"paypal.com"},
	"amazon":    {"amazon.com"},
	"netflix":   {"netflix.com"},
}

var (
	angleAddr  = regexp.MustCompile(`<([^>]+)>`)
	addrDomain = regexp.MustCompile(`@([A-Za-z0-9._-]+)$`)
	bareDomain = regexp.MustCompile(`(?i)\b([a-z0-9-]+(?:\.[a-z0-9-]+)*\.[a-z]{2,})\b`)
)

// OfEmail extracts the lowercase domain from an address in either
// "Display Name <user@domain>" or "user@domain" form
func OfEmail(addr string) string {
	if addr == "" {
		return ""
	}
	email := addr
	if m := angleAddr.FindStringSubmatch(addr); m != nil {
		email = m[1]
	}
	email = strings.Trim(strings.TrimSpace(email), `"'`)
	if m := addrDomain.FindStringSubmatch(email); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// OfURL extracts the lowercase hostname from a URL
func OfURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// Guess pulls a bare domain out of free text when it is not a URL
func Guess(text string) string {
	if m := bareDomain.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// Registrable reduces a hostname to its registrable domain, resolving
// provider aliases and multi-level TLDs
func Registrable(domain string) string {
	domain = strings.Trim(strings.ToLower(domain), ".")
	if domain == "" {
		return ""
	}
	if canonical, ok := aliases[domain]; ok {
		return canonical
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return domain
	}
	suffix := strings.Join(labels[len(labels)-2:], ".")
	for multi := range multiLevelTLDs {
		if strings.HasSuffix(domain, "."+multi) {
			need := len(strings.Split(multi, ".")) + 1
			if len(labels) >= need {
				return strings.Join(labels[len(labels)-need:], ".")
			}
		}
	}
	return suffix
}

// Related reports whether two domains belong to the same sender: equal,
// parent/subdomain, same registrable domain, or same trusted provider
// group
func Related(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return true
	}
	if strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a) {
		return true
	}
	canonA := Registrable(a)
	canonB := Registrable(b)
	if canonA != "" && canonA == canonB {
		return true
	}
	return inTrustedGroup(canonA, canonB)
}

func inTrustedGroup(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	for _, group := range trustedGroups {
		var foundA, foundB bool
		for _, d := range group {
			if d == a {
				foundA = true
			}
			if d == b {
				foundB = true
			}
		}
		if foundA && foundB {
			return true
		}
	}
	return false
}

// BrandFor returns the legitimate domains for a brand token found in a
// display name, or false when the token is not a known brand
func BrandFor(token string) ([]string, bool) {
	doms, ok := brandDomains[strings.ToLower(token)]
	return doms, ok
}

// MatchesBrand reports whether a sender domain is legitimate for the
// given brand token
func MatchesBrand(token, domain string) bool {
	doms, ok := BrandFor(token)
	if !ok {
		return false
	}
	for _, d := range doms {
		if Related(domain, d) {
			return true
		}
	}
	return false
}

// BrandTokens lists the known brand tokens
func BrandTokens() []string {
	tokens := make([]string, 0, len(brandDomains))
	for t := range brandDomains {
		tokens = append(tokens, t)
	}
	return tokens
}
