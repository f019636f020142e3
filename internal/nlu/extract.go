package nlu

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/shopspring/decimal"
)

// amountPattern matches an optional currency symbol followed by digits with
// optional thousands separators and up to two decimal places.
var amountPattern = regexp.MustCompile(`\$?\s*\d[\d,]*(?:\.\d{1,2})?`)

var amountCleaner = strings.NewReplacer("$", "", ",", "", " ", "")

// ExtractAmount locates the first currency-looking token in text and parses
// it. It reports false when no such token exists or parsing fails.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	match := amountPattern.FindString(text)
	if match == "" {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(amountCleaner.Replace(match))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}

var (
	// The explicit "from X to Y" phrasing is the stronger signal and must
	// win over the looser "X to Y" when both could match.
	explicitDirectionPattern = regexp.MustCompile(`(?i)\bfrom\s+(checking|savings)\s+to\s+(checking|savings)\b`)
	looseDirectionPattern    = regexp.MustCompile(`(?i)\b(checking|savings)\s+to\s+(checking|savings)\b`)
)

// ExtractDirection resolves a transfer direction from text. It reports false
// when neither pattern matches or the two accounts are the same.
func ExtractDirection(text string) (from, to session.Account, ok bool) {
	for _, pattern := range []*regexp.Regexp{explicitDirectionPattern, looseDirectionPattern} {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		f, _ := session.ParseAccount(m[1])
		t, _ := session.ParseAccount(m[2])
		if f == t {
			continue
		}
		return f, t, true
	}
	return "", "", false
}

// ExtractCategory pulls the category slot from "spend insight CATEGORY"
// phrasing.
func ExtractCategory(text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	rest, found := strings.CutPrefix(t, "spend insight")
	if !found {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return titleCase(rest), true
}

var (
	lowThresholdPattern  = regexp.MustCompile(`checking\s*<\s*(\d+)`)
	highThresholdPattern = regexp.MustCompile(`checking\s*>\s*(\d+)`)
)

// ExtractThresholds pulls auto-sweep bounds from "checking < N" and
// "checking > N" phrasings. Either may be nil.
func ExtractThresholds(text string) (low, high *decimal.Decimal) {
	t := strings.ToLower(text)
	if m := lowThresholdPattern.FindStringSubmatch(t); m != nil {
		if v, err := decimal.NewFromString(m[1]); err == nil {
			low = &v
		}
	}
	if m := highThresholdPattern.FindStringSubmatch(t); m != nil {
		if v, err := decimal.NewFromString(m[1]); err == nil {
			high = &v
		}
	}
	return low, high
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
