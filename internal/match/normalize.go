package match

import (
	"regexp"
	"strings"
)

var (
	separatorRunPattern = regexp.MustCompile(`[._:\s]+`)
	invalidCharPattern  = regexp.MustCompile(`[^a-z0-9/-]+`)
	dashRunPattern      = regexp.MustCompile(`-+`)
	digitsPattern       = regexp.MustCompile(`^\d+$`)
	bScalePattern       = regexp.MustCompile(`^(\d+)b$`)
	activeBPattern      = regexp.MustCompile(`^a(\d+)b$`)
)

// normalize lowercases, collapses separator runs into dashes, strips other
// punctuation, collapses repeated dashes, and trims the edges.
func normalize(value string) string {
	n := strings.ToLower(value)
	n = separatorRunPattern.ReplaceAllString(n, "-")
	n = invalidCharPattern.ReplaceAllString(n, "")
	n = dashRunPattern.ReplaceAllString(n, "-")
	return strings.Trim(n, "-/")
}

// baseModelID returns the last path segment of a <provider>/<model> id.
func baseModelID(modelID string) string {
	parts := strings.Split(modelID, "/")
	return parts[len(parts)-1]
}

// isBScaleToken reports whether a token is parameter-count shorthand like
// "70b" or "a3b". These stay intact through alpha/numeric splitting.
func isBScaleToken(token string) bool {
	return bScalePattern.MatchString(token) || activeBPattern.MatchString(token)
}

// splitMixedToken splits at alpha/numeric boundaries ("gpt4o" → "gpt", "4",
// "o") unless the token is B-scale shorthand.
func splitMixedToken(token string) []string {
	if isBScaleToken(token) {
		return []string{token}
	}
	var parts []string
	start := 0
	for i := 1; i < len(token); i++ {
		if isDigit(token[i]) != isDigit(token[i-1]) {
			parts = append(parts, token[start:i])
			start = i
		}
	}
	if start < len(token) {
		parts = append(parts, token[start:])
	}
	return parts
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// splitTokens normalizes and tokenizes a value, dropping capability/variant
// tags that carry no identity signal.
func (m *Matcher) splitTokens(value string) []string {
	var tokens []string
	for _, token := range strings.Split(normalize(value), "-") {
		for _, part := range splitMixedToken(token) {
			if part == "" {
				continue
			}
			if _, tagged := m.tagTokens[part]; tagged {
				continue
			}
			tokens = append(tokens, part)
		}
	}
	return tokens
}

func isNumericToken(token string) bool {
	return token != "" && digitsPattern.MatchString(token)
}

// parseNumericOrBScale extracts the numeric value of a plain number, a
// B-scale token, or an active-B token.
func parseNumericOrBScale(token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	if digitsPattern.MatchString(token) {
		return atoiSafe(token)
	}
	if m := bScalePattern.FindStringSubmatch(token); m != nil {
		return atoiSafe(m[1])
	}
	if m := activeBPattern.FindStringSubmatch(token); m != nil {
		return atoiSafe(m[1])
	}
	return 0, false
}

func parseBScale(token string) (int, bool) {
	if m := bScalePattern.FindStringSubmatch(token); m != nil {
		return atoiSafe(m[1])
	}
	return 0, false
}

func parseActiveB(token string) (int, bool) {
	if m := activeBPattern.FindStringSubmatch(token); m != nil {
		return atoiSafe(m[1])
	}
	return 0, false
}

func atoiSafe(digits string) (int, bool) {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	return n, true
}

// firstParsed returns the first token a parser accepts.
func firstParsed(tokens []string, parse func(string) (int, bool)) (int, bool) {
	for _, token := range tokens {
		if v, ok := parse(token); ok {
			return v, true
		}
	}
	return 0, false
}

func commonPrefixLength(left, right string) int {
	maxLen := min(len(left), len(right))
	i := 0
	for i < maxLen && left[i] == right[i] {
		i++
	}
	return i
}
