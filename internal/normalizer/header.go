package normalizer

import (
	"regexp"
	"strings"
)

var (
	// nonDigitPrefix is the label part of a header cell; footnote markers
	// such as "1/" start at the first digit.
	nonDigitPrefix = regexp.MustCompile(`^\D+`)
	punctuation    = regexp.MustCompile(`[^\p{L}\p{N}\s_]+`)
	separators     = regexp.MustCompile(`[\s_]+`)
)

// NormalizeHeader turns a human header such as "Other chicken 2/" or
// "Turkey, young 3/" into a machine key ("other_chicken", "turkey_young").
//
// The second result is false when the cell has no non-digit prefix; the
// trimmed raw text is returned unchanged in that case and the caller is
// expected to report it. Normalizing a key returns the same key.
func NormalizeHeader(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)

	prefix := nonDigitPrefix.FindString(trimmed)
	cleaned := punctuation.ReplaceAllString(prefix, " ")
	cleaned = strings.TrimSpace(separators.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return trimmed, false
	}

	return strings.ToLower(strings.ReplaceAll(cleaned, " ", "_")), true
}
