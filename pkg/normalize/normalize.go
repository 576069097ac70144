// Package normalize handles malformed OCR input: stylistic Unicode
// variants (mathematical bold, fullwidth, circled letters, and the like)
// that a scanner occasionally emits in place of plain ASCII, which would
// otherwise silently fall outside a trained alphabet (spec.md §7
// "malformed input").
package normalize

import "golang.org/x/text/unicode/norm"

// NFKC folds text to its compatibility-composed form, turning stylistic
// Unicode variants into their plain equivalents (𝐈𝐠𝐧𝐨𝐫𝐞 -> Ignore,
// fullwidth Ｉｇｎｏｒｅ -> Ignore, circled Ⓘⓖⓝⓞⓡⓔ -> Ignore). Returns
// whether normalization actually changed the string, so callers can
// decide whether to log it.
func NFKC(text string) (normalized string, changed bool) {
	normalized = norm.NFKC.String(text)
	return normalized, normalized != text
}
