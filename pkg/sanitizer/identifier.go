package sanitizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxOrderIDLength caps sanitized order identifiers.
	MaxOrderIDLength = 32
	// MaxFileBaseLength caps sanitized file-base overrides.
	MaxFileBaseLength = 60
	// NoOrderDirectory is used when no usable order id was supplied.
	NoOrderDirectory = "no_order"
)

// Characters reserved by common filesystems plus both path separators.
var reservedReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

var (
	underscoreRun = regexp.MustCompile(`_+`)
	// _s01of05 style suffix of multi-item orders.
	sequenceSuffix = regexp.MustCompile(`(?i)_s\d{2}of\d{1,2}$`)
)

// Identifier turns free-form client text into a filesystem-safe path component.
// The result contains only Unicode letters, digits, underscores and hyphens,
// never starts with a dot or an edge underscore/hyphen, and is at most maxLen
// runes long. Empty or garbage input yields an empty string.
//
// Identifier is idempotent: Identifier(Identifier(s, n), n) == Identifier(s, n).
func Identifier(raw string, maxLen int) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = norm.NFC.String(s)
	// unicode.IsSpace also covers NBSP, em and ideographic spaces.
	s = strings.Join(strings.FieldsFunc(s, unicode.IsSpace), "_")
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	s = reservedReplacer.Replace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			return r
		}
		return -1
	}, s)
	// Dropped runes can leave composable neighbours behind.
	s = norm.NFC.String(s)
	s = underscoreRun.ReplaceAllString(s, "_")
	s = trimEdges(s)
	s = strings.TrimLeft(s, ".")

	if maxLen > 0 {
		s = trimEdges(truncateRunes(s, maxLen))
	}
	return s
}

// OrderDirectory derives the shared storage directory name from a sanitized
// order id by dropping a trailing "_sNNofM" sequence marker, so every item of
// a multi-item order lands in one directory. Returns NoOrderDirectory when
// nothing usable is left.
func OrderDirectory(cleanOrderID string) string {
	dir := trimEdges(sequenceSuffix.ReplaceAllString(cleanOrderID, ""))
	if dir == "" {
		return NoOrderDirectory
	}
	return dir
}

func trimEdges(s string) string {
	return strings.Trim(s, "_-")
}

func truncateRunes(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
