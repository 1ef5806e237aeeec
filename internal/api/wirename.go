package api

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// initialisms are Go field words that do not follow plain title casing.
// Longest entries come first so "IPv4" wins over "ID"-style prefixes.
var initialisms = []struct {
	field string
	wire  string
}{
	{"IPv4", "ipv4"},
	{"IPv6", "ipv6"},
	{"HTML", "html"},
	{"UUID", "uuid"},
	{"API", "api"},
	{"URL", "url"},
	{"TTL", "ttl"},
	{"ID", "id"},
}

// WireName translates a Go field name into its snake_case wire name,
// e.g. "CreatedAt" -> "created_at", "AccountID" -> "account_id".
func WireName(field string) string {
	words := splitFieldWords(field)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// FieldName is the inverse of WireName over declared record fields.
func FieldName(wire string) string {
	var b strings.Builder
	for _, part := range strings.Split(wire, "_") {
		if part == "" {
			continue
		}
		if word, ok := initialismForWire(part); ok {
			b.WriteString(word)
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

func initialismForWire(part string) (string, bool) {
	for _, in := range initialisms {
		if in.wire == part {
			return in.field, true
		}
	}
	return "", false
}

// splitFieldWords splits a Go identifier into words, keeping known
// initialisms whole.
func splitFieldWords(field string) []string {
	var words []string
	for i := 0; i < len(field); {
		if word, ok := initialismAt(field, i); ok {
			words = append(words, word)
			i += len(word)
			continue
		}
		j := i + 1
		for j < len(field) && !isUpperASCII(field[j]) {
			j++
		}
		words = append(words, field[i:j])
		i = j
	}
	return words
}

// initialismAt matches an initialism at position i that ends the identifier
// or is followed by the start of another word.
func initialismAt(field string, i int) (string, bool) {
	for _, in := range initialisms {
		if !strings.HasPrefix(field[i:], in.field) {
			continue
		}
		end := i + len(in.field)
		if end == len(field) || isUpperASCII(field[end]) {
			return in.field, true
		}
	}
	return "", false
}

func isUpperASCII(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
