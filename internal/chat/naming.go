package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultName is the placeholder used until a conversation earns a
// derived name from its first user message.
const DefaultName = "New Chat"

const (
	nameMaxWords = 6
	nameMaxRunes = 50
)

// DeriveName builds a conversation name from the first user message:
// punctuation becomes whitespace, the first six words are kept, and the
// result is capped at fifty characters with a trailing ellipsis when
// anything was cut.
func DeriveName(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return DefaultName
	}

	kept := words
	if len(kept) > nameMaxWords {
		kept = kept[:nameMaxWords]
	}
	name := strings.Join(kept, " ")
	if len(words) > nameMaxWords {
		name += "..."
	}

	if utf8.RuneCountInString(name) > nameMaxRunes {
		runes := []rune(name)
		name = string(runes[:nameMaxRunes-3]) + "..."
	}
	return name
}
