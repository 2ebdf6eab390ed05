package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fixed replies for self-referential questions. These bypass the model.
const (
	CreatorReply = "Azad Mehtiyev ve Emergent tarafından tasarlandım."
	NameReply    = "Ben DARK AI'yım."
)

// Creator questions are checked before name questions: "seni kim yaptı"
// would otherwise be swallowed by the looser name patterns.
var creatorPhrases = []string{
	"kim yapti",
	"seni kim",
	"kim tarafindan",
	"who made you",
	"who created you",
}

var namePhrases = []string{
	"ismin ne",
	"adin ne",
	"kim sin",
	"sen kimsin",
	"adi ne",
	"what is your name",
	"what's your name",
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Respond maps a user utterance to a fixed identity reply. The second
// return is false when no override applies.
func Respond(text string) (string, bool) {
	msg := normalize(text)

	for _, phrase := range creatorPhrases {
		if strings.Contains(msg, phrase) {
			return CreatorReply, true
		}
	}
	for _, phrase := range namePhrases {
		if strings.Contains(msg, phrase) {
			return NameReply, true
		}
	}
	return "", false
}

// normalize folds case and Turkish diacritics so that differently-encoded
// forms of the same phrase match the ASCII phrase lists. NFKD splits off
// combining marks (İ becomes I + dot), which are then dropped; dotless ı
// has no decomposition and is folded by hand.
func normalize(text string) string {
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(folded)
	return strings.Map(func(r rune) rune {
		if r == 'ı' {
			return 'i'
		}
		return r
	}, folded)
}
