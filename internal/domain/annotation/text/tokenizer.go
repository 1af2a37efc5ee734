package text

import (
	"context"
	"strings"
	"unicode"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
)

// SimpleTokenizer splits a text on whitespace, except inside quotations.
// Quoted spans stay one token.  Punctuation marks at token boundaries are
// dropped, quotation marks are stripped from the token text but recorded in
// the token's Quoted flag.
//
// All offsets count characters of the original text, not bytes.
type SimpleTokenizer struct{}

// NewSimpleTokenizer creates the tokenizer stage.
func NewSimpleTokenizer() *SimpleTokenizer { return &SimpleTokenizer{} }

const (
	quotationCharacters   = `"'`
	punctuationCharacters = "!?;"
)

// quotationMarks lists the recognised quote markers.  Escaped variants come
// first so they win over their bare counterparts.
var quotationMarks = []string{`\"`, `\'`, `"`, `'`}

// Parse tokenizes the text and stores the tokens in the result.
func (t *SimpleTokenizer) Parse(_ context.Context, text string, result *annotation.Result) error {
	runes := []rune(text)
	var tokens []*annotation.LiteralString

	i := 0
	for i < len(runes) {
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}

		start := i
		var quote rune
		for i < len(runes) {
			r := runes[i]
			if quote == 0 && unicode.IsSpace(r) {
				break
			}
			if strings.ContainsRune(quotationCharacters, r) {
				switch quote {
				case 0:
					quote = r
				case r:
					quote = 0
				}
			}
			i++
		}

		if token := buildToken(runes, start, i); token != nil {
			tokens = append(tokens, token)
		}
	}

	result.Tokens = tokens

	return nil
}

// buildToken turns the raw rune span [begin, end) into a literal token.
// Boundary punctuation is removed, then the quotation check strips quote
// characters from the text; the token's begin moves past stripped leading
// characters while its end keeps the raw span so that the ID still covers
// the quoted region.  Fully stripped tokens are discarded.
func buildToken(runes []rune, begin, end int) *annotation.LiteralString {
	rawEnd := end

	for begin < end && strings.ContainsRune(punctuationCharacters, runes[begin]) {
		begin++
	}
	for end > begin && strings.ContainsRune(punctuationCharacters, runes[end-1]) {
		end--
		rawEnd--
	}
	if begin >= end {
		return nil
	}

	text := string(runes[begin:end])
	quoted := startsAndEndsWithQuote(text)

	trimmed, leading := trimQuotationMarks(text)
	if trimmed == "" {
		return nil
	}
	begin += leading

	return &annotation.LiteralString{
		Word: annotation.Word{
			Begin:  begin,
			End:    rawEnd,
			Text:   trimmed,
			Quoted: quoted,
		},
	}
}

func startsAndEndsWithQuote(text string) bool {
	if len([]rune(text)) < 2 {
		return false
	}
	return leadingQuotationMark(text) != "" && trailingQuotationMark(text) != ""
}

func leadingQuotationMark(text string) string {
	for _, mark := range quotationMarks {
		if strings.HasPrefix(text, mark) {
			return mark
		}
	}
	return ""
}

func trailingQuotationMark(text string) string {
	for _, mark := range quotationMarks {
		if strings.HasSuffix(text, mark) {
			return mark
		}
	}
	return ""
}

// trimQuotationMarks strips quote markers, escaped ones included, from both
// ends of the text and reports how many leading characters were removed.
// All markers are ASCII, so byte counts equal character counts here.
func trimQuotationMarks(text string) (string, int) {
	leading := 0
	for mark := leadingQuotationMark(text); mark != ""; mark = leadingQuotationMark(text) {
		text = text[len(mark):]
		leading += len(mark)
	}
	for mark := trailingQuotationMark(text); mark != ""; mark = trailingQuotationMark(text) {
		text = text[:len(text)-len(mark)]
	}
	return text, leading
}
