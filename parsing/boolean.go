package parsing

import "strings"

// DefaultTruthy and DefaultFalsy are the default token sets for BoolParser
// (spec.md §4.1).
var (
	DefaultTruthy = []string{"yes", "true", "1", "y"}
	DefaultFalsy  = []string{"no", "false", "0", "n"}
)

// BoolParser maps a trimmed, case-folded response to true/false membership
// in a truthy/falsy token set; anything else is a parse failure.
type BoolParser struct {
	Declines DeclineSet
	truthy   map[string]struct{}
	falsy    map[string]struct{}
}

// NewBoolParser builds a BoolParser with the default truthy/falsy sets.
func NewBoolParser(declineKeywords ...string) BoolParser {
	return NewBoolParserWithTokens(DefaultTruthy, DefaultFalsy, declineKeywords...)
}

// NewBoolParserWithTokens builds a BoolParser with custom truthy/falsy sets.
func NewBoolParserWithTokens(truthy, falsy []string, declineKeywords ...string) BoolParser {
	return BoolParser{
		Declines: NewDeclineSet(declineKeywords...),
		truthy:   toTokenSet(truthy),
		falsy:    toTokenSet(falsy),
	}
}

func toTokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return set
}

// Parse implements Parser[bool].
func (p BoolParser) Parse(response string) Result[bool] {
	if p.Declines.Matches(response) {
		return Declined[bool]()
	}
	token := strings.ToLower(strings.TrimSpace(response))
	if _, ok := p.truthy[token]; ok {
		return Parsed(true)
	}
	if _, ok := p.falsy[token]; ok {
		return Parsed(false)
	}
	return Failed[bool]()
}
