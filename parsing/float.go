package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

var floatPattern = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*([A-Za-z]+)?`)

// FloatParser extracts the first decimal number in a response, optionally
// scaling it by a unit multiplier (spec.md §4.1).
type FloatParser struct {
	Declines DeclineSet
	// Units maps a lower-cased unit token to its multiplier. When non-empty,
	// an unrecognised unit token is a parse failure; when empty, an
	// unrecognised (or any) unit token is ignored and the raw number is
	// returned unscaled.
	Units map[string]float64
}

// NewFloatParser builds a FloatParser with the default decline keywords.
func NewFloatParser(units map[string]float64, declineKeywords ...string) FloatParser {
	return FloatParser{
		Declines: NewDeclineSet(declineKeywords...),
		Units:    units,
	}
}

// Parse implements Parser[float64].
func (p FloatParser) Parse(response string) Result[float64] {
	if p.Declines.Matches(response) {
		return Declined[float64]()
	}

	match := floatPattern.FindStringSubmatch(response)
	if match == nil {
		return Failed[float64]()
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return Failed[float64]()
	}

	unit := strings.ToLower(strings.TrimSpace(match[2]))
	if unit == "" {
		return Parsed(value)
	}

	if multiplier, ok := p.Units[unit]; ok {
		return Parsed(value * multiplier)
	}
	if len(p.Units) > 0 {
		// A unit table was declared but this unit isn't in it.
		return Failed[float64]()
	}
	return Parsed(value)
}
