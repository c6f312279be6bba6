package jsonpayload

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"regexp/syntax"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// maxRepeat caps unbounded quantifiers.
const maxRepeat = 3

// lengthRange bounds the rune count of a sample. hi < 0 means unbounded.
type lengthRange struct {
	lo, hi int
}

var anyLength = lengthRange{lo: 0, hi: -1}

func (l lengthRange) bounded() bool {
	return l.lo > 0 || l.hi >= 0
}

func (l lengthRange) fits(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= l.lo && (l.hi < 0 || n <= l.hi)
}

func (l lengthRange) String() string {
	if l.hi < 0 {
		return fmt.Sprintf("%d..", l.lo)
	}
	return fmt.Sprintf("%d..%d", l.lo, l.hi)
}

// sampleForPattern returns a string matching pattern whose length lies in
// bounds. Patterns that accept a UUID (plain or urn:uuid:) get a random UUID.
func sampleForPattern(rng *rand.Rand, pattern string, bounds lengthRange) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("jsonpayload: invalid regular expression %q: %w", pattern, err)
	}

	id, err := uuid.NewRandomFromReader(rngReader{rng})
	if err == nil {
		for _, candidate := range []string{id.String(), "urn:uuid:" + id.String()} {
			if re.MatchString(candidate) && bounds.fits(candidate) {
				return candidate, nil
			}
		}
	}

	parsed, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return "", fmt.Errorf("jsonpayload: invalid regular expression %q: %w", pattern, err)
	}
	parsed = parsed.Simplify()

	attempts := 16
	if bounds.bounded() {
		attempts = 64
	}
	var out string
	for attempt := 0; attempt < attempts; attempt++ {
		limit := maxRepeat
		switch {
		case bounds.hi >= 0:
			limit = max(maxRepeat, bounds.hi)
		case bounds.lo > 0:
			limit = max(maxRepeat, bounds.lo) + attempt
		}
		var sb strings.Builder
		writeRegexp(rng, &sb, parsed, limit)
		out = sb.String()
		if !re.MatchString(out) {
			continue
		}
		if bounds.fits(out) {
			return out, nil
		}
	}
	if bounds.bounded() {
		return "", fmt.Errorf("jsonpayload: no sample of %q with length %s", pattern, bounds)
	}
	return out, nil
}

// writeRegexp renders one string of re. limit caps unbounded quantifiers.
func writeRegexp(rng *rand.Rand, sb *strings.Builder, re *syntax.Regexp, limit int) {
	switch re.Op {
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			sb.WriteRune(r)
		}
	case syntax.OpCharClass:
		sb.WriteRune(pickRune(rng, re.Rune))
	case syntax.OpAnyCharNotNL, syntax.OpAnyChar:
		sb.WriteRune(rune('a' + rng.IntN(26)))
	case syntax.OpCapture:
		writeRegexp(rng, sb, re.Sub[0], limit)
	case syntax.OpStar:
		repeat(rng, sb, re.Sub[0], 0, limit, limit)
	case syntax.OpPlus:
		repeat(rng, sb, re.Sub[0], 1, limit, limit)
	case syntax.OpQuest:
		repeat(rng, sb, re.Sub[0], 0, 1, limit)
	case syntax.OpRepeat:
		hi := re.Max
		if hi < 0 {
			hi = re.Min + limit
		}
		repeat(rng, sb, re.Sub[0], re.Min, hi, limit)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			writeRegexp(rng, sb, sub, limit)
		}
	case syntax.OpAlternate:
		writeRegexp(rng, sb, re.Sub[rng.IntN(len(re.Sub))], limit)
	}
}

func repeat(rng *rand.Rand, sb *strings.Builder, re *syntax.Regexp, lo, hi, limit int) {
	n := lo
	if hi > lo {
		n += rng.IntN(hi - lo + 1)
	}
	for i := 0; i < n; i++ {
		writeRegexp(rng, sb, re, limit)
	}
}

// pickRune chooses a printable ASCII rune from a class when it has one.
func pickRune(rng *rand.Rand, ranges []rune) rune {
	type span struct{ lo, hi rune }
	var printable []span
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := max(ranges[i], '!'), min(ranges[i+1], '~')
		if lo <= hi {
			printable = append(printable, span{lo, hi})
		}
	}
	if len(printable) == 0 {
		if len(ranges) == 0 {
			return 'x'
		}
		return ranges[0]
	}
	s := printable[rng.IntN(len(printable))]
	return s.lo + rune(rng.IntN(int(s.hi-s.lo)+1))
}

// rngReader lets uuid draw its bytes from the seeded generator.
type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}
