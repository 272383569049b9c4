// Package extract measures a signal.Vector from review text.
// Extraction is pure: no I/O, no shared mutable state.
package extract

import (
	"math"
	"strings"
	"unicode"

	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/text"
)

// lengthSaturation is the token count at which the length signal reaches 1.
const lengthSaturation = 100

// Extract measures t. It never fails for a validated text and always
// returns a vector of signal.Dim components in [0,1].
func Extract(t text.Review) signal.Vector {
	raw := t.String()
	tokens := Tokenize(raw)
	n := len(tokens)
	denom := float64(max(n, 1))

	var (
		hype, cta, firstPerson, specific int
		freq                             = make(map[string]int, n)
		maxFreq                          int
	)
	for _, tok := range tokens {
		freq[tok]++
		if freq[tok] > maxFreq {
			maxFreq = freq[tok]
		}
		if _, ok := hypeWords[tok]; ok {
			hype++
		}
		if _, ok := callToActionWords[tok]; ok {
			cta++
		}
		if _, ok := firstPersonWords[tok]; ok {
			firstPerson++
		}
		if _, ok := specificityWords[tok]; ok {
			specific++
		}
	}

	var runes, letters, upper, punct, exclaim int
	for _, r := range raw {
		runes++
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		case unicode.IsDigit(r), unicode.IsSpace(r):
		default:
			punct++
			if r == '!' || r == '！' {
				exclaim++
			}
		}
	}

	var values [signal.Dim]float64
	values[signal.Length] = math.Min(1, math.Log1p(float64(n))/math.Log1p(lengthSaturation))
	if n > 0 {
		values[signal.LexicalDiversity] = float64(len(freq)) / float64(n)
		values[signal.Repetition] = float64(maxFreq-1) / float64(n)
	}
	values[signal.ExclamationRate] = rate(exclaim, denom)
	values[signal.UppercaseRatio] = ratio(upper, letters)
	values[signal.HypeRate] = rate(hype, denom)
	values[signal.PunctuationRatio] = ratio(punct, runes)
	values[signal.CallToActionRate] = rate(cta, denom)
	values[signal.FirstPersonRate] = rate(firstPerson, denom)
	values[signal.SpecificityRate] = rate(specific, denom)

	// Every component is in [0,1] by construction.
	v, err := signal.NewVector(values[:])
	if err != nil {
		panic("extract: " + err.Error())
	}
	return v
}

// Tokenize splits s into lower-cased runs of letters and digits.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

func rate(count int, denom float64) float64 {
	return math.Min(1, float64(count)/denom)
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
