// Package decode turns per-token class scores back into punctuated,
// capitalized text and stitches chunk fragments into one string.
package decode

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CaseRule is the capitalization transform a class label applies to the word
// it covers.
type CaseRule int

const (
	CaseNone CaseRule = iota
	CaseCapitalize
	CaseUpper
)

// Label maps a predicted class to its text effect: a capitalization
// transform plus an optional trailing punctuation character.
type Label struct {
	Case  CaseRule
	Punct string
}

// primaryPuncts is the punctuation axis of the 24-class table, in class
// order within each casing block.
var primaryPuncts = []string{"", ".", ",", "!", "?", ":", ";", "-"}

// PrimaryLabels returns the 24-class table of the cased model:
// {uppercase-all, capitalize-first, lowercase} x the eight punctuation
// outcomes, case-major.
func PrimaryLabels() []Label {
	cases := []CaseRule{CaseUpper, CaseCapitalize, CaseNone}
	labels := make([]Label, 0, len(cases)*len(primaryPuncts))
	for _, c := range cases {
		for _, p := range primaryPuncts {
			labels = append(labels, Label{Case: c, Punct: p})
		}
	}
	return labels
}

// SecondaryLabels returns the 6-class table of the uncased multilingual
// model. It predicts punctuation only; casing is left untouched.
func SecondaryLabels() []Label {
	return []Label{
		{},
		{Punct: "."},
		{Punct: ","},
		{Punct: "?"},
		{Punct: "-"},
		{Punct: ":"},
	}
}

func applyCase(s string, c CaseRule) string {
	switch c {
	case CaseUpper:
		return strings.ToUpper(s)
	case CaseCapitalize:
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size <= 1 {
			return s
		}
		up := unicode.ToUpper(r)
		if up == r {
			return s
		}
		return string(up) + s[size:]
	}
	return s
}
