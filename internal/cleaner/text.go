package cleaner

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Operations accepted by CleanText.
const (
	TextTrim              = "trim"
	TextLowercase         = "lowercase"
	TextUppercase         = "uppercase"
	TextRemovePunctuation = "remove_punctuation"
	TextRemoveDigits      = "remove_digits"
)

// CleanText applies the named operations, in order, to the string form of
// every non-null cell. Unknown operation names are skipped and left out of
// the returned Operations list.
func (e *Engine) CleanText(column string, operations []string) (*CleanTextResult, error) {
	res := &CleanTextResult{Column: column, Operations: []string{}}

	err := e.mutate(opCleanText, column, func(t *Table) error {
		if err := require(opCleanText, t, column); err != nil {
			return err
		}

		var steps []func(string) string
		for _, name := range operations {
			step := textStep(name)
			if step == nil {
				continue
			}
			steps = append(steps, step)
			res.Operations = append(res.Operations, name)
		}

		values := t.values(column)
		for i, v := range values {
			if v == nil {
				continue
			}
			s := Stringify(v)
			for _, step := range steps {
				s = step(s)
			}
			values[i] = s
		}
		t.setColumn(column, values)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Data = e.working.Records()
	return res, nil
}

// textStep returns the transform for name, or nil if name is unknown.
// Casers are stateful so a fresh one is built per call.
func textStep(name string) func(string) string {
	switch name {
	case TextTrim:
		return strings.TrimSpace
	case TextLowercase:
		return cases.Lower(language.Und).String
	case TextUppercase:
		return cases.Upper(language.Und).String
	case TextRemovePunctuation:
		return removePunctuation
	case TextRemoveDigits:
		return removeDigits
	}
	return nil
}

// removePunctuation keeps letters, digits, combining marks and whitespace.
func removePunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// removeDigits drops ASCII 0-9 only.
func removeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, s)
}
