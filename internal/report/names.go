package report

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// dialectTitle capitalizes a dialect for headings ("switch" -> "Switch").
func dialectTitle(dialect string) string {
	return cases.Title(language.BrazilianPortuguese).String(dialect)
}
