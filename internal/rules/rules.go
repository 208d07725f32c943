// Package rules holds the compliance check catalogs. A check is a pure
// function from one section kind's block list to a list of finding messages;
// registries bind named checks to the kinds they inspect.
package rules

import (
	"fmt"
	"strings"
)

// CheckFunc evaluates one section kind's blocks and returns the findings, in
// block order. It must accept any list, including an empty one.
type CheckFunc func(blocks []string) []string

// Severity ranks how serious a failed check is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// blockRef formats the 1-based positional suffix findings use to point at a
// block.
func blockRef(label string, idx int) string {
	return fmt.Sprintf("%s (Bloco #%d)", label, idx+1)
}

// Absent reports msg once when no block exists.
func Absent(msg string) CheckFunc {
	return func(blocks []string) []string {
		if len(blocks) == 0 {
			return []string{msg}
		}
		return []string{}
	}
}

// Forbid reports every block whose text contains substr, compared
// case-insensitively.
func Forbid(substr, label string) CheckFunc {
	needle := strings.ToLower(substr)
	return func(blocks []string) []string {
		findings := []string{}
		for i, b := range blocks {
			if strings.Contains(strings.ToLower(b), needle) {
				findings = append(findings, blockRef(label, i))
			}
		}
		return findings
	}
}

// RequireAny reports every block that contains none of substrs, compared
// case-insensitively.
func RequireAny(label string, substrs ...string) CheckFunc {
	needles := make([]string, len(substrs))
	for i, s := range substrs {
		needles[i] = strings.ToLower(s)
	}
	return func(blocks []string) []string {
		findings := []string{}
		for i, b := range blocks {
			if !containsAny(strings.ToLower(b), needles) {
				findings = append(findings, blockRef(label, i))
			}
		}
		return findings
	}
}

// All runs every check over the same blocks and concatenates their findings.
// The checks do not see each other's results.
func All(checks ...CheckFunc) CheckFunc {
	return func(blocks []string) []string {
		findings := []string{}
		for _, c := range checks {
			findings = append(findings, c(blocks)...)
		}
		return findings
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
