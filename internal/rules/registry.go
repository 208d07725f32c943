package rules

import (
	"fmt"
	"slices"

	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// Rule is one named check bound to the section kind it inspects.
type Rule struct {
	ID          string
	Name        string
	Kind        fortiparse.SectionKind
	Severity    Severity
	Remediation string
	Check       CheckFunc
}

// Result is the outcome of one rule over one document.
type Result struct {
	ID       string                 `json:"id" yaml:"id"`
	Name     string                 `json:"name" yaml:"name"`
	Kind     fortiparse.SectionKind `json:"kind" yaml:"kind"`
	Severity Severity               `json:"severity" yaml:"severity"`
	Findings []string               `json:"findings" yaml:"findings"`
}

// Registry is an ordered, read-only set of rules for one dialect.
type Registry struct {
	dialect fortiparse.Dialect
	rules   []Rule
	byID    map[string]int
}

// NewRegistry builds a registry. Rule IDs must be unique and every rule needs
// a check function.
func NewRegistry(d fortiparse.Dialect, rules ...Rule) (*Registry, error) {
	r := &Registry{
		dialect: d,
		rules:   make([]Rule, 0, len(rules)),
		byID:    make(map[string]int, len(rules)),
	}
	for _, rule := range rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("rule %q has no ID", rule.Name)
		}
		if rule.Check == nil {
			return nil, fmt.Errorf("rule %s has no check", rule.ID)
		}
		if _, dup := r.byID[rule.ID]; dup {
			return nil, fmt.Errorf("duplicate rule ID %s", rule.ID)
		}
		r.byID[rule.ID] = len(r.rules)
		r.rules = append(r.rules, rule)
	}
	return r, nil
}

// Dialect returns the dialect the registry was built for.
func (r *Registry) Dialect() fortiparse.Dialect {
	return r.dialect
}

// Rules returns the rules in registration order.
func (r *Registry) Rules() []Rule {
	return slices.Clone(r.rules)
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Lookup finds a rule by ID.
func (r *Registry) Lookup(id string) (Rule, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Rule{}, false
	}
	return r.rules[i], true
}

// Evaluate runs every rule against the blocks of its kind and returns the
// results in registration order.
func (r *Registry) Evaluate(doc *fortiparse.Document) []Result {
	results := make([]Result, 0, len(r.rules))
	for _, rule := range r.rules {
		findings := rule.Check(doc.Blocks(rule.Kind))
		if findings == nil {
			findings = []string{}
		}
		results = append(results, Result{
			ID:       rule.ID,
			Name:     rule.Name,
			Kind:     rule.Kind,
			Severity: rule.Severity,
			Findings: findings,
		})
	}
	return results
}
