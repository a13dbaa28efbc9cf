package patch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRule is returned when a rule cannot be compiled.
var ErrInvalidRule = errors.New("invalid patch rule")

// Rule is one (anchor pattern, replacement) pair.
//
// Replacement is expanded with regexp template syntax, so ${1} refers to the
// first capture group. A literal "$" must be written as "$$".
type Rule struct {
	// Name identifies the rule in logs and skip messages.
	Name string

	// Pattern is the compiled anchor pattern.
	Pattern *regexp.Regexp

	// Replacement is the template substituted for each match.
	Replacement string

	// Once limits the rule to the leftmost match.
	Once bool

	// Required makes a missing anchor skip the whole file.
	Required bool
}

// MustRule compiles pattern into a Rule and panics on error. It is meant for
// the built-in profiles, whose patterns are constants.
func MustRule(name, pattern, replacement string) Rule {
	r, err := NewRule(name, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

// NewRule compiles pattern into a Rule.
func NewRule(name, pattern, replacement string) (Rule, error) {
	if strings.TrimSpace(name) == "" {
		return Rule{}, fmt.Errorf("%w: empty name", ErrInvalidRule)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("%w %q: %w", ErrInvalidRule, name, err)
	}
	return Rule{Name: name, Pattern: re, Replacement: replacement}, nil
}

// WithOnce returns a copy of r that replaces only the first match.
func (r Rule) WithOnce() Rule {
	r.Once = true
	return r
}

// WithRequired returns a copy of r whose missing anchor skips the file.
func (r Rule) WithRequired() Rule {
	r.Required = true
	return r
}

// Apply runs the rule over content. It reports whether the anchor matched;
// when it did not, content is returned unchanged.
func (r Rule) Apply(content string) (string, bool) {
	if r.Once {
		loc := r.Pattern.FindStringSubmatchIndex(content)
		if loc == nil {
			return content, false
		}
		var b strings.Builder
		b.Grow(len(content) + len(r.Replacement))
		b.WriteString(content[:loc[0]])
		b.Write(r.Pattern.ExpandString(nil, r.Replacement, content, loc))
		b.WriteString(content[loc[1]:])
		return b.String(), true
	}

	if !r.Pattern.MatchString(content) {
		return content, false
	}
	return r.Pattern.ReplaceAllString(content, r.Replacement), true
}

// RuleSet is an ordered list of rules plus the already-patched marker.
type RuleSet struct {
	// Name is the profile name the set was built for.
	Name string

	// Marker is the substring that identifies patched content. An empty
	// marker means content is never considered patched.
	Marker string

	// Rules are applied in order, each to the previous rule's output.
	Rules []Rule
}

// Patched reports whether content already carries the marker.
func (rs RuleSet) Patched(content string) bool {
	return rs.Marker != "" && strings.Contains(content, rs.Marker)
}

// Transform is the result of applying a RuleSet to one file's content.
type Transform struct {
	// Content is the transformed text.
	Content string

	// Matched lists the names of rules whose anchor was found.
	Matched []string

	// MissingRequired is the name of the first Required rule whose anchor
	// was absent. When set, Content must not be written.
	MissingRequired string
}

// Apply runs every rule in order over content. It stops at the first
// Required rule whose anchor is missing.
func (rs RuleSet) Apply(content string) Transform {
	out := Transform{Content: content}
	for _, rule := range rs.Rules {
		next, matched := rule.Apply(out.Content)
		if !matched {
			if rule.Required {
				out.MissingRequired = rule.Name
				return out
			}
			continue
		}
		out.Content = next
		out.Matched = append(out.Matched, rule.Name)
	}
	return out
}

// RuleNames returns the rule names in application order.
func (rs RuleSet) RuleNames() []string {
	names := make([]string, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		names = append(names, r.Name)
	}
	return names
}
