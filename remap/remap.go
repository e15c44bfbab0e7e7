// Package remap implements the remapping engine: an ordered list of
// context:prefix=target rules, and the longest-prefix, last-declared-
// wins selection over them.
package remap

import (
	"fmt"
	"strings"

	"github.com/ethsol/svfs/vfs"
)

// Rule is one parsed remapping entry.
type Rule struct {
	Context string
	Prefix  string
	Target  string
	Ordinal int
}

// InvalidRemappingError is returned by Parse for a malformed rule.
type InvalidRemappingError struct {
	Raw    string
	Reason string
}

func (e *InvalidRemappingError) Error() string {
	return fmt.Sprintf("invalid remapping %q: %s", e.Raw, e.Reason)
}

// Parse decodes a "[context:]prefix=[target]" string into a Rule with
// the given ordinal (insertion index). The first "=" ends the left-hand
// side and the first ":" in it delimits context (no escape syntax is
// recognized for either); a leading ":" denotes an explicitly
// empty context, which is how a scheme-like prefix such as
// "https://..." avoids being mistaken for a context.
func Parse(raw string, ordinal int) (Rule, error) {
	eq := strings.IndexByte(raw, '=')
	if eq < 0 {
		return Rule{}, &InvalidRemappingError{Raw: raw, Reason: "missing '='"}
	}

	lhs, target := raw[:eq], raw[eq+1:]

	var context, prefix string
	if colon := strings.IndexByte(lhs, ':'); colon >= 0 {
		context, prefix = lhs[:colon], lhs[colon+1:]
	} else {
		prefix = lhs
	}

	if prefix == "" {
		return Rule{}, &InvalidRemappingError{Raw: raw, Reason: "empty prefix"}
	}
	if target == "" {
		target = prefix
	}

	return Rule{Context: context, Prefix: prefix, Target: target, Ordinal: ordinal}, nil
}

// Engine holds an ordered list of rules for one compiler session. It is
// read-only after setup except for Add during configuration.
type Engine struct {
	rules []Rule
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{}
}

// Add appends a rule, preserving the caller's ordinal.
func (e *Engine) Add(r Rule) {
	e.rules = append(e.rules, r)
}

// Rules returns the configured rule set in declaration order, exactly
// as configured — compiled-output metadata depends on exposing this
// unmodified.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Select picks the rule that applies to candidate s when importing from
// importer i: i must start with rule.Context and s must start with
// rule.Prefix. Among matches, the longest Prefix wins; ties break by
// highest Ordinal (last declared).
func (e *Engine) Select(importer, s vfs.SUN) (Rule, bool) {
	i, cand := string(importer), string(s)

	var best Rule
	found := false
	for _, r := range e.rules {
		if !strings.HasPrefix(i, r.Context) {
			continue
		}
		if !strings.HasPrefix(cand, r.Prefix) {
			continue
		}
		if !found {
			best, found = r, true
			continue
		}
		if len(r.Prefix) > len(best.Prefix) {
			best = r
		} else if len(r.Prefix) == len(best.Prefix) && r.Ordinal > best.Ordinal {
			best = r
		}
	}
	return best, found
}

// Apply runs Select and, if a rule matched, rewrites s by replacing its
// leading Prefix with Target verbatim — no separator is inserted, and
// the result is never normalized or fed back into Select. Remapping
// never cascades.
func (e *Engine) Apply(importer, s vfs.SUN) vfs.SUN {
	r, ok := e.Select(importer, s)
	if !ok {
		return s
	}
	return vfs.SUN(r.Target + string(s)[len(r.Prefix):])
}
