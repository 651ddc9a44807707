// Package explain implements the counterexample explainer: it attaches the
// explainer-added tags (kind:<primary>, explained) to a failing
// counterexample already tagged by a checker, and back-maps it to source
// spans using the assertion and module that produced it.
package explain

import (
	"github.com/itdojp/cspx/internal/cspx/check"
	"github.com/itdojp/cspx/internal/cspx/ir"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// primaryCauses lists the primary-cause tags in the order the
// explainer checks for them. A counterexample carries exactly one.
var primaryCauses = []string{"deadlock", "divergence", "nondeterminism", "refinement"}

// Explain adds explainer-added tags and source spans to ce, returning a new
// Counterexample (ce itself is left untouched).
//
// Span preference: a checker that could resolve the failing state back to
// the IR node that produced it attaches those spans itself (the innermost
// expression at the failure's proximate cause, plus the spec side for
// refinement); Explain keeps them verbatim. Only when the checker had
// nothing to offer (terms built without IR back-pointers, unannotated
// nodes) does it fall back to the assertion's process declaration spans.
// module may be nil, in which case the fallback stays empty rather than
// pointing at an imprecise location.
func Explain(ce *check.Counterexample, assertion ir.Assertion, module *ir.Module) *check.Counterexample {
	primary := primaryCause(ce.Tags)

	tags := append([]string(nil), ce.Tags...)
	if primary != "" {
		tags = append(tags, "kind:"+primary)
	}
	tags = append(tags, "explained")
	tags = dedup(tags)

	spans := dedupSpans(ce.SourceSpans)
	if len(spans) == 0 {
		spans = spansFor(assertion, module)
	}

	return &check.Counterexample{
		Kind:        ce.Kind,
		Events:      append([]lts.Label(nil), ce.Events...),
		Tags:        tags,
		SourceSpans: spans,
		IsMinimized: ce.IsMinimized,
	}
}

func dedupSpans(spans []check.SourceSpan) []check.SourceSpan {
	if len(spans) == 0 {
		return nil
	}
	seen := make(map[check.SourceSpan]bool, len(spans))
	out := make([]check.SourceSpan, 0, len(spans))
	for _, s := range spans {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func primaryCause(tags []string) string {
	present := make(map[string]bool, len(tags))
	for _, t := range tags {
		present[t] = true
	}
	for _, c := range primaryCauses {
		if present[c] {
			return c
		}
	}
	return ""
}

// spansFor is the declaration-level fallback: the assertion's target
// process span for a property, or both the spec and impl declaration
// spans, deduplicated, for a refinement.
func spansFor(assertion ir.Assertion, module *ir.Module) []check.SourceSpan {
	if module == nil {
		return nil
	}

	byName := make(map[string]ir.Span, len(module.Processes))
	for _, p := range module.Processes {
		byName[p.Name] = p.Span
	}

	var names []string
	switch assertion.Kind {
	case ir.AssertionProperty:
		names = []string{assertion.Target}
	case ir.AssertionRefinement:
		names = []string{assertion.Spec, assertion.Impl}
	}

	var out []check.SourceSpan
	seen := make(map[check.SourceSpan]bool)
	for _, n := range names {
		span, ok := byName[n]
		if !ok || span.IsZero() {
			continue
		}
		s := check.SourceSpan{
			Path:      span.Path,
			StartLine: span.StartLine,
			StartCol:  span.StartCol,
			EndLine:   span.EndLine,
			EndCol:    span.EndCol,
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func dedup(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
