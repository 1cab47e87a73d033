// Package conditional implements Component A: stripping and inlining
// `when`-branches embedded at arbitrary depth in a document, evaluating
// each condition against a parameter environment via the injected
// condition.Evaluator.
package conditional

import (
	"fmt"
	"regexp"

	"github.com/pkgspec/resolver/internal/condition"
	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/pkgerrors"
)

// whenRe matches a mapping key of the form "when <expr>".
var whenRe = regexp.MustCompile(`^when (.*)$`)

// Rewrite eliminates every `when`-construct in n, evaluating each
// condition against env via eval. It is a pure transform: n is never
// mutated, a new tree is returned.
func Rewrite(n *docval.Node, env map[string]any, eval condition.Evaluator) (*docval.Node, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case docval.KindMap:
		return rewriteMap(n, env, eval)
	case docval.KindSeq:
		return rewriteSeq(n, env, eval)
	default:
		return n, nil
	}
}

// rewriteMap implements the dict-keyed-when form: a mapping entry whose
// key matches `^when (.*)$` splices its
// (rewritten) value into the result when the condition holds.
func rewriteMap(n *docval.Node, env map[string]any, eval condition.Evaluator) (*docval.Node, error) {
	result := docval.NewMapEmpty()

	for _, key := range n.Map.Keys() {
		value, _ := n.Map.Get(key)

		m := whenRe.FindStringSubmatch(key)
		if m == nil {
			rewritten, err := Rewrite(value, env, eval)
			if err != nil {
				return nil, err
			}
			result.Set(key, rewritten)
			continue
		}

		ok, err := eval.Evaluate(m[1], env)
		if err != nil {
			return nil, pkgerrors.NewAt(pkgerrors.ErrMalformedWhen, value.Mark, "evaluating %q: %v", m[1], err)
		}
		if !ok {
			continue
		}
		if value.Kind != docval.KindMap {
			return nil, pkgerrors.NewAt(pkgerrors.ErrMalformedWhen, value.Mark, "'when' dict entry must contain another dict")
		}
		toMerge, err := rewriteMap(value, env, eval)
		if err != nil {
			return nil, err
		}
		for _, k := range toMerge.Map.Keys() {
			if result.Has(k) {
				return nil, pkgerrors.NewAt(pkgerrors.ErrConditionalConflict, value.Mark,
					"key %q conflicts with another key of the same name in another when-clause", k)
			}
			v, _ := toMerge.Map.Get(k)
			result.Set(k, v)
		}
	}

	return &docval.Node{Kind: docval.KindMap, Mark: n.Mark, Map: result}, nil
}

// rewriteSeq implements the two sequence-item forms: a one-entry
// "when <expr>" mapping whose value is a sequence to
// splice in, or a sibling-key mapping carrying a literal "when" key.
func rewriteSeq(n *docval.Node, env map[string]any, eval condition.Evaluator) (*docval.Node, error) {
	result := make([]*docval.Node, 0, len(n.Seq))

	for _, item := range n.Seq {
		if item.Kind == docval.KindMap && item.Map.Len() == 1 {
			key := item.Map.Keys()[0]
			value, _ := item.Map.Get(key)
			if m := whenRe.FindStringSubmatch(key); m != nil {
				ok, err := eval.Evaluate(m[1], env)
				if err != nil {
					return nil, pkgerrors.NewAt(pkgerrors.ErrMalformedWhen, value.Mark, "evaluating %q: %v", m[1], err)
				}
				if !ok {
					continue
				}
				if value.Kind != docval.KindSeq {
					return nil, pkgerrors.NewAt(pkgerrors.ErrMalformedWhen, value.Mark, "'when' clause within list must contain another list")
				}
				toExtend, err := rewriteSeq(value, env, eval)
				if err != nil {
					return nil, err
				}
				result = append(result, toExtend.Seq...)
				continue
			}
		}

		if item.Kind == docval.KindMap && item.Map.Has("when") {
			whenValue, _ := item.Map.Get("when")
			exprStr, ok := whenValue.AsString()
			if !ok {
				return nil, pkgerrors.NewAt(pkgerrors.ErrMalformedWhen, whenValue.Mark, "sibling 'when' value must be a string expression")
			}
			cond, err := eval.Evaluate(exprStr, env)
			if err != nil {
				return nil, pkgerrors.NewAt(pkgerrors.ErrMalformedWhen, whenValue.Mark, "evaluating %q: %v", exprStr, err)
			}
			if !cond {
				continue
			}
			withoutWhen := item.Map.Clone()
			withoutWhen.Delete("when")
			rewritten, err := rewriteMap(&docval.Node{Kind: docval.KindMap, Mark: item.Mark, Map: withoutWhen}, env, eval)
			if err != nil {
				return nil, err
			}
			result = append(result, rewritten)
			continue
		}

		rewritten, err := Rewrite(item, env, eval)
		if err != nil {
			return nil, err
		}
		result = append(result, rewritten)
	}

	return &docval.Node{Kind: docval.KindSeq, Mark: n.Mark, Seq: result}, nil
}

// RewriteYAML is a convenience entry point used by the CLI and tests:
// parse source, rewrite, re-encode.
func RewriteYAML(source []byte, env map[string]any, eval condition.Evaluator) ([]byte, error) {
	n, err := docval.ParseYAML(source)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	rewritten, err := Rewrite(n, env, eval)
	if err != nil {
		return nil, err
	}
	return docval.Marshal(rewritten)
}
