package condition

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"
)

// RegoEvaluator evaluates `when`-expressions as the body of a Rego rule.
// Every parameter name referenced by the expression is bound to a
// same-named Rego rule reading from the input document, so conditions
// reference bare parameter names: `when linux`, `when linux and not
// static`. The `and` connective is translated to Rego conjunction; a
// parameter absent from the environment leaves its rule undefined, which
// makes the condition false rather than an error.
type RegoEvaluator struct{}

// NewRegoEvaluator constructs the default condition evaluator.
func NewRegoEvaluator() *RegoEvaluator {
	return &RegoEvaluator{}
}

var identRe = regexp.MustCompile(`\b[a-zA-Z_][a-zA-Z0-9_]*\b`)

var andRe = regexp.MustCompile(`\band\b`)

// regoReserved lists the identifiers that must not be rebound as
// parameter rules when they appear in an expression.
var regoReserved = map[string]bool{
	"and": true, "as": true, "contains": true, "data": true,
	"default": true, "else": true, "every": true, "false": true,
	"if": true, "import": true, "in": true, "input": true,
	"not": true, "null": true, "or": true, "package": true,
	"some": true, "true": true, "with": true, "__when_result": true,
}

// Evaluate compiles expr as a one-off Rego module and evaluates it
// against env. Each call recompiles the module; conditions are small and
// this runs synchronously on the single-threaded resolution path, so the
// cost is negligible relative to YAML parsing and disk I/O elsewhere in
// the pipeline.
func (e *RegoEvaluator) Evaluate(expr string, env map[string]any) (bool, error) {
	names := map[string]bool{}
	for _, ident := range identRe.FindAllString(expr, -1) {
		if !regoReserved[ident] {
			names[ident] = true
		}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var bindings strings.Builder
	for _, name := range sorted {
		fmt.Fprintf(&bindings, "%s := input[%q]\n", name, name)
	}

	body := andRe.ReplaceAllString(expr, ";")

	module := fmt.Sprintf(`package pkgspec.when

%s
default __when_result := false

__when_result if {
	%s
}
`, bindings.String(), body)

	r := rego.New(
		rego.Query("data.pkgspec.when.__when_result"),
		rego.Module("when.rego", module),
		rego.Input(env),
	)

	rs, err := r.Eval(context.Background())
	if err != nil {
		return false, fmt.Errorf("evaluating condition %q: %w", expr, err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("condition %q produced no result", expr)
	}

	result, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not evaluate to a boolean", expr)
	}
	return result, nil
}
