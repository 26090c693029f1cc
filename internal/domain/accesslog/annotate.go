package accesslog

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule attaches Details to entries for which Expr evaluates to true.
// Expressions see two variables: method (string) and response (the
// decoded JSON response body).
type Rule struct {
	Expr    string `mapstructure:"expr"`
	Details string `mapstructure:"details"`
}

// DefaultRules annotate raw material status toggles.
var DefaultRules = []Rule{
	{
		Expr:    `method == "PATCH" && has(response.rawMaterial) && response.rawMaterial.status == "active"`,
		Details: "Stoğa girişi yapılmıştır",
	},
	{
		Expr:    `method == "PATCH" && has(response.rawMaterial) && response.rawMaterial.status == "passive"`,
		Details: "Stoktan çıkışı yapılmıştır",
	},
}

type compiledRule struct {
	prg     cel.Program
	details string
}

// Annotator evaluates compiled rules; the first match wins.
type Annotator struct {
	rules []compiledRule
}

// NewAnnotator compiles rules. Every expression must yield a bool.
func NewAnnotator(rules []Rule) (*Annotator, error) {
	env, err := cel.NewEnv(
		cel.Variable("method", cel.StringType),
		cel.Variable("response", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	a := &Annotator{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		ast, iss := env.Compile(r.Expr)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("compile %q: %w", r.Expr, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule %q must return bool, got %v", r.Expr, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("program %q: %w", r.Expr, err)
		}
		a.rules = append(a.rules, compiledRule{prg: prg, details: r.Details})
	}
	return a, nil
}

// Annotate returns the details of the first matching rule or "".
// Evaluation errors count as no match.
func (a *Annotator) Annotate(method string, response any) string {
	if a == nil {
		return ""
	}
	vars := map[string]any{"method": method, "response": response}
	for _, r := range a.rules {
		out, _, err := r.prg.Eval(vars)
		if err != nil {
			continue
		}
		if b, ok := out.Value().(bool); ok && b {
			return r.details
		}
	}
	return ""
}
