package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
)

var constants = map[string]any{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
	"phi": math.Phi,
}

var calcOptions = buildCalcOptions()

// Builtins kept after the rest of the evaluator's library is switched off.
var calcBuiltins = []string{"abs", "floor", "ceil", "round", "min", "max"}

// floatLiterals rewrites integer literals to floats so arithmetic never runs
// in int and silently wraps on overflow.
type floatLiterals struct{}

func (floatLiterals) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IntegerNode); ok {
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	}
}

func buildCalcOptions() []expr.Option {
	unary := map[string]func(float64) float64{
		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"exp":   math.Exp,
		"ln":    math.Log,
		"log":   math.Log10,
		"log2":  math.Log2,
		"log10": math.Log10,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,
		"signum": func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			}
			return x
		},
	}

	opts := []expr.Option{
		expr.Env(constants),
		expr.Patch(floatLiterals{}),
		expr.DisableAllBuiltins(),
	}
	for _, name := range calcBuiltins {
		opts = append(opts, expr.EnableBuiltin(name))
	}
	for name, fn := range unary {
		name, fn := name, fn
		opts = append(opts, expr.Function(name, func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("%s: want 1 argument, got %d", name, len(params))
			}
			x, ok := toFloat(params[0])
			if !ok {
				return nil, fmt.Errorf("%s: argument is not a number", name)
			}
			return fn(x), nil
		}))
	}
	opts = append(opts, expr.Function("pow", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("pow: want 2 arguments, got %d", len(params))
		}
		x, okX := toFloat(params[0])
		y, okY := toFloat(params[1])
		if !okX || !okY {
			return nil, fmt.Errorf("pow: arguments are not numbers")
		}
		return math.Pow(x, y), nil
	}))
	return opts
}

// Eval evaluates an arithmetic expression. It reports false for anything
// that does not parse, fails to evaluate, or yields a non-finite or
// non-numeric value.
func Eval(input string) (float64, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}

	program, err := expr.Compile(input, calcOptions...)
	if err != nil {
		return 0, false
	}
	out, err := expr.Run(program, constants)
	if err != nil {
		return 0, false
	}

	v, ok := toFloat(out)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
