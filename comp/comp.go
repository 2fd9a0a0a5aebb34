// Package comp translates comprehension expressions such as
//
//	"x^2 for x if x % 2 == 0"
//
// into callable procedures. Parse splits the text into its structural parts,
// Generate lays out the nested-loop program implementing the fold, and Build
// compiles the embedded sub-expressions and binds the result to an
// environment. Scalar folds (sum, min, max) accumulate directly and never
// materialize an intermediate collection.
package comp

import (
	"fmt"
	"sort"

	"comprehend/lang"
)

// ReservedPrefix marks identifiers owned by generated temporaries. Variables
// bound by a for clause must not start with it.
const ReservedPrefix = "__"

// ClauseKind distinguishes the three forms a for clause can take.
type ClauseKind int

const (
	// ClauseArray iterates an implicit input list by index.
	ClauseArray ClauseKind = iota
	// ClauseNumeric iterates a start,stop[,step] range.
	ClauseNumeric
	// ClauseIterator drives an iterator function triple.
	ClauseIterator
)

func (k ClauseKind) String() string {
	switch k {
	case ClauseArray:
		return "array"
	case ClauseNumeric:
		return "numeric"
	case ClauseIterator:
		return "iterator"
	default:
		return "unknown"
	}
}

// Clause is one for binding, in source order.
type Clause struct {
	Vars       []string
	Kind       ClauseKind
	RangeExprs []string // nil for array clauses
}

// ParseResult is the structural decomposition of a comprehension. It is
// immutable once produced.
type ParseResult struct {
	Out        []string // output expressions, in source order
	ForClauses []Clause // first clause is the outermost loop
	Predicates []string // if guards, in source order
	OpName     string   // fold operator, "list" by default
	MaxParam   int      // highest _N placeholder referenced, 0 if none
}

type opKind int

const (
	opList opKind = iota
	opTable
	opSum
	opMin
	opMax
)

// operator describes one fold strategy: its accumulator initializer and the
// statement folding one output value into the accumulator, both as rendered
// source text, plus the semantics Build attaches to them.
type operator struct {
	name     string
	kind     opKind
	initText string
	minOut   int
	// accumulate renders the innermost statement with the out expressions
	// substituted at the insertion points.
	accumulate func(out []string) string
}

const accName = ReservedPrefix + "r"

var operators = map[string]*operator{
	"list": {
		name:     "list",
		kind:     opList,
		initText: "{}",
		minOut:   1,
		accumulate: func(out []string) string {
			return fmt.Sprintf("%s[#%s+1] = %s", accName, accName, out[0])
		},
	},
	"table": {
		name:     "table",
		kind:     opTable,
		initText: "{}",
		minOut:   2,
		accumulate: func(out []string) string {
			return fmt.Sprintf("%s[%s] = %s", accName, out[0], out[1])
		},
	},
	"sum": {
		name:     "sum",
		kind:     opSum,
		initText: "0",
		minOut:   1,
		accumulate: func(out []string) string {
			return fmt.Sprintf("%s = %s + (%s)", accName, accName, out[0])
		},
	},
	"min": {
		name:     "min",
		kind:     opMin,
		initText: "nil",
		minOut:   1,
		accumulate: func(out []string) string {
			return fmt.Sprintf("local %sv = %s; if %s == nil or %sv < %s then %s = %sv end",
				ReservedPrefix, out[0], accName, ReservedPrefix, accName, accName, ReservedPrefix)
		},
	},
	"max": {
		name:     "max",
		kind:     opMax,
		initText: "nil",
		minOut:   1,
		accumulate: func(out []string) string {
			return fmt.Sprintf("local %sv = %s; if %s == nil or %sv > %s then %s = %sv end",
				ReservedPrefix, out[0], accName, ReservedPrefix, accName, accName, ReservedPrefix)
		},
	},
}

// Operators returns the registered fold operator names, sorted.
func Operators() []string {
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// paramNames lists the callable's positional parameters: placeholder names
// _1.._N first, then one implicit input name per array clause in clause
// order.
func paramNames(res *ParseResult) []string {
	var names []string
	for i := 1; i <= res.MaxParam; i++ {
		names = append(names, fmt.Sprintf("_%d", i))
	}
	for i, cl := range res.ForClauses {
		if cl.Kind == ClauseArray {
			names = append(names, arrayInputName(i))
		}
	}
	return names
}

// arrayInputName is the deterministic parameter name for the implicit input
// of the array clause at the given position.
func arrayInputName(clauseIndex int) string {
	return fmt.Sprintf("%sin%d", ReservedPrefix, clauseIndex+1)
}

// Compile runs the full pipeline on one comprehension string: parse,
// generate, and build against env.
func Compile(src string, env *lang.Env) (*Callable, error) {
	res, err := Parse(src)
	if err != nil {
		return nil, err
	}
	prog, err := Generate(res)
	if err != nil {
		return nil, err
	}
	return Build(prog, env)
}
