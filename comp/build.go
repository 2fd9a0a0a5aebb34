package comp

import (
	"fmt"

	"comprehend/expr"
	"comprehend/lang"
)

// Callable is a built comprehension procedure. Invocations share only the
// environment captured at build time; loop variables and accumulators live
// in invocation-local frames, so a Callable may be invoked concurrently.
type Callable struct {
	prog   *Program
	env    *lang.Env
	params []string
	run    stepFunc
}

// stepFunc executes one layer of the generated procedure: a loop, a
// predicate guard, or the innermost accumulate statement.
type stepFunc func(env *lang.Env, st *foldState) error

// Build compiles the program's embedded sub-expressions and composes them
// into a callable bound to env. Expression compilation failures surface as
// *CompileError carrying the generated source listing.
//
// Composition wraps innermost-first: the accumulate statement, then
// predicate guards in reverse source order, then loops in reverse clause
// order, which leaves the first clause outermost.
func Build(prog *Program, env *lang.Env) (*Callable, error) {
	res := prog.Res

	step, err := accumStep(prog.op, res.Out)
	if err != nil {
		return nil, &CompileError{Err: err, Source: prog.Source}
	}
	for i := len(res.Predicates) - 1; i >= 0; i-- {
		step, err = guardStep(res.Predicates[i], step)
		if err != nil {
			return nil, &CompileError{Err: err, Source: prog.Source}
		}
	}
	for i := len(res.ForClauses) - 1; i >= 0; i-- {
		cl := res.ForClauses[i]
		switch cl.Kind {
		case ClauseArray:
			step = arrayLoop(i, cl, step)
		case ClauseNumeric:
			step, err = numericLoop(cl, step)
		case ClauseIterator:
			step, err = iteratorLoop(cl, step)
		}
		if err != nil {
			return nil, &CompileError{Err: err, Source: prog.Source}
		}
	}

	return &Callable{
		prog:   prog,
		env:    env,
		params: paramNames(res),
		run:    step,
	}, nil
}

// Call invokes the procedure. Positional arguments bind placeholder values
// _1.._N first, then one list per array clause in clause order; missing
// trailing placeholders bind nil, extra arguments are ignored. Failures in
// user sub-expressions propagate unmodified.
func (c *Callable) Call(args ...lang.Value) (lang.Value, error) {
	frame := lang.NewEnv(c.env)
	for i, name := range c.params {
		v := lang.Nil
		if i < len(args) {
			v = args[i]
		}
		frame.Define(name, v)
	}
	st := newFoldState(c.prog.op)
	if err := c.run(frame, st); err != nil {
		return lang.Nil, err
	}
	return st.result(), nil
}

// Source returns the generated procedure listing.
func (c *Callable) Source() string {
	return c.prog.Source
}

// foldState is the per-invocation accumulator.
type foldState struct {
	op *foldOp

	list    []lang.Value
	mapVal  lang.Value
	sumInt  int64
	sumReal float64
	isReal  bool
	best    lang.Value
	hasBest bool
}

// foldOp is the subset of operator state the fold needs at run time.
type foldOp struct {
	kind opKind
}

func newFoldState(op *operator) *foldState {
	st := &foldState{op: &foldOp{kind: op.kind}}
	if op.kind == opTable {
		st.mapVal = lang.MapValue()
	}
	return st
}

func (st *foldState) result() lang.Value {
	switch st.op.kind {
	case opList:
		if st.list == nil {
			st.list = []lang.Value{}
		}
		return lang.ListValue(st.list)
	case opTable:
		return st.mapVal
	case opSum:
		if st.isReal {
			return lang.RealValue(st.sumReal)
		}
		return lang.IntValue(st.sumInt)
	default: // opMin, opMax
		if !st.hasBest {
			return lang.Nil
		}
		return st.best
	}
}

func accumStep(op *operator, out []string) (stepFunc, error) {
	first, err := expr.Compile(out[0])
	if err != nil {
		return nil, err
	}
	switch op.kind {
	case opList:
		return func(env *lang.Env, st *foldState) error {
			v, err := first.Eval(env)
			if err != nil {
				return err
			}
			st.list = append(st.list, v)
			return nil
		}, nil
	case opTable:
		second, err := expr.Compile(out[1])
		if err != nil {
			return nil, err
		}
		return func(env *lang.Env, st *foldState) error {
			key, err := first.Eval(env)
			if err != nil {
				return err
			}
			if !key.Scalar() {
				return fmt.Errorf("%s value used as mapping key", key.Type)
			}
			val, err := second.Eval(env)
			if err != nil {
				return err
			}
			st.mapVal.Map().Entries[expr.NormalizeKey(key)] = val
			return nil
		}, nil
	case opSum:
		return func(env *lang.Env, st *foldState) error {
			v, err := first.Eval(env)
			if err != nil {
				return err
			}
			switch v.Type {
			case lang.TypeInt:
				if st.isReal {
					st.sumReal += float64(v.Int())
				} else {
					st.sumInt += v.Int()
				}
			case lang.TypeReal:
				if !st.isReal {
					st.sumReal = float64(st.sumInt)
					st.isReal = true
				}
				st.sumReal += v.Real()
			default:
				return fmt.Errorf("attempt to sum a %s value", v.Type)
			}
			return nil
		}, nil
	default: // opMin, opMax
		wantMax := op.kind == opMax
		return func(env *lang.Env, st *foldState) error {
			v, err := first.Eval(env)
			if err != nil {
				return err
			}
			if v.IsNil() {
				return fmt.Errorf("attempt to compare a nil value")
			}
			if !st.hasBest {
				st.best, st.hasBest = v, true
				return nil
			}
			var better bool
			if wantMax {
				better, err = lang.Less(st.best, v)
			} else {
				better, err = lang.Less(v, st.best)
			}
			if err != nil {
				return err
			}
			if better {
				st.best = v
			}
			return nil
		}, nil
	}
}

func guardStep(pred string, inner stepFunc) (stepFunc, error) {
	guard, err := expr.Compile(pred)
	if err != nil {
		return nil, err
	}
	return func(env *lang.Env, st *foldState) error {
		v, err := guard.Eval(env)
		if err != nil {
			return err
		}
		if v.Truthy() {
			return inner(env, st)
		}
		return nil
	}, nil
}

func arrayLoop(clauseIndex int, cl Clause, inner stepFunc) stepFunc {
	input := arrayInputName(clauseIndex)
	varName := cl.Vars[0]
	return func(env *lang.Env, st *foldState) error {
		in, _ := env.Lookup(input)
		if in.Type != lang.TypeList {
			return fmt.Errorf("input for clause %d (for %s) must be a list, got %s",
				clauseIndex+1, varName, in.Type)
		}
		frame := lang.NewEnv(env)
		for _, el := range in.List().Elems {
			frame.Define(varName, el)
			if err := inner(frame, st); err != nil {
				return err
			}
		}
		return nil
	}
}

func numericLoop(cl Clause, inner stepFunc) (stepFunc, error) {
	bounds := make([]*expr.Compiled, len(cl.RangeExprs))
	for i, text := range cl.RangeExprs {
		c, err := expr.Compile(text)
		if err != nil {
			return nil, err
		}
		bounds[i] = c
	}
	varName := cl.Vars[0]
	return func(env *lang.Env, st *foldState) error {
		vals := make([]lang.Value, len(bounds))
		for i, c := range bounds {
			v, err := c.Eval(env)
			if err != nil {
				return err
			}
			if !v.IsNumber() {
				return fmt.Errorf("numeric range bound for %s is a %s value", varName, v.Type)
			}
			vals[i] = v
		}
		start, stop := vals[0], vals[1]
		step := lang.IntValue(1)
		if len(vals) == 3 {
			step = vals[2]
		}
		frame := lang.NewEnv(env)
		if start.Type == lang.TypeInt && stop.Type == lang.TypeInt && step.Type == lang.TypeInt {
			inc := step.Int()
			if inc == 0 {
				return fmt.Errorf("numeric range step for %s is zero", varName)
			}
			for i := start.Int(); (inc > 0 && i <= stop.Int()) || (inc < 0 && i >= stop.Int()); i += inc {
				frame.Define(varName, lang.IntValue(i))
				if err := inner(frame, st); err != nil {
					return err
				}
			}
			return nil
		}
		inc := step.AsReal()
		if inc == 0 {
			return fmt.Errorf("numeric range step for %s is zero", varName)
		}
		for f := start.AsReal(); (inc > 0 && f <= stop.AsReal()) || (inc < 0 && f >= stop.AsReal()); f += inc {
			frame.Define(varName, lang.RealValue(f))
			if err := inner(frame, st); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

// iteratorLoop drives the generic iteration protocol: the range expressions
// evaluate (multi-valued in the last position) to an iterator function, an
// invariant state and an initial control value. Each pass calls
// f(state, control); iteration ends when the first result is nil.
func iteratorLoop(cl Clause, inner stepFunc) (stepFunc, error) {
	ranges := make([]*expr.Compiled, len(cl.RangeExprs))
	for i, text := range cl.RangeExprs {
		c, err := expr.Compile(text)
		if err != nil {
			return nil, err
		}
		ranges[i] = c
	}
	return func(env *lang.Env, st *foldState) error {
		var vals []lang.Value
		for i, c := range ranges {
			if i == len(ranges)-1 {
				multi, err := c.EvalMulti(env)
				if err != nil {
					return err
				}
				vals = append(vals, multi...)
				break
			}
			v, err := c.Eval(env)
			if err != nil {
				return err
			}
			vals = append(vals, v)
		}
		iter := lang.Nil
		state := lang.Nil
		control := lang.Nil
		if len(vals) > 0 {
			iter = vals[0]
		}
		if len(vals) > 1 {
			state = vals[1]
		}
		if len(vals) > 2 {
			control = vals[2]
		}
		if iter.Type != lang.TypeFunc {
			return fmt.Errorf("attempt to iterate a %s value", iter.Type)
		}
		frame := lang.NewEnv(env)
		for {
			rets, err := iter.Func()([]lang.Value{state, control})
			if err != nil {
				return err
			}
			if len(rets) == 0 || rets[0].IsNil() {
				return nil
			}
			control = rets[0]
			for i, name := range cl.Vars {
				v := lang.Nil
				if i < len(rets) {
					v = rets[i]
				}
				frame.Define(name, v)
			}
			if err := inner(frame, st); err != nil {
				return err
			}
		}
	}, nil
}
