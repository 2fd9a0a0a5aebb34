package expr

import (
	"fmt"
	"math"

	"comprehend/lang"
)

func eval(e Expr, env *lang.Env) (lang.Value, error) {
	vals, err := evalMulti(e, env)
	if err != nil {
		return lang.Nil, err
	}
	if len(vals) == 0 {
		return lang.Nil, nil
	}
	return vals[0], nil
}

// evalMulti evaluates e, preserving multiple results when e is a call.
// Every other node yields exactly one value.
func evalMulti(e Expr, env *lang.Env) ([]lang.Value, error) {
	switch n := e.(type) {
	case *CallExpr:
		return evalCall(n, env)
	default:
		v, err := evalSingle(e, env)
		if err != nil {
			return nil, err
		}
		return []lang.Value{v}, nil
	}
}

func evalSingle(e Expr, env *lang.Env) (lang.Value, error) {
	switch n := e.(type) {
	case *IdentExpr:
		val, _ := env.Lookup(n.Name)
		return val, nil
	case *IntExpr:
		return lang.IntValue(n.Value), nil
	case *RealExpr:
		return lang.RealValue(n.Value), nil
	case *StringExpr:
		return lang.StringValue(n.Value), nil
	case *BoolExpr:
		return lang.BoolValue(n.Value), nil
	case *NilExpr:
		return lang.Nil, nil
	case *ListExpr:
		elems := make([]lang.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			v, err := eval(el, env)
			if err != nil {
				return lang.Nil, err
			}
			elems = append(elems, v)
		}
		return lang.ListValue(elems), nil
	case *MapExpr:
		m := lang.MapValue()
		entries := m.Map().Entries
		for i, keyExpr := range n.Keys {
			key, err := eval(keyExpr, env)
			if err != nil {
				return lang.Nil, err
			}
			if !key.Scalar() {
				return lang.Nil, fmt.Errorf("%s value used as mapping key", key.Type)
			}
			val, err := eval(n.Values[i], env)
			if err != nil {
				return lang.Nil, err
			}
			entries[normalizeKey(key)] = val
		}
		return m, nil
	case *UnaryExpr:
		return evalUnary(n, env)
	case *BinaryExpr:
		return evalBinary(n, env)
	case *CallExpr:
		vals, err := evalCall(n, env)
		if err != nil {
			return lang.Nil, err
		}
		if len(vals) == 0 {
			return lang.Nil, nil
		}
		return vals[0], nil
	case *IndexExpr:
		return evalIndex(n, env)
	default:
		return lang.Nil, fmt.Errorf("unhandled expression node %T", e)
	}
}

func evalUnary(n *UnaryExpr, env *lang.Env) (lang.Value, error) {
	val, err := eval(n.Operand, env)
	if err != nil {
		return lang.Nil, err
	}
	switch n.Op {
	case tokenMinus:
		switch val.Type {
		case lang.TypeInt:
			return lang.IntValue(-val.Int()), nil
		case lang.TypeReal:
			return lang.RealValue(-val.Real()), nil
		default:
			return lang.Nil, fmt.Errorf("attempt to negate a %s value", val.Type)
		}
	case tokenBang:
		return lang.BoolValue(!val.Truthy()), nil
	default:
		return lang.Nil, fmt.Errorf("unhandled unary operator %s", n.Op)
	}
}

func evalBinary(n *BinaryExpr, env *lang.Env) (lang.Value, error) {
	// Short-circuit operators evaluate the right side lazily.
	switch n.Op {
	case tokenAndAnd:
		left, err := eval(n.Left, env)
		if err != nil {
			return lang.Nil, err
		}
		if !left.Truthy() {
			return left, nil
		}
		return eval(n.Right, env)
	case tokenOrOr:
		left, err := eval(n.Left, env)
		if err != nil {
			return lang.Nil, err
		}
		if left.Truthy() {
			return left, nil
		}
		return eval(n.Right, env)
	}

	left, err := eval(n.Left, env)
	if err != nil {
		return lang.Nil, err
	}
	right, err := eval(n.Right, env)
	if err != nil {
		return lang.Nil, err
	}

	switch n.Op {
	case tokenEqualEqual:
		return lang.BoolValue(lang.Equal(left, right)), nil
	case tokenBangEqual:
		return lang.BoolValue(!lang.Equal(left, right)), nil
	case tokenLess:
		less, err := lang.Less(left, right)
		if err != nil {
			return lang.Nil, err
		}
		return lang.BoolValue(less), nil
	case tokenLessEqual:
		greater, err := lang.Less(right, left)
		if err != nil {
			return lang.Nil, err
		}
		return lang.BoolValue(!greater), nil
	case tokenGreater:
		greater, err := lang.Less(right, left)
		if err != nil {
			return lang.Nil, err
		}
		return lang.BoolValue(greater), nil
	case tokenGreaterEqual:
		less, err := lang.Less(left, right)
		if err != nil {
			return lang.Nil, err
		}
		return lang.BoolValue(!less), nil
	}

	return evalArith(n.Op, left, right)
}

func evalArith(op TokenType, left, right lang.Value) (lang.Value, error) {
	if !left.IsNumber() || !right.IsNumber() {
		return lang.Nil, fmt.Errorf("attempt to perform arithmetic on %s and %s values",
			left.Type, right.Type)
	}
	bothInt := left.Type == lang.TypeInt && right.Type == lang.TypeInt
	switch op {
	case tokenPlus:
		if bothInt {
			return lang.IntValue(left.Int() + right.Int()), nil
		}
		return lang.RealValue(left.AsReal() + right.AsReal()), nil
	case tokenMinus:
		if bothInt {
			return lang.IntValue(left.Int() - right.Int()), nil
		}
		return lang.RealValue(left.AsReal() - right.AsReal()), nil
	case tokenStar:
		if bothInt {
			return lang.IntValue(left.Int() * right.Int()), nil
		}
		return lang.RealValue(left.AsReal() * right.AsReal()), nil
	case tokenSlash:
		if right.AsReal() == 0 {
			return lang.Nil, fmt.Errorf("division by zero")
		}
		return lang.RealValue(left.AsReal() / right.AsReal()), nil
	case tokenPercent:
		if bothInt {
			if right.Int() == 0 {
				return lang.Nil, fmt.Errorf("modulo by zero")
			}
			// Remainder takes the sign of the divisor.
			m := left.Int() % right.Int()
			if m != 0 && (m < 0) != (right.Int() < 0) {
				m += right.Int()
			}
			return lang.IntValue(m), nil
		}
		if right.AsReal() == 0 {
			return lang.Nil, fmt.Errorf("modulo by zero")
		}
		m := math.Mod(left.AsReal(), right.AsReal())
		if m != 0 && (m < 0) != (right.AsReal() < 0) {
			m += right.AsReal()
		}
		return lang.RealValue(m), nil
	case tokenCaret:
		return lang.RealValue(math.Pow(left.AsReal(), right.AsReal())), nil
	default:
		return lang.Nil, fmt.Errorf("unhandled binary operator %s", op)
	}
}

func evalCall(n *CallExpr, env *lang.Env) ([]lang.Value, error) {
	fun, err := eval(n.Fun, env)
	if err != nil {
		return nil, err
	}
	if fun.Type != lang.TypeFunc {
		return nil, fmt.Errorf("attempt to call a %s value", fun.Type)
	}
	args := make([]lang.Value, 0, len(n.Args))
	for i, argExpr := range n.Args {
		// The final argument spreads multiple results, as in f(g(x)).
		if i == len(n.Args)-1 {
			vals, err := evalMulti(argExpr, env)
			if err != nil {
				return nil, err
			}
			args = append(args, vals...)
			break
		}
		v, err := eval(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return fun.Func()(args)
}

func evalIndex(n *IndexExpr, env *lang.Env) (lang.Value, error) {
	seq, err := eval(n.Seq, env)
	if err != nil {
		return lang.Nil, err
	}
	index, err := eval(n.Index, env)
	if err != nil {
		return lang.Nil, err
	}
	switch seq.Type {
	case lang.TypeList:
		if index.Type != lang.TypeInt {
			return lang.Nil, fmt.Errorf("list index must be an int, got %s", index.Type)
		}
		elems := seq.List().Elems
		i := index.Int()
		if i < 1 || i > int64(len(elems)) {
			return lang.Nil, nil
		}
		return elems[i-1], nil
	case lang.TypeMap:
		if !index.Scalar() {
			return lang.Nil, fmt.Errorf("%s value used as mapping key", index.Type)
		}
		if val, ok := seq.Map().Entries[normalizeKey(index)]; ok {
			return val, nil
		}
		return lang.Nil, nil
	default:
		return lang.Nil, fmt.Errorf("attempt to index a %s value", seq.Type)
	}
}

// normalizeKey folds integral reals onto ints so that m[2] and m[2.0]
// address the same entry.
func normalizeKey(key lang.Value) lang.Value {
	if key.Type == lang.TypeReal {
		f := key.Real()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return lang.IntValue(int64(f))
		}
	}
	return key
}
