// Package runtime seeds evaluation environments with the built-in functions
// available to comprehension expressions and to the command-line front end.
package runtime

import (
	"fmt"
	"sort"

	"comprehend/comp"
	"comprehend/lang"
)

// New creates a root environment with the standard builtins installed,
// including a comp() builtin backed by a cache scoped to that environment.
func New() *lang.Env {
	env := lang.NewEnv(nil)
	cache := comp.NewCache(env)
	env.Define("comp", lang.FuncValue(compBuiltin(cache)))
	env.Define("ipairs", lang.FuncValue(ipairsBuiltin))
	env.Define("pairs", lang.FuncValue(pairsBuiltin))
	env.Define("len", lang.FuncValue(lenBuiltin))
	env.Define("print", lang.FuncValue(printBuiltin))
	return env
}

// compBuiltin builds a comprehension callable from a string, memoized per
// environment: comp(" x^2 for x ")([1, 2, 3]).
func compBuiltin(cache *comp.Cache) lang.Func {
	return func(args []lang.Value) ([]lang.Value, error) {
		if len(args) < 1 || args[0].Type != lang.TypeString {
			return nil, fmt.Errorf("comp expects a comprehension string")
		}
		proc, err := cache.Get(args[0].Str())
		if err != nil {
			return nil, err
		}
		fn := lang.FuncValue(func(callArgs []lang.Value) ([]lang.Value, error) {
			v, err := proc.Call(callArgs...)
			if err != nil {
				return nil, err
			}
			return []lang.Value{v}, nil
		})
		return []lang.Value{fn}, nil
	}
}

// ipairsBuiltin returns the iterator triple for in-order list traversal:
// for i, x in ipairs(t).
func ipairsBuiltin(args []lang.Value) ([]lang.Value, error) {
	if len(args) < 1 || args[0].Type != lang.TypeList {
		return nil, fmt.Errorf("ipairs expects a list")
	}
	step := lang.FuncValue(func(fargs []lang.Value) ([]lang.Value, error) {
		if len(fargs) < 2 || fargs[0].Type != lang.TypeList {
			return nil, fmt.Errorf("ipairs iterator called without its state")
		}
		elems := fargs[0].List().Elems
		var i int64 = 1
		if fargs[1].Type == lang.TypeInt {
			i = fargs[1].Int() + 1
		}
		if i < 1 || i > int64(len(elems)) {
			return []lang.Value{lang.Nil}, nil
		}
		return []lang.Value{lang.IntValue(i), elems[i-1]}, nil
	})
	return []lang.Value{step, args[0], lang.IntValue(0)}, nil
}

// pairsBuiltin returns an iterator over a mapping's entries in deterministic
// key order: for k, v in pairs(m).
func pairsBuiltin(args []lang.Value) ([]lang.Value, error) {
	if len(args) < 1 || args[0].Type != lang.TypeMap {
		return nil, fmt.Errorf("pairs expects a map")
	}
	entries := args[0].Map().Entries
	keys := make([]lang.Value, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if less, err := lang.Less(keys[i], keys[j]); err == nil {
			return less
		}
		return keys[i].String() < keys[j].String()
	})
	idx := 0
	step := lang.FuncValue(func(fargs []lang.Value) ([]lang.Value, error) {
		if idx >= len(keys) {
			return []lang.Value{lang.Nil}, nil
		}
		k := keys[idx]
		idx++
		return []lang.Value{k, entries[k]}, nil
	})
	return []lang.Value{step, args[0], lang.Nil}, nil
}

func lenBuiltin(args []lang.Value) ([]lang.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("len expects an argument")
	}
	switch v := args[0]; v.Type {
	case lang.TypeList:
		return []lang.Value{lang.IntValue(int64(len(v.List().Elems)))}, nil
	case lang.TypeMap:
		return []lang.Value{lang.IntValue(int64(len(v.Map().Entries)))}, nil
	case lang.TypeString:
		return []lang.Value{lang.IntValue(int64(len(v.Str())))}, nil
	default:
		return nil, fmt.Errorf("attempt to take the length of a %s value", v.Type)
	}
}

func printBuiltin(args []lang.Value) ([]lang.Value, error) {
	for i, v := range args {
		if i > 0 {
			fmt.Print("\t")
		}
		if v.Type == lang.TypeString {
			fmt.Print(v.Str())
		} else {
			fmt.Print(v.String())
		}
	}
	fmt.Println()
	return nil, nil
}
