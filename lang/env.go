package lang

// Env implements a lexical environment chain. Comprehension callables bind
// their parameters and loop variables in invocation-local frames whose parent
// is the environment supplied at build time, so free identifiers in user
// expressions resolve against the caller's scope.
type Env struct {
	parent *Env
	values map[string]Value
}

// NewEnv creates an environment with optional parent.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent: parent,
		values: make(map[string]Value),
	}
}

// Define binds name to value in the current frame.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Lookup retrieves a binding, searching parent frames. Unbound names report
// ok=false; expression evaluation treats them as nil.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return Nil, false
}

// Parent returns the parent environment.
func (e *Env) Parent() *Env {
	return e.parent
}
