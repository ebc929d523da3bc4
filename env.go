// env.go — chained lexical environments.
//
// An Env is one scope: a name→Value table plus a parent link. Parents are
// shared by reference; every call and let activation chains a fresh child onto
// the scope that was current, and a closure keeps its captured scope alive for
// as long as the closure itself is reachable. Each scope also carries its own
// macro table, namespaced apart from value bindings, so a name can be a macro
// without being a value (and vice versa).
package lisp

// Env is a lexical scope with a parent link. Lookups walk parent-ward.
type Env struct {
	parent *Env
	table  map[string]Value
	macros map[string]*Proc
}

// NewEnv creates a scope chained to parent (which may be nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Extend creates a new empty child scope of e.
func (e *Env) Extend() *Env { return NewEnv(e) }

// Get returns the nearest visible binding for name, walking outward.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Define binds name in the current scope, silently replacing any previous
// binding of the same name here and shadowing any outer one.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set mutates the nearest scope that already binds name. It never creates a
// binding; false means no visible scope has the name.
func (e *Env) Set(name string, v Value) bool {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.table[name]; ok {
			s.table[name] = v
			return true
		}
	}
	return false
}

// DefineMacro binds a macro in the current scope's macro table.
func (e *Env) DefineMacro(name string, p *Proc) {
	if e.macros == nil {
		e.macros = make(map[string]*Proc)
	}
	e.macros[name] = p
}

// GetMacro returns the nearest visible macro definition for name.
func (e *Env) GetMacro(name string) (*Proc, bool) {
	for s := e; s != nil; s = s.parent {
		if s.macros != nil {
			if p, ok := s.macros[name]; ok {
				return p, true
			}
		}
	}
	return nil, false
}

// HasMacro reports whether name resolves to a macro from this scope.
func (e *Env) HasMacro(name string) bool {
	_, ok := e.GetMacro(name)
	return ok
}
