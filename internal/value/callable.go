package value

// Callable is any Value that can be invoked with a positional argument
// vector and a named-parameter map (spec.md glossary: "Callable"). The
// concrete variants — builtin, special form, macro, user function,
// pattern function, host delegate — are spread across this package
// (NativeFunc, for builtins with no closure state) and the eval package
// (which needs access to environment frames and AST bodies the value
// package must not import, to avoid a dependency cycle).
type Callable interface {
	Value
	CallableName() string
}

// NativeFunc wraps a Go function as a Braid builtin callable — the
// "Builtin function" variant of spec.md's Callable kind. Most arithmetic,
// string, and collection builtins need no evaluator access and are
// expressed directly as a NativeFunc.
type NativeFunc struct {
	Name string
	Fn   func(args []Value, named map[Keyword]Value) (Value, error)
	Ctx  SourceContext
}

func (*NativeFunc) Kind() Kind          { return KindCallable }
func (n *NativeFunc) String() string    { return "#<builtin:" + n.Name + ">" }
func (n *NativeFunc) CallableName() string { return n.Name }

// FunctionLiteral is an unevaluated wrapper around a Callable. Wrapping
// preserves the callable's identity when it is returned as a value
// rather than invoked (spec.md §3: "preserves identity when returned").
type FunctionLiteral struct {
	Callable Callable
}

func (*FunctionLiteral) Kind() Kind    { return KindFunctionLiteral }
func (f *FunctionLiteral) String() string {
	return "#'" + f.Callable.CallableName()
}

// TypeLiteral references a host type ("^String") or a user-defined
// record type ("^Point"), written `^Name` by the reader. Generic
// arguments and a nullable marker are carried as text (spec.md §4.2:
// "^Name[…] for generics and trailing ? for nullable").
type TypeLiteral struct {
	Name     string
	Generics []string
	Nullable bool
}

func (*TypeLiteral) Kind() Kind { return KindTypeLiteral }
func (t *TypeLiteral) String() string {
	s := "^" + t.Name
	if len(t.Generics) > 0 {
		s += "["
		for i, g := range t.Generics {
			if i > 0 {
				s += " "
			}
			s += g
		}
		s += "]"
	}
	if t.Nullable {
		s += "?"
	}
	return s
}
