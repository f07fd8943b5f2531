package value

// Print renders v in its canonical read-back form. For the composite
// kinds this simply defers to the type's own String method; Print
// exists as the single entry point callers should use, so that adding
// a new Value kind only requires implementing String, not touching a
// giant switch (spec.md Invariant 1: parse(print(v)) == v).
func Print(v Value) string {
	if v == nil {
		return "()"
	}
	if s, ok := v.(StringValue); ok {
		return s.Quoted()
	}
	return v.String()
}
