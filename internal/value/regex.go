package value

import "regexp"

// Regex is a compiled pattern literal, written #"…" at the source level.
type Regex struct {
	Source   string
	Compiled *regexp.Regexp
}

func (*Regex) Kind() Kind       { return KindRegex }
func (r *Regex) String() string { return `#"` + r.Source + `"` }

// NewRegex compiles source, wrapping it the way the reader's #"…"
// literal does.
func NewRegex(source string) (*Regex, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, err
	}
	return &Regex{Source: source, Compiled: re}, nil
}
