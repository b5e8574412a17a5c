// Package vars resolves task variables from invocation overrides, the
// materialized env file and task file defaults, in that order of precedence.
package vars

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type Source int

const (
	SourceDefault Source = iota
	SourceFile
	SourceOverride
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceFile:
		return "file"
	default:
		return "default"
	}
}

type Variable struct {
	Name   string
	Value  string
	Source Source
}

// UnresolvedVariableError is returned when a referenced variable has no
// override, no env file entry and no default.
type UnresolvedVariableError struct {
	Name string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("variable %q is not defined (pass %s=... or declare a default)", e.Name, e.Name)
}

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Resolver holds the three layers for a single invocation. It is never
// mutated after New.
type Resolver struct {
	overrides map[string]string
	file      map[string]string
	defaults  map[string]string
}

func New(overrides, file, defaults map[string]string) *Resolver {
	return &Resolver{
		overrides: clone(overrides),
		file:      clone(file),
		defaults:  clone(defaults),
	}
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Resolve returns the highest-precedence definition of name.
func (r *Resolver) Resolve(name string) (Variable, error) {
	if v, ok := r.overrides[name]; ok {
		return Variable{Name: name, Value: v, Source: SourceOverride}, nil
	}
	if v, ok := r.file[name]; ok {
		return Variable{Name: name, Value: v, Source: SourceFile}, nil
	}
	if v, ok := r.defaults[name]; ok {
		return Variable{Name: name, Value: v, Source: SourceDefault}, nil
	}
	return Variable{}, &UnresolvedVariableError{Name: name}
}

func (r *Resolver) Lookup(name string) (string, bool) {
	v, err := r.Resolve(name)
	if err != nil {
		return "", false
	}
	return v.Value, true
}

// Names returns every variable defined in any layer, sorted.
func (r *Resolver) Names() []string {
	seen := map[string]bool{}
	var names []string
	for _, layer := range []map[string]string{r.overrides, r.file, r.defaults} {
		for k := range layer {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Environ renders every resolved variable as KEY=VALUE for a child process.
func (r *Resolver) Environ() []string {
	names := r.Names()
	env := make([]string, 0, len(names))
	for _, n := range names {
		v, _ := r.Lookup(n)
		env = append(env, n+"="+v)
	}
	return env
}

// SyntaxError reports a ${...} reference the interpolator does not understand.
type SyntaxError struct {
	Ref    string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid variable reference %q: %s", e.Ref, e.Reason)
}

// Interpolate substitutes $NAME, ${NAME} and ${NAME:-default} references.
// $$ produces a literal dollar sign, so shell variables are written as $$HOME.
// Positional and special shell parameters ($1, $@, $?) are left untouched.
// Malformed braced references fail with *SyntaxError.
func (r *Resolver) Interpolate(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '$' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				return "", &SyntaxError{Ref: s[i:], Reason: "missing closing brace"}
			}
			v, err := r.braced(s[i : i+3+end])
			if err != nil {
				return "", err
			}
			b.WriteString(v)
			i += 2 + end
		case isNameStart(next):
			j := i + 2
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			v, err := r.Resolve(s[i+1 : j])
			if err != nil {
				return "", err
			}
			b.WriteString(v.Value)
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// braced expands a complete ${...} reference.
func (r *Resolver) braced(ref string) (string, error) {
	body := ref[2 : len(ref)-1]
	name, def, hasDefault := strings.Cut(body, ":-")
	if name == "" {
		return "", &SyntaxError{Ref: ref, Reason: "empty variable name"}
	}
	if !nameRe.MatchString(name) {
		return "", &SyntaxError{Ref: ref, Reason: "unsupported expansion"}
	}
	v, err := r.Resolve(name)
	if hasDefault {
		if err != nil || v.Value == "" {
			return def, nil
		}
		return v.Value, nil
	}
	if err != nil {
		return "", err
	}
	return v.Value, nil
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || ('0' <= c && c <= '9')
}

// ParseOverrides parses KEY=VALUE invocation arguments.
func ParseOverrides(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || !nameRe.MatchString(k) {
			return nil, fmt.Errorf("invalid override %q: expected KEY=VALUE", a)
		}
		out[k] = v
	}
	return out, nil
}

// Truthy reports whether a flag-like variable value is switched on.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
