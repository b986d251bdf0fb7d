// Package media compiles operation requests into ordered external process
// invocations for the encoding toolkit. It decides what to run and in what
// order; it never touches pixels or samples itself.
package media

import (
	"fmt"
	"strings"
)

// Invocation is one external program call: a program name plus its argument
// vector. Immutable once built. Invocations share nothing but the filesystem
// paths they reference.
type Invocation struct {
	Program string
	Args    []string

	// Note is compiler-emitted rationale for explain mode. Diagnostic only.
	Note string
}

// CommandLine renders the invocation for display. Arguments containing
// whitespace are quoted; this is for humans, never fed back to a shell.
func (i Invocation) CommandLine() string {
	var b strings.Builder
	b.WriteString(i.Program)
	for _, a := range i.Args {
		b.WriteByte(' ')
		if strings.ContainsAny(a, " \t\"'") {
			fmt.Fprintf(&b, "%q", a)
		} else {
			b.WriteString(a)
		}
	}
	return b.String()
}

// Plan is the ordered invocation sequence for one request, plus the output
// paths the caller should report. Execution order is load-bearing: later
// invocations read files earlier ones wrote (palettes, pass logs, lists).
type Plan struct {
	Invocations []Invocation
	Outputs     []string
}

// Request is an operation tag plus raw parameter text. The compiler parses
// parameters with the param package before building anything.
type Request struct {
	Op     string
	Inputs []string
	Output string
	Params map[string]string
}

// Input returns the primary (first) input path.
func (r Request) Input() string {
	if len(r.Inputs) == 0 {
		return ""
	}
	return r.Inputs[0]
}

// Get returns a raw parameter value if present.
func (r Request) Get(key string) (string, bool) {
	v, ok := r.Params[key]
	return v, ok
}

// GetOr returns a raw parameter value or a default.
func (r Request) GetOr(key, def string) string {
	if v, ok := r.Params[key]; ok && v != "" {
		return v
	}
	return def
}

// Require returns a raw parameter value or an error naming the missing key.
func (r Request) Require(key string) (string, error) {
	v, ok := r.Params[key]
	if !ok || v == "" {
		return "", fmt.Errorf("operation %q requires parameter %q", r.Op, key)
	}
	return v, nil
}
