package clap

import (
	"runtime"
	"slices"
	"strings"
)

// DisplayGroup is a named help section. A name maps to one instance per
// registry.
type DisplayGroup struct {
	name        string
	description string
	members     []*Spec
}

// Name returns the group title.
func (g *DisplayGroup) Name() string { return g.name }

// Description returns the group description.
func (g *DisplayGroup) Description() string { return g.description }

// Members returns the declarations in registration order.
func (g *DisplayGroup) Members() []*Spec { return slices.Clone(g.members) }

// MutexGroup is a set of declarations of which at most one may be given.
// A required group needs exactly one.
type MutexGroup struct {
	name     string
	required bool
	owner    *Registry
	members  []*Spec
}

// Name returns the group name.
func (g *MutexGroup) Name() string { return g.name }

// Required reports whether one member must be given.
func (g *MutexGroup) Required() bool { return g.required }

// Members returns the declarations in registration order.
func (g *MutexGroup) Members() []*Spec { return slices.Clone(g.members) }

func (g *MutexGroup) memberNames() []string {
	names := make([]string, len(g.members))
	for i, m := range g.members {
		names[i] = m.Name()
	}
	return names
}

// GroupNamer picks a display group for declarations made without one. An
// empty result means no group.
type GroupNamer interface {
	GroupName(mainModule string) string
}

// GroupNamerFunc adapts a function to GroupNamer.
type GroupNamerFunc func(mainModule string) string

// GroupName calls f.
func (f GroupNamerFunc) GroupName(mainModule string) string { return f(mainModule) }

const clapFuncPrefix = "github.com/dzonerzy/go-clap/clap."

// CallerGroupNamer names the group after the package that made the
// declaration. Declarations from the main module get no group.
type CallerGroupNamer struct{}

// GroupName walks the stack to the first frame outside this package.
func (CallerGroupNamer) GroupName(mainModule string) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if f.Function != "" && !strings.HasPrefix(f.Function, clapFuncPrefix) {
			pkg := packageName(f.Function)
			if pkg == mainModule {
				return ""
			}
			return pkg
		}
		if !more {
			return ""
		}
	}
}

// packageName extracts "db" from "github.com/acme/tool/db.(*Conn).Open".
func packageName(function string) string {
	if i := strings.LastIndexByte(function, '/'); i >= 0 {
		function = function[i+1:]
	}
	if i := strings.IndexByte(function, '.'); i >= 0 {
		function = function[:i]
	}
	return function
}
