package clap

import (
	"reflect"
	"slices"
	"sort"

	"github.com/goforj/godump"
	"github.com/iancoleman/orderedmap"
)

// namespace holds the values bound by one sweep, in binding order. Nested
// subcommand sweeps live in children keyed by subcommand name.
type namespace struct {
	values   *orderedmap.OrderedMap
	assigned map[string]bool
	children map[string]*namespace
}

func newNamespace() *namespace {
	return &namespace{
		values:   orderedmap.New(),
		assigned: make(map[string]bool),
		children: make(map[string]*namespace),
	}
}

func (n *namespace) Get(dest string) (any, bool) {
	return n.values.Get(dest)
}

func (n *namespace) initDefault(dest string, v any) {
	if _, ok := n.values.Get(dest); !ok {
		n.values.Set(dest, v)
	}
}

func (n *namespace) set(dest string, v any) {
	n.values.Set(dest, v)
	n.assigned[dest] = true
}

func (n *namespace) Keys() []string {
	return n.values.Keys()
}

// at returns the namespace at path, nil when a step was not invoked.
func (n *namespace) at(path []string) *namespace {
	cur := n
	for _, p := range path {
		if cur == nil {
			return nil
		}
		cur = cur.children[p]
	}
	return cur
}

// selected returns the subcommand chosen in this namespace.
func (n *namespace) selected() (string, bool) {
	v, ok := n.values.Get(selectorDest)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

// invokedPath follows the selected subcommands down from n.
func (n *namespace) invokedPath() []string {
	var path []string
	for cur := n; cur != nil; {
		name, ok := cur.selected()
		if !ok {
			break
		}
		path = append(path, name)
		cur = cur.children[name]
	}
	return path
}

// snapshot flattens the namespace into plain maps for dumping.
func (n *namespace) snapshot() map[string]any {
	out := make(map[string]any, len(n.values.Keys())+len(n.children))
	for _, k := range n.values.Keys() {
		v, _ := n.values.Get(k)
		out[k] = v
	}
	for name, c := range n.children {
		out["<"+name+">"] = c.snapshot()
	}
	return out
}

// Dump renders the namespace for debug logs.
func (n *namespace) Dump() string {
	return godump.DumpStr(n.snapshot())
}

// finalize turns the []any lists built while binding into typed slices when
// every element has the same type.
func (n *namespace) finalize() {
	for _, k := range n.values.Keys() {
		v, _ := n.values.Get(k)
		if list, ok := v.([]any); ok {
			n.values.Set(k, finalizeList(list))
		}
	}
}

func finalizeList(list []any) any {
	if len(list) == 0 {
		return []string{}
	}
	list = slices.Clone(list)
	for i, e := range list {
		if inner, ok := e.([]any); ok {
			list[i] = finalizeList(inner)
		}
	}
	t := reflect.TypeOf(list[0])
	if t == nil {
		return list
	}
	for _, e := range list[1:] {
		if reflect.TypeOf(e) != t {
			return list
		}
	}
	out := reflect.MakeSlice(reflect.SliceOf(t), len(list), len(list))
	for i, e := range list {
		out.Index(i).Set(reflect.ValueOf(e))
	}
	return out.Interface()
}

// anyList copies v into a fresh []any. Slices are spread, nil is empty and
// anything else becomes a single element.
func anyList(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return slices.Clone(t)
	case string:
		return []any{t}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

// Diagnostic reports a dest whose value changed between two sweeps.
type Diagnostic struct {
	Dest     string
	Previous any
	Current  any
}

func (d Diagnostic) String() string {
	return "value of " + d.Dest + " changed across parses"
}

// drift compares the overlapping dests of prev and cur, recursing into
// subcommands present in both. Dotted paths name nested dests.
func drift(prev, cur *namespace, prefix string) []Diagnostic {
	var out []Diagnostic
	for _, k := range cur.Keys() {
		if k == selectorDest {
			continue
		}
		before, ok := prev.Get(k)
		if !ok {
			continue
		}
		after, _ := cur.Get(k)
		if !reflect.DeepEqual(before, after) {
			out = append(out, Diagnostic{Dest: prefix + k, Previous: before, Current: after})
		}
	}

	names := make([]string, 0, len(cur.children))
	for name := range cur.children {
		if _, ok := prev.children[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, drift(prev.children[name], cur.children[name], prefix+name+".")...)
	}
	return out
}
