package clap

// ActionKind selects what binding a matched declaration does.
type ActionKind uint8

const (
	ActionStore ActionKind = iota
	ActionStoreConst
	ActionStoreTrue
	ActionStoreFalse
	ActionAppend
	ActionAppendConst
	ActionExtend
	ActionCount
	ActionHelp

	actionSelector
)

func (a ActionKind) String() string {
	switch a {
	case ActionStore:
		return "store"
	case ActionStoreConst:
		return "store_const"
	case ActionStoreTrue:
		return "store_true"
	case ActionStoreFalse:
		return "store_false"
	case ActionAppend:
		return "append"
	case ActionAppendConst:
		return "append_const"
	case ActionExtend:
		return "extend"
	case ActionCount:
		return "count"
	case ActionHelp:
		return "help"
	case actionSelector:
		return "subcommand"
	default:
		return "unknown"
	}
}

// Accumulating reports whether every occurrence is applied, not only the first
// one seen in a sweep.
func (a ActionKind) Accumulating() bool {
	switch a {
	case ActionAppend, ActionAppendConst, ActionExtend, ActionCount:
		return true
	default:
		return false
	}
}

func (a ActionKind) zeroArity() bool {
	switch a {
	case ActionStoreConst, ActionStoreTrue, ActionStoreFalse, ActionAppendConst, ActionCount, ActionHelp:
		return true
	default:
		return false
	}
}

// accumulate maps a single-binding action to its accumulating twin.
func (a ActionKind) accumulate() (ActionKind, bool) {
	switch a {
	case ActionStore, ActionAppend:
		return ActionAppend, true
	case ActionStoreConst, ActionAppendConst:
		return ActionAppendConst, true
	case ActionExtend, ActionCount:
		return a, true
	default:
		return a, false
	}
}

// apply binds values into ns. The selector action is handled by the matcher.
func (a ActionKind) apply(ns *namespace, spec *Spec, values any) {
	switch a {
	case ActionStore:
		ns.set(spec.dest, values)
	case ActionStoreConst, ActionStoreTrue, ActionStoreFalse:
		ns.set(spec.dest, spec.constVal)
	case ActionAppend:
		cur, _ := ns.Get(spec.dest)
		ns.set(spec.dest, append(anyList(cur), values))
	case ActionAppendConst:
		cur, _ := ns.Get(spec.dest)
		ns.set(spec.dest, append(anyList(cur), spec.constVal))
	case ActionExtend:
		cur, _ := ns.Get(spec.dest)
		ns.set(spec.dest, append(anyList(cur), anyList(values)...))
	case ActionCount:
		cur, _ := ns.Get(spec.dest)
		n, _ := cur.(int)
		ns.set(spec.dest, n+1)
	case ActionHelp, actionSelector:
	}
}
