// Package intern canonicalizes the strings a registry stores repeatedly:
// option strings, dest names and the short options produced while peeling
// clustered flags such as "-xyz".
package intern

import (
	"sync"
)

// Table maps each distinct string to one canonical copy.
type Table struct {
	mu      sync.RWMutex
	strings map[string]string
}

// NewTable creates a table with room for capacity strings.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = 64
	}
	return &Table{strings: make(map[string]string, capacity)}
}

// Intern returns the canonical copy of s.
func (t *Table) Intern(s string) string {
	t.mu.RLock()
	if c, ok := t.strings[s]; ok {
		t.mu.RUnlock()
		return c
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.strings[s]; ok {
		return c
	}
	t.strings[s] = s
	return s
}

// InternAll interns every element of ss in place and returns ss.
func (t *Table) InternAll(ss []string) []string {
	for i, s := range ss {
		ss[i] = t.Intern(s)
	}
	return ss
}

// Contains reports whether s was interned.
func (t *Table) Contains(s string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.strings[s]
	return ok
}

// Len returns the number of interned strings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.strings)
}

// Reset drops every interned string.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.strings)
}

// shortOptions holds "-a".."-z", "-A".."-Z", "-0".."-9" so peeling a cluster
// does not allocate for the common prefix character.
var shortOptions = func() [128]string {
	var out [128]string
	for c := 0; c < 128; c++ {
		b := byte(c)
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') {
			out[c] = string([]byte{'-', b})
		}
	}
	return out
}()

// Short returns prefix+c as a string. With the '-' prefix and an ASCII
// alphanumeric character the result is a preallocated constant.
func Short(prefix, c byte) string {
	if prefix == '-' && c < 128 && shortOptions[c] != "" {
		return shortOptions[c]
	}
	return string([]byte{prefix, c})
}

// Global is the process-wide table shared by sessions.
var Global = NewTable(128)

// Intern interns s in the Global table.
func Intern(s string) string {
	return Global.Intern(s)
}
