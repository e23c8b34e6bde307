package clap

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dzonerzy/go-clap/internal/intern"
)

// Token pattern alphabet.
const (
	patternArg       = 'A'
	patternOption    = 'O'
	patternSeparator = '-'
)

var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

// optionMatch is an option-looking token resolved against the registry. A nil
// spec marks an unknown option.
type optionMatch struct {
	spec        *Spec
	option      string
	sep         string
	explicit    string
	hasExplicit bool
}

func (r *Registry) isPrefix(c byte) bool {
	return strings.IndexByte(r.cfg.prefixChars, c) >= 0
}

// classify returns the pattern letter for every token and the resolved option
// at each 'O' position. Every token after a literal "--" is an argument.
func (r *Registry) classify(tokens []string, pattern []byte) ([]byte, map[int]*optionMatch, error) {
	matches := make(map[int]*optionMatch)
	for i, tok := range tokens {
		if tok == "--" {
			pattern = append(pattern, patternSeparator)
			for range tokens[i+1:] {
				pattern = append(pattern, patternArg)
			}
			break
		}
		m, err := r.parseOptional(tok)
		if err != nil {
			return nil, nil, err
		}
		if m == nil {
			pattern = append(pattern, patternArg)
			continue
		}
		matches[i] = m
		pattern = append(pattern, patternOption)
	}
	return pattern, matches, nil
}

// parseOptional decides whether tok is an option. It returns nil for plain
// arguments.
func (r *Registry) parseOptional(tok string) (*optionMatch, error) {
	if tok == "" || !r.isPrefix(tok[0]) {
		return nil, nil
	}
	if s, ok := r.options[tok]; ok {
		return &optionMatch{spec: s, option: tok}, nil
	}
	if len(tok) == 1 {
		return nil, nil
	}
	if opt, explicit, ok := strings.Cut(tok, "="); ok {
		if s, found := r.options[opt]; found {
			return &optionMatch{spec: s, option: opt, sep: "=", explicit: explicit, hasExplicit: true}, nil
		}
	}

	tuples := r.optionTuples(tok)
	switch distinct := distinctSpecs(tuples); {
	case distinct > 1:
		candidates := make([]string, len(tuples))
		for i, t := range tuples {
			candidates[i] = t.option
		}
		err := ambiguousOptionError(tok, candidates)
		err.Path = r.path
		return nil, err
	case distinct == 1:
		m := tuples[0]
		return &m, nil
	}

	if negativeNumber.MatchString(tok) && !r.negativeLike {
		return nil, nil
	}
	if strings.Contains(tok, " ") {
		return nil, nil
	}
	return &optionMatch{option: tok}, nil
}

// optionTuples finds the declarations tok could abbreviate. For a single
// prefix character the first two characters may also name a short option
// followed by a joined value ("-kfoo").
func (r *Registry) optionTuples(tok string) []optionMatch {
	var out []optionMatch
	switch {
	case r.isPrefix(tok[0]) && r.isPrefix(tok[1]):
		if !r.cfg.allowAbbrev {
			return nil
		}
		prefix, explicit, hasSep := strings.Cut(tok, "=")
		sep := ""
		if hasSep {
			sep = "="
		}
		for _, opt := range r.optionOrder {
			if strings.HasPrefix(opt, prefix) {
				out = append(out, optionMatch{
					spec: r.options[opt], option: opt, sep: sep, explicit: explicit, hasExplicit: hasSep,
				})
			}
		}
	case r.isPrefix(tok[0]):
		short, rest := splitShort(tok)
		for _, opt := range r.optionOrder {
			switch {
			case opt == short:
				out = append(out, optionMatch{spec: r.options[opt], option: opt, explicit: rest, hasExplicit: true})
			case r.cfg.allowAbbrev && strings.HasPrefix(opt, tok):
				out = append(out, optionMatch{spec: r.options[opt], option: opt})
			}
		}
	}
	return out
}

// distinctSpecs counts the distinct declarations among tuples.
func distinctSpecs(tuples []optionMatch) int {
	seen := make(map[*Spec]bool, len(tuples))
	n := 0
	for _, t := range tuples {
		if !seen[t.spec] {
			seen[t.spec] = true
			n++
		}
	}
	return n
}

// splitShort splits "-kfoo" into "-k" and "foo".
func splitShort(tok string) (short, rest string) {
	_, size := utf8.DecodeRuneInString(tok[1:])
	return tok[:1+size], tok[1+size:]
}

// shortOption joins a prefix character and the first character of s.
func shortOption(prefix byte, s string) (opt, rest string) {
	if s[0] < utf8.RuneSelf {
		return intern.Short(prefix, s[0]), s[1:]
	}
	_, size := utf8.DecodeRuneInString(s)
	return string(prefix) + s[:size], s[size:]
}
