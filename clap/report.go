package clap

// Report is the outcome of Finish.
type Report struct {
	// Unrecognized holds the tokens no declaration claimed, in order.
	Unrecognized []string
	// Suggestions maps an unrecognized option to the closest declared one.
	Suggestions map[string]string
	// HelpRequested is set when a help token was given.
	HelpRequested bool
	// Subcommand is the chain of chosen subcommands, empty when none.
	Subcommand []string
}

// Clean reports whether every token was claimed.
func (r *Report) Clean() bool {
	return len(r.Unrecognized) == 0
}
