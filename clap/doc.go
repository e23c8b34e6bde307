// Package clap parses command line arguments one declaration at a time.
//
// Declarations may be made anywhere in a program, in any order and any
// number of times. Each call returns the value that a single parse of the
// final declaration set would bind:
//
//	s := clap.NewSession()
//	name, err := s.Parse("--name -n", clap.Default("world"))
//	verbose, err := s.Parse("-v --verbose", clap.Flag())
//
//	build := s.Subcommand("build")
//	target, err := build.Parse("--target")
//
//	report, err := s.Finish()
//
// Repeating an identical declaration returns the cached value; declaring the
// same option string with different constraints is an error. Declarations on
// a subcommand that was not chosen bind their defaults.
package clap
