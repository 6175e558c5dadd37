package domain

import "strings"

// Command is a single subprocess invocation. The working directory and the
// environment overlay travel with the command instead of being process-wide state.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env holds KEY=VALUE pairs layered over the daemon's own environment.
	Env []string
}

// String renders the command line for logs. It is not meant to be re-parsed.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}
