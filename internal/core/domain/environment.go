package domain

import "strings"

// Activation describes a toolchain activation script that has to be sourced in
// the same shell invocation as the command using it.
type Activation struct {
	Shell   string
	IDFPath string
	Script  string
}

// BuildEnvironment is the per-target execution context derived for one build.
// It is never persisted.
type BuildEnvironment struct {
	Target Target
	// Env is a KEY=VALUE overlay applied to every subprocess of the build.
	Env []string
	// Generator is the CMake generator for desktop builds.
	Generator string
	// ToolchainFile and Chip are set for firmware builds.
	ToolchainFile string
	Chip          string
	// Activation is set when commands must be wrapped in a sourcing shell.
	Activation *Activation
}

// RequiresShell reports whether commands must run inside the activation shell.
func (e *BuildEnvironment) RequiresShell() bool {
	return e != nil && e.Activation != nil
}

// Command builds the invocation of name with args in dir under this environment.
func (e *BuildEnvironment) Command(dir, name string, args ...string) Command {
	var env []string
	if e != nil {
		env = append(env, e.Env...)
	}
	if !e.RequiresShell() {
		return Command{Name: name, Args: args, Dir: dir, Env: env}
	}

	a := e.Activation
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, ShellQuote(name))
	for _, arg := range args {
		argv = append(argv, ShellQuote(arg))
	}
	script := "export IDF_PATH=" + ShellQuote(a.IDFPath) +
		" && . " + ShellQuote(a.Script) +
		" && " + strings.Join(argv, " ")

	return Command{Name: a.Shell, Args: []string{"-c", script}, Dir: dir, Env: env}
}

// ShellQuote quotes s for a POSIX shell using single quotes.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./=:,+@%", r)
}
