package shell

// ResolveEnvironment exports resolveEnvironment for white-box testing.
var ResolveEnvironment = resolveEnvironment

// SetEnviron replaces the inherited environment source.
func (e *Executor) SetEnviron(fn func() []string) {
	e.environ = fn
}
