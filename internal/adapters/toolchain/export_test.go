package toolchain

// SetLookPath replaces the executable lookup used for generator probing.
func (r *Resolver) SetLookPath(fn func(string) (string, error)) {
	r.lookPath = fn
}

// SetGOOS overrides the host OS used for the fallback generator.
func (r *Resolver) SetGOOS(goos string) {
	r.goos = goos
}
