package config

// SetHome replaces the home directory lookup used for ~ expansion.
func (l *Loader) SetHome(fn func() (string, error)) {
	l.home = fn
}

// SetGOOS overrides the host OS used for OS dependent defaults.
func (l *Loader) SetGOOS(goos string) {
	l.goos = goos
}
