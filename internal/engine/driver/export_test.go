package driver

import "time"

// SetGOOS overrides the host OS used for artifact naming.
func (d *Driver) SetGOOS(goos string) {
	d.goos = goos
}

// SetJobs overrides the compile parallelism.
func (d *Driver) SetJobs(jobs int) {
	d.jobs = jobs
}

// SetClock overrides the clock used for elapsed times.
func (d *Driver) SetClock(now func() time.Time) {
	d.now = now
}

// Promote exposes artifact promotion.
var Promote = promote
