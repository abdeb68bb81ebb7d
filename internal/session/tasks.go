package session

// Deferred work queue. Some side effects must not run inside the operation
// that requests them, because the surface state they read is only settled
// once the surface has processed the operation's own updates. Instead of
// running them inline, operations queue closures here and the host pumps
// the queue after its event dispatch. Every closure re-checks the window
// index it captured, since windows may have closed in between.

func (c *Coordinator) later(fn func()) {
	if c.shuttingDown {
		return
	}
	c.pending = append(c.pending, fn)
}

// HasPending reports whether deferred work is queued.
func (c *Coordinator) HasPending() bool { return len(c.pending) > 0 }

// RunPending drains the deferred work queue. Work queued by the tasks
// themselves runs on the next drain.
func (c *Coordinator) RunPending() {
	tasks := c.pending
	c.pending = nil
	for _, fn := range tasks {
		if c.shuttingDown {
			return
		}
		fn()
	}
}
