package osek

// Hooks carries the kernel's optional lifecycle callbacks. Every field may
// be left nil; a nil hook is simply not invoked (the original's weak
// default implementations are reproduced here as Kernel's built-in logging
// behavior, not as always-present function pointers).
type Hooks struct {
	// Startup runs once, at the end of New, before the first Tick.
	Startup func()
	// Shutdown runs once, when ShutdownOS is called.
	Shutdown func(status StatusType)
	// Error runs whenever a kernel API is about to return a non-OK status.
	// It receives the operation name and the status.
	Error func(op string, status StatusType)
	// PreTask runs immediately before a task's entry function is invoked
	// by Schedule.
	PreTask func(id TaskID)
	// PostTask runs immediately after a task's entry function returns
	// control to Schedule, however the entry ended (TerminateTask,
	// ChainTask, WaitEvent, or a plain return).
	PostTask func(id TaskID)
}

// runErrorHook invokes h.Error if set, and always logs the denial/failure,
// matching the original's pattern of an always-on log line plus an
// optional user hook (os_hooks.c's ErrorHook default printed unconditionally
// because no hook had been installed yet; here the logger is always
// present, so both fire).
func (k *Kernel) runErrorHook(op string, status StatusType) {
	if status == StatusOK {
		return
	}
	k.logger.Warnf("operation failed", "op", op, "status", status.String())
	if k.hooks.Error != nil {
		k.hooks.Error(op, status)
	}
}

func (k *Kernel) runPreTaskHook(id TaskID) {
	if k.hooks.PreTask != nil {
		k.hooks.PreTask(id)
	}
}

func (k *Kernel) runPostTaskHook(id TaskID) {
	if k.hooks.PostTask != nil {
		k.hooks.PostTask(id)
	}
}
