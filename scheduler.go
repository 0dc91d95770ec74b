package osek

import "runtime"

// raiseScheduleRequest signals that a scheduling pass should run soon,
// realizing the deferred software-interrupt mechanism described in spec
// §5: a non-blocking send on a capacity-1 channel, so repeated requests
// within one scheduling pass collapse into a single pending wakeup rather
// than queuing. Called with k.mu held.
func (k *Kernel) raiseScheduleRequest() {
	select {
	case k.requestCh <- struct{}{}:
	default:
	}
}

// RequestSchedule is the public, Go-idiomatic entry point matching the
// original's os_request_schedule(): it raises the same deferred wakeup
// that ActivateTask/SetEvent raise internally, for callers (e.g. a custom
// tick source) that want to request a scheduling pass without having
// caused one through a task/event API.
func (k *Kernel) RequestSchedule() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return ErrKernelHalted
	}
	k.raiseScheduleRequest()
	return nil
}

// ScheduleRequested reports, without consuming it, whether a scheduling
// pass has been requested since the last successful Schedule call.
func (k *Kernel) ScheduleRequested() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	select {
	case v := <-k.requestCh:
		k.requestCh <- v
		return true
	default:
		return false
	}
}

// Schedule scans the task table in round-robin order starting just after
// the previously-run task, selects the first READY task, runs its entry
// to completion, and returns. It is not reentrant: calling Schedule from
// within a task's entry function (directly or via a callback) returns
// ErrReentrantSchedule, per the spec's resolution of the recursive-
// scheduling open question.
func (k *Kernel) Schedule() error {
	k.mu.Lock()
	if k.halted {
		k.mu.Unlock()
		return ErrKernelHalted
	}
	if k.scheduling {
		k.mu.Unlock()
		return ErrReentrantSchedule
	}

	start := 0
	if k.hasCurrent {
		start = int(k.currentTask) + 1
	}
	n := len(k.tasks)
	picked := -1
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if k.tasks[idx].state == TaskReady {
			picked = idx
			break
		}
	}
	if picked < 0 {
		k.mu.Unlock()
		return ErrNoReadyTask
	}

	select {
	case <-k.requestCh:
	default:
	}

	k.tasks[picked].state = TaskRunning
	k.currentTask = TaskID(picked)
	k.hasCurrent = true
	k.scheduling = true
	entry := k.tasks[picked].entry
	k.mu.Unlock()

	if k.stack != nil {
		k.stack.Report(TaskID(picked), currentStackUsage())
	}
	k.runPreTaskHook(TaskID(picked))
	entry()
	k.runPostTaskHook(TaskID(picked))

	k.mu.Lock()
	k.scheduling = false
	if k.stack != nil {
		if status, breached := k.stack.Check(TaskID(picked)); breached {
			k.mu.Unlock()
			k.fail("Schedule", status)
			k.ShutdownOS(status)
			return nil
		}
	}
	k.mu.Unlock()
	return nil
}

// currentStackUsage estimates the calling goroutine's current stack
// footprint via runtime.Stack, the closest analogue Go exposes to reading a
// C stack pointer: there is no supported way to query a goroutine's actual
// allocated stack size, so the formatted trace length stands in for it.
func currentStackUsage() uint32 {
	buf := make([]byte, 8192)
	return uint32(runtime.Stack(buf, false))
}

// RunUntilIdle repeatedly calls Schedule until no task is READY, standing
// in for a main loop that drains every runnable task before returning
// control to the tick source.
func (k *Kernel) RunUntilIdle() error {
	for {
		err := k.Schedule()
		switch err {
		case nil:
			continue
		case ErrNoReadyTask:
			return nil
		default:
			return err
		}
	}
}
