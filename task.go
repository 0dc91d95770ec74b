package osek

// ActivateTask requests that task id run. If the task is SUSPENDED it
// moves to READY; in all other non-error cases only activation_count is
// incremented. Safe to call from a task body or from an alarm/schedule-table
// action running in the tick context.
func (k *Kernel) ActivateTask(id TaskID) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	return k.activateTaskLocked(id)
}

func (k *Kernel) activateTaskLocked(id TaskID) StatusType {
	if int(id) >= len(k.tasks) {
		return k.fail("ActivateTask", StatusInvalidID)
	}
	tcb := &k.tasks[id]
	if tcb.activationCount >= tcb.activationLimit {
		return k.fail("ActivateTask", StatusLimit)
	}
	tcb.activationCount++
	if tcb.state == TaskSuspended {
		tcb.state = TaskReady
	}
	k.metrics.IncTaskActivations()
	k.raiseScheduleRequest()
	return StatusOK
}

// TerminateTask ends the current task's execution. It must be the last
// call a task's entry function makes before returning; the cooperative
// scheduler realizes "does not return to its caller" by the Go function
// simply returning afterward.
func (k *Kernel) TerminateTask() StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if !k.hasCurrent {
		return k.fail("TerminateTask", StatusInvalidState)
	}
	k.terminateCurrentLocked()
	return StatusOK
}

func (k *Kernel) terminateCurrentLocked() {
	tcb := &k.tasks[k.currentTask]
	tcb.activationCount--
	if tcb.activationCount > 0 {
		tcb.state = TaskReady
	} else {
		tcb.state = TaskSuspended
	}
}

// ChainTask is the semantic equivalent of ActivateTask(id) followed by
// TerminateTask, with the chained activation guaranteed to apply before
// the terminator runs, per spec §4.4.
func (k *Kernel) ChainTask(id TaskID) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if !k.hasCurrent {
		return k.fail("ChainTask", StatusInvalidState)
	}
	if status := k.activateTaskLocked(id); status != StatusOK {
		return status
	}
	k.terminateCurrentLocked()
	return StatusOK
}

// GetTaskState returns a snapshot of task id's state.
func (k *Kernel) GetTaskState(id TaskID) (TaskState, StatusType) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if int(id) >= len(k.tasks) {
		return 0, k.fail("GetTaskState", StatusInvalidID)
	}
	return k.tasks[id].state, StatusOK
}
