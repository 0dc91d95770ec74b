package osek

// WaitEvent blocks the current task on mask: if any bit of mask is already
// set, it returns immediately with the task left RUNNING. Otherwise the
// task transitions to WAITING and the call returns; per spec §4.5 this
// does not re-enter the scheduler — the task's entry function is expected
// to return immediately afterward, yielding cooperatively.
func (k *Kernel) WaitEvent(mask EventMask) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if !k.hasCurrent {
		return k.fail("WaitEvent", StatusInvalidState)
	}
	tcb := &k.tasks[k.currentTask]
	if tcb.setEvent&mask != 0 {
		return StatusOK
	}
	tcb.waitEvent = mask
	tcb.state = TaskWaiting
	return StatusOK
}

// SetEvent ORs mask into task id's set_mask. If id is WAITING and the
// awaited mask is now satisfied, id moves to READY, wait_mask is cleared,
// and a scheduling request is raised.
func (k *Kernel) SetEvent(id TaskID, mask EventMask) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	return k.setEventLocked(id, mask)
}

func (k *Kernel) setEventLocked(id TaskID, mask EventMask) StatusType {
	if int(id) >= len(k.tasks) {
		return k.fail("SetEvent", StatusInvalidID)
	}
	tcb := &k.tasks[id]
	tcb.setEvent |= mask
	if tcb.state == TaskWaiting && tcb.setEvent&tcb.waitEvent != 0 {
		tcb.state = TaskReady
		tcb.waitEvent = 0
		k.raiseScheduleRequest()
	}
	return StatusOK
}

// ClearEvent AND-NOTs mask out of the current task's set_mask.
func (k *Kernel) ClearEvent(mask EventMask) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if !k.hasCurrent {
		return k.fail("ClearEvent", StatusInvalidState)
	}
	k.tasks[k.currentTask].setEvent &^= mask
	return StatusOK
}

// GetEvent returns a snapshot of task id's set_mask.
func (k *Kernel) GetEvent(id TaskID) (EventMask, StatusType) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if int(id) >= len(k.tasks) {
		return 0, k.fail("GetEvent", StatusInvalidID)
	}
	return k.tasks[id].setEvent, StatusOK
}
