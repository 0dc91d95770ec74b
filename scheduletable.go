package osek

import "time"

// StartRel arms schedule table id to begin offset ticks from its bound
// counter's current value. The table moves to WAITING_START; it becomes
// RUNNING once a tick observes elapsed-from-start within [0, duration).
func (k *Kernel) StartRel(id ScheduleTableID, offset uint32) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if int(id) >= len(k.tables) {
		return k.fail("StartRel", StatusInvalidID)
	}
	st := &k.tables[id]
	if st.state != ScheduleTableStopped {
		return k.fail("StartRel", StatusInvalidState)
	}
	c := &k.counters[st.counter]
	if offset >= c.max {
		return k.fail("StartRel", StatusInvalidValue)
	}
	st.startTime = (c.current + offset) % c.max
	st.nextIndex = 0
	st.waitRemaining = offset
	st.state = ScheduleTableWaitingStart
	return StatusOK
}

// StartAbs arms schedule table id to begin when its bound counter reaches
// start (mod counter.max).
func (k *Kernel) StartAbs(id ScheduleTableID, start uint32) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if int(id) >= len(k.tables) {
		return k.fail("StartAbs", StatusInvalidID)
	}
	st := &k.tables[id]
	if st.state != ScheduleTableStopped {
		return k.fail("StartAbs", StatusInvalidState)
	}
	c := &k.counters[st.counter]
	if start >= c.max {
		return k.fail("StartAbs", StatusInvalidValue)
	}
	st.startTime = start % c.max
	st.nextIndex = 0
	st.waitRemaining = diffWrap(st.startTime, c.current, c.max)
	st.state = ScheduleTableWaitingStart
	return StatusOK
}

// Stop halts schedule table id immediately.
func (k *Kernel) Stop(id ScheduleTableID) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if int(id) >= len(k.tables) {
		return k.fail("Stop", StatusInvalidID)
	}
	st := &k.tables[id]
	if st.state == ScheduleTableStopped {
		return k.fail("Stop", StatusNoFunc)
	}
	st.state = ScheduleTableStopped
	return StatusOK
}

// Sync resets schedule table id's cycle origin to new_offset ticks from
// its counter's current value, re-entering WAITING_START from either
// WAITING_START or RUNNING. A STOPPED table is refused with
// StatusInvalidState.
func (k *Kernel) Sync(id ScheduleTableID, newOffset uint32) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if int(id) >= len(k.tables) {
		return k.fail("Sync", StatusInvalidID)
	}
	st := &k.tables[id]
	if st.state == ScheduleTableStopped {
		return k.fail("Sync", StatusInvalidState)
	}
	c := &k.counters[st.counter]
	st.nextIndex = 0
	st.startTime = (c.current + newOffset) % c.max
	st.waitRemaining = newOffset
	st.state = ScheduleTableWaitingStart
	return StatusOK
}

// scheduleTableTickLocked dispatches every table bound to counter id that
// is not STOPPED, in table declaration order. Called with k.mu held, after
// alarm dispatch, from the tick path (spec §4.1/§4.3).
func (k *Kernel) scheduleTableTickLocked(id CounterID, tickStart time.Time) {
	for i := range k.tables {
		st := &k.tables[i]
		if st.counter != id || st.state == ScheduleTableStopped {
			continue
		}
		k.dispatchScheduleTable(st, tickStart)
	}
}

func (k *Kernel) dispatchScheduleTable(st *scheduleTableRuntime, tickStart time.Time) {
	c := &k.counters[st.counter]

	if st.state == ScheduleTableWaitingStart {
		// waitRemaining counts ticks until current reaches startTime. It is
		// tracked explicitly (rather than derived from diffWrap against
		// startTime) because while current is still behind startTime,
		// diffWrap wraps almost a full lap and is indistinguishable from a
		// genuinely missed cycle.
		if st.waitRemaining > 0 {
			st.waitRemaining--
			if st.waitRemaining > 0 {
				return
			}
		}
		st.state = ScheduleTableRunning
		st.nextIndex = 0
	}

	elapsed := diffWrap(c.current, st.startTime, c.max)
	k.catchUp(st, elapsed, tickStart)

	if elapsed >= st.duration {
		if st.cyclic {
			periods := elapsed / st.duration
			st.startTime = (st.startTime + periods*st.duration) % c.max
			st.nextIndex = 0
			st.state = ScheduleTableWaitingStart
			newElapsed := diffWrap(c.current, st.startTime, c.max)
			if newElapsed < st.duration {
				st.state = ScheduleTableRunning
				k.catchUp(st, newElapsed, tickStart)
			}
		} else {
			st.state = ScheduleTableStopped
		}
		k.metrics.IncScheduleTableTicks()
	}
}

// catchUp fires every expiry point whose offset is due given elapsed,
// advancing nextIndex as it goes, guaranteeing that a batch of skipped
// ticks still fires every eligible point exactly once, in order.
func (k *Kernel) catchUp(st *scheduleTableRuntime, elapsed uint32, tickStart time.Time) {
	for st.nextIndex < len(st.expiryPoints) && st.expiryPoints[st.nextIndex].offset <= elapsed {
		k.dispatchAction(st.expiryPoints[st.nextIndex].action, tickStart)
		st.nextIndex++
		k.metrics.IncCatchUpFires()
	}
}
