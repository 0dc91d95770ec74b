package osek

import "time"

// SetRelAlarm arms alarm id to fire offset ticks from the current value of
// its bound counter, repeating every cycle ticks if cycle > 0. Arming an
// already-ACTIVE alarm overwrites its schedule.
func (k *Kernel) SetRelAlarm(id AlarmID, offset, cycle uint32) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if int(id) >= len(k.alarms) {
		return k.fail("SetRelAlarm", StatusInvalidID)
	}
	if offset == 0 {
		return k.fail("SetRelAlarm", StatusInvalidValue)
	}
	a := &k.alarms[id]
	c := &k.counters[a.counter]
	if cycle != 0 && cycle < c.minCycle {
		return k.fail("SetRelAlarm", StatusInvalidValue)
	}
	a.expiry = (c.current + offset) % c.max
	a.cycle = cycle
	a.state = AlarmActive
	return StatusOK
}

// SetAbsAlarm arms alarm id to fire when its bound counter reaches start
// (mod counter.max), repeating every cycle ticks if cycle > 0.
func (k *Kernel) SetAbsAlarm(id AlarmID, start, cycle uint32) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if int(id) >= len(k.alarms) {
		return k.fail("SetAbsAlarm", StatusInvalidID)
	}
	a := &k.alarms[id]
	c := &k.counters[a.counter]
	if cycle != 0 && cycle < c.minCycle {
		return k.fail("SetAbsAlarm", StatusInvalidValue)
	}
	a.expiry = start % c.max
	a.cycle = cycle
	a.state = AlarmActive
	return StatusOK
}

// CancelAlarm deactivates alarm id without mutating its other fields.
func (k *Kernel) CancelAlarm(id AlarmID) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if int(id) >= len(k.alarms) {
		return k.fail("CancelAlarm", StatusInvalidID)
	}
	k.alarms[id].state = AlarmInactive
	return StatusOK
}

// GetAlarm returns the number of ticks remaining until alarm id next
// fires, wrapping through the bound counter's modulus.
func (k *Kernel) GetAlarm(id AlarmID) (uint32, StatusType) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if int(id) >= len(k.alarms) {
		return 0, k.fail("GetAlarm", StatusInvalidID)
	}
	a := &k.alarms[id]
	if a.state != AlarmActive {
		return 0, k.fail("GetAlarm", StatusNoFunc)
	}
	c := &k.counters[a.counter]
	return diffWrap(a.expiry, c.current, c.max), StatusOK
}

// diffWrap computes the forward distance from cur to target modulo m.
func diffWrap(target, cur, m uint32) uint32 {
	if target >= cur {
		return target - cur
	}
	return m - cur + target
}

// fireAlarm runs alarm id's action and either re-arms it (cyclic) or
// deactivates it (one-shot). Called with k.mu held, from counter tick
// dispatch, in counter-attachment order.
func (k *Kernel) fireAlarm(id AlarmID, tickStart time.Time) {
	a := &k.alarms[id]
	k.dispatchAction(a.action, tickStart)
	if a.cycle > 0 {
		c := &k.counters[a.counter]
		a.expiry = (a.expiry + a.cycle) % c.max
	} else {
		a.state = AlarmInactive
	}
	k.metrics.IncAlarmFires()
}
