package osek

import (
	"github.com/joeycumines/go-osek/internal/ring"
)

// receiverIndex returns id's position in channel ch's receiver list, or
// -1 if id is not registered on ch.
func (k *Kernel) receiverIndex(ch ChannelID, id TaskID) int {
	for i, r := range k.channels[ch].receivers {
		if r == id {
			return i
		}
	}
	return -1
}

// iocSendLocked pushes v onto channel ch's shared ring and wakes every
// registered receiver by setting event bit (1 << ch) on it, per spec
// §4.6. Each receiver reads via its own cursor (the resolution of the
// spec's open IOC broadcast question): a receive by one receiver never
// consumes data for another.
func (k *Kernel) iocSendLocked(ch ChannelID, v any) StatusType {
	if int(ch) >= len(k.channels) {
		return k.fail("Send", StatusInvalidID)
	}
	c := &k.channels[ch]
	if c.buffer.Push(v) {
		k.metrics.IncIOCOverwrites()
	}
	k.metrics.IncIOCSends()
	mask := EventMask(1) << uint(ch)
	for _, r := range c.receivers {
		k.setEventLocked(r, mask)
	}
	return StatusOK
}

// Send pushes v onto channel ch, typed at the call site. Overflow policy
// is overwrite-oldest, matching the bounded IOC ring in spec §4.6.
func Send[T any](k *Kernel, ch ChannelID, v T) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	return k.iocSendLocked(ch, v)
}

// Receive dequeues the next element of channel ch for receiver, from
// receiver's own read cursor. It fails NO_FUNC if receiver has nothing
// pending, and INVALID_ID if ch is out of range or receiver is not
// registered on it.
func Receive[T any](k *Kernel, ch ChannelID, receiver TaskID) (T, StatusType) {
	k.mu.Lock()
	defer k.mu.Unlock()
	var zero T
	if k.halted {
		return zero, StatusInvalidState
	}
	if int(ch) >= len(k.channels) {
		return zero, k.fail("Receive", StatusInvalidID)
	}
	c := &k.channels[ch]
	idx := k.receiverIndex(ch, receiver)
	if idx < 0 {
		return zero, k.fail("Receive", StatusInvalidID)
	}
	v, ok := ring.Next(&c.cursors[idx], c.buffer)
	if !ok {
		return zero, k.fail("Receive", StatusNoFunc)
	}
	k.metrics.IncIOCReceives()
	typed, ok := v.(T)
	if !ok {
		return zero, k.fail("Receive", StatusInvalidValue)
	}
	return typed, StatusOK
}

// ReceiveGroup atomically dequeues exactly n elements for receiver from
// channel ch, in FIFO order, or fails NO_FUNC without consuming anything
// if fewer than n are currently pending.
func ReceiveGroup[T any](k *Kernel, ch ChannelID, receiver TaskID, n int) ([]T, StatusType) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return nil, StatusInvalidState
	}
	if int(ch) >= len(k.channels) {
		return nil, k.fail("ReceiveGroup", StatusInvalidID)
	}
	c := &k.channels[ch]
	idx := k.receiverIndex(ch, receiver)
	if idx < 0 {
		return nil, k.fail("ReceiveGroup", StatusInvalidID)
	}
	if ring.PendingFor(&c.cursors[idx], c.buffer) < n {
		return nil, k.fail("ReceiveGroup", StatusNoFunc)
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, _ := ring.Next(&c.cursors[idx], c.buffer)
		typed, _ := v.(T)
		out = append(out, typed)
	}
	k.metrics.IncIOCReceives()
	return out, StatusOK
}

// HasNewData reports whether receiver has at least one unread element
// pending on channel ch.
func (k *Kernel) HasNewData(ch ChannelID, receiver TaskID) (bool, StatusType) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if int(ch) >= len(k.channels) {
		return false, k.fail("HasNewData", StatusInvalidID)
	}
	c := &k.channels[ch]
	idx := k.receiverIndex(ch, receiver)
	if idx < 0 {
		return false, k.fail("HasNewData", StatusInvalidID)
	}
	return ring.PendingFor(&c.cursors[idx], c.buffer) > 0, StatusOK
}
