package osek

// StackMonitor supplements the spec with the original source's stack guard
// and watermark diagnostics (os_hooks.c's OS_StackGuard_Check and
// OS_StackWatermark_*), reinterpreted for a goroutine-based runtime: there
// is no single C stack pointer to compare against a guard address, so a
// StackMonitor instead tracks a caller-reported budget per task and flags
// a breach when a task reports usage past its margin.
//
// The zero value of no monitor (nil Kernel.stack) disables the check
// entirely, matching OS_USE_* feature flags in Os_Cfg.h that can compile
// the guard out.
type StackMonitor interface {
	// Check reports whether task id's most recent reported usage has
	// breached its configured margin.
	Check(id TaskID) (StatusType, bool)
	// Report records taskID's current stack usage in bytes, analogous to
	// OS_StackWatermark_UsedBytes scanning a painted region for the high
	// watermark.
	Report(id TaskID, usedBytes uint32)
}

// SimulatedStackMonitor is a byte-budget StackMonitor: each task is given a
// fixed budget and a margin; Report records usage, Check compares the last
// reported usage against budget-margin, mirroring OS_StackGuard_Set's
// low-address-plus-margin breach rule without needing real stack addresses.
type SimulatedStackMonitor struct {
	budget  []uint32
	margin  []uint32
	used    []uint32
	watermark []uint32
}

// NewSimulatedStackMonitor builds a monitor for numTasks tasks, each given
// the same budget and margin.
func NewSimulatedStackMonitor(numTasks int, budget, margin uint32) *SimulatedStackMonitor {
	m := &SimulatedStackMonitor{
		budget:    make([]uint32, numTasks),
		margin:    make([]uint32, numTasks),
		used:      make([]uint32, numTasks),
		watermark: make([]uint32, numTasks),
	}
	for i := range m.budget {
		m.budget[i] = budget
		m.margin[i] = margin
	}
	return m
}

func (m *SimulatedStackMonitor) Report(id TaskID, usedBytes uint32) {
	if int(id) >= len(m.used) {
		return
	}
	m.used[id] = usedBytes
	if usedBytes > m.watermark[id] {
		m.watermark[id] = usedBytes
	}
}

func (m *SimulatedStackMonitor) Check(id TaskID) (StatusType, bool) {
	if int(id) >= len(m.used) {
		return StatusInvalidID, true
	}
	limit := m.budget[id]
	if m.margin[id] < limit {
		limit -= m.margin[id]
	} else {
		limit = 0
	}
	if m.used[id] > limit {
		return StatusStackFault, true
	}
	return StatusOK, false
}

// Watermark returns the highest usage ever reported for task id.
func (m *SimulatedStackMonitor) Watermark(id TaskID) uint32 {
	if int(id) >= len(m.watermark) {
		return 0
	}
	return m.watermark[id]
}
