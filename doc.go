// Package osek implements a statically-configured, single-core, cooperative
// real-time kernel in the OSEK/AUTOSAR-OS tradition.
//
// # Architecture
//
// A [Kernel] owns every static table: tasks, counters, alarms, schedule
// tables, IOC channels, and the trusted-function registry. All tables are
// sized at configuration time via [github.com/joeycumines/go-osek/kernelcfg]
// and never grow at runtime.
//
// The coordination fabric follows a single rule: a periodic tick source
// (standing in for a hardware timer ISR) calls [Kernel.Tick], which advances
// a counter, fires due alarms in attachment order, then fires due
// schedule-table expiry points in declared order (with catch-up for missed
// ticks). Alarm and expiry-point actions that activate a task, or that set
// an event a WAITING task is waiting for, raise a deferred scheduling
// request; a driver loop (or
// [Kernel.RunUntilIdle]) observes the request and calls [Kernel.Schedule],
// which runs exactly one READY task to completion on the calling goroutine.
// There is no preemption between tasks and no per-task stack.
//
// # Concurrency
//
// [Kernel.Tick] and the task/event/IOC APIs are safe to call from different
// goroutines (modeling the ISR and the main loop), because every exported
// entry point takes the kernel's single mutex for the duration of its
// critical section, per the OSEK requirement that alarm firing and task
// state mutation never interleave.
//
// # Errors
//
// Most kernel entry points return a [StatusType] rather than an error,
// matching the OSEK convention of a flat, closed status-code taxonomy
// returned by value. A handful of Go-idiomatic entry points ([Kernel.Schedule],
// [Kernel.RequestSchedule]) return an error instead, using sentinel values
// such as [ErrReentrantSchedule] and [ErrKernelHalted].
package osek
