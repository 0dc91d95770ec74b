package osek

import "fmt"

// TaskState is the state of a task control block.
//
//	SUSPENDED → READY    [ActivateTask, activation_count: 0 → 1]
//	READY     → RUNNING  [Schedule picks this task]
//	RUNNING   → READY    [TerminateTask/ChainTask, activation_count still > 0]
//	RUNNING   → SUSPENDED [TerminateTask/ChainTask, activation_count == 0]
//	RUNNING   → WAITING  [WaitEvent, awaited mask not yet satisfied]
//	WAITING   → READY    [SetEvent satisfies the awaited mask]
type TaskState uint8

const (
	// TaskSuspended is the initial state; activation_count == 0.
	TaskSuspended TaskState = iota
	// TaskReady means the task is eligible to be picked by Schedule.
	TaskReady
	// TaskRunning means the task is currently executing (at most one task
	// system-wide may hold this state outside a kernel API call).
	TaskRunning
	// TaskWaiting means the task called WaitEvent and its awaited mask has
	// not yet been satisfied.
	TaskWaiting
)

func (s TaskState) String() string {
	switch s {
	case TaskSuspended:
		return "SUSPENDED"
	case TaskReady:
		return "READY"
	case TaskRunning:
		return "RUNNING"
	case TaskWaiting:
		return "WAITING"
	default:
		return fmt.Sprintf("TaskState(%d)", uint8(s))
	}
}

// AlarmState is the state of an alarm.
type AlarmState uint8

const (
	// AlarmInactive means the alarm is not armed.
	AlarmInactive AlarmState = iota
	// AlarmActive means the alarm has a well-defined expiry and will fire.
	AlarmActive
)

func (s AlarmState) String() string {
	switch s {
	case AlarmInactive:
		return "INACTIVE"
	case AlarmActive:
		return "ACTIVE"
	default:
		return fmt.Sprintf("AlarmState(%d)", uint8(s))
	}
}

// ScheduleTableState is the state of a schedule table.
//
//	STOPPED       → WAITING_START [StartRel/StartAbs]
//	WAITING_START → RUNNING       [tick on which current reaches start_time]
//	WAITING_START → STOPPED       [Stop()]
//	RUNNING       → RUNNING       [cyclic, elapsed >= duration: origin advanced by whole periods, cursor reset]
//	RUNNING       → STOPPED       [non-cyclic, elapsed >= duration, or Stop()]
//	WAITING_START, RUNNING → WAITING_START [Sync(offset)]
//
// A WAITING_START table counts down one unit per Tick and always reaches
// RUNNING; it never moves to STOPPED or skips whole periods on its own.
type ScheduleTableState uint8

const (
	// ScheduleTableStopped is the initial state.
	ScheduleTableStopped ScheduleTableState = iota
	// ScheduleTableWaitingStart means a start has been requested but the
	// table's origin has not yet been reached.
	ScheduleTableWaitingStart
	// ScheduleTableRunning means the table is actively dispatching expiry
	// points within its current cycle.
	ScheduleTableRunning
)

func (s ScheduleTableState) String() string {
	switch s {
	case ScheduleTableStopped:
		return "STOPPED"
	case ScheduleTableWaitingStart:
		return "WAITING_START"
	case ScheduleTableRunning:
		return "RUNNING"
	default:
		return fmt.Sprintf("ScheduleTableState(%d)", uint8(s))
	}
}
