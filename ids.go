package osek

// TaskID is a dense index into the kernel's task table, in [0, TASK_NUM).
type TaskID uint16

// CounterID is a dense index into the kernel's counter table.
type CounterID uint16

// AlarmID is a dense index into the kernel's alarm table.
type AlarmID uint16

// ScheduleTableID is a dense index into the kernel's schedule-table table.
type ScheduleTableID uint16

// ChannelID is a dense index into the kernel's IOC channel table.
type ChannelID uint16

// EventMask is a 32-bit set of independent event flags private to one task.
type EventMask uint32

// TrustedFunctionIndex is a dense index into the trusted-function registry.
type TrustedFunctionIndex uint16

// AppID identifies the application (trust domain) a task belongs to, used
// to key the trusted-function permission matrix.
type AppID uint16
