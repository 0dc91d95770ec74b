// Package kernelcfg provides a validating, fluent builder for the kernel's
// static configuration: the task table, counters, alarms, schedule tables,
// IOC channels, and the trusted-function permission matrix. Everything
// produced by Builder.Build is immutable and sized once; the kernel never
// grows any table at runtime.
//
// This is the Go realization of the original source's Os_Cfg.h plus the
// static tables declared in kernel.h/Os.c (the task table, the trusted
// function registry, and the per-app permission matrix), grounded on the
// teacher's LoopOption functional-options idiom but shaped as a builder
// because kernel configuration is order- and validity-sensitive: a
// counter's alarms fire in attachment order (spec §4.1), so "options
// applied in any order" is the wrong model here.
package kernelcfg

import (
	"errors"
	"fmt"
)

// TaskSpec configures one task table entry.
type TaskSpec struct {
	// Entry is the task's zero-argument entry function. Required.
	Entry func()
	// Priority is advisory (the scheduler is round-robin over READY tasks);
	// 0 is highest.
	Priority uint8
	// ActivationLimit bounds simultaneous pending activations. If zero, it
	// defaults to 2 (matching the original os_init default), but an
	// explicitly configured value is always authoritative and is never
	// clobbered later.
	ActivationLimit uint8
	// AppID is the trust domain used to key the trusted-function
	// permission matrix.
	AppID uint16
}

// CounterSpec configures one counter.
type CounterSpec struct {
	// Max is the counter's modulus; current advances in [0, Max).
	Max uint32
	// TicksPerBase is informational configuration carried through from the
	// spec's data model; the kernel does not scale ticks itself (the tick
	// source is expected to already be calling Tick at the base period).
	TicksPerBase uint32
	// MinCycle is the minimum cyclic alarm period enforced at alarm setup.
	MinCycle uint32
}

// AlarmSpec configures one alarm, bound permanently to a counter and to an
// action at configuration time. The order alarms are added for a given
// counter is the order they fire within a tick. SetRelAlarm/SetAbsAlarm
// arm and re-arm the alarm's timing (expiry, cycle) but never change which
// counter or action it is bound to.
type AlarmSpec struct {
	Counter uint16
	Action  ActionSpec
}

// ExpiryPointSpec configures one expiry point within a schedule table.
type ExpiryPointSpec struct {
	// Offset is the tick offset from the table's start_time, in
	// [0, Duration).
	Offset uint32
	Action ActionSpec
}

// ActionSpec is the configuration-time form of osek.Action (kernelcfg
// cannot import the root package, which imports kernelcfg's Config type;
// it is converted 1:1 at Kernel construction).
type ActionSpec struct {
	Kind     uint8 // 0=ActivateTask 1=SetEvent 2=Callback
	Task     uint16
	Mask     uint32
	Callback func()
}

// ActivateTask builds an ActionSpec that activates task id.
func ActivateTask(id uint16) ActionSpec { return ActionSpec{Kind: 0, Task: id} }

// SetEvent builds an ActionSpec that sets mask on task id.
func SetEvent(id uint16, mask uint32) ActionSpec { return ActionSpec{Kind: 1, Task: id, Mask: mask} }

// Callback builds an ActionSpec that invokes fn.
func Callback(fn func()) ActionSpec { return ActionSpec{Kind: 2, Callback: fn} }

// ScheduleTableSpec configures one schedule table.
type ScheduleTableSpec struct {
	Counter      uint16
	Duration     uint32
	Cyclic       bool
	ExpiryPoints []ExpiryPointSpec
}

// ChannelSpec configures one IOC channel. Unlike the C original, which
// copies data_size raw bytes, each Go channel is strongly typed at the
// call site via the generic Send/Receive functions; Capacity is the only
// per-channel sizing knob retained from the data model (AddChannel sets it
// to 8 when it is zero or negative).
type ChannelSpec struct {
	Receivers []uint16
	Capacity  int
}

// Config is the immutable, validated result of Builder.Build.
type Config struct {
	Tasks            []TaskSpec
	Counters         []CounterSpec
	Alarms           []AlarmSpec
	ScheduleTables   []ScheduleTableSpec
	Channels         []ChannelSpec
	TrustedFunctions []func(any)
	// Permissions[appID][functionIndex] = allow.
	Permissions [][]bool
	// MetricsEnabled turns on osekmetrics collection inside the kernel.
	MetricsEnabled bool
}

// Builder incrementally assembles a Config, validating each addition
// immediately so configuration errors are attributed to the call that
// caused them rather than surfacing only at Build.
type Builder struct {
	cfg Config
	err error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddTask appends a task and returns its dense TaskID.
func (b *Builder) AddTask(spec TaskSpec) (uint16, error) {
	if b.err != nil {
		return 0, b.err
	}
	if spec.Entry == nil {
		b.fail(errors.New("kernelcfg: task Entry must not be nil"))
		return 0, b.err
	}
	if spec.ActivationLimit == 0 {
		spec.ActivationLimit = 2
	}
	id := uint16(len(b.cfg.Tasks))
	b.cfg.Tasks = append(b.cfg.Tasks, spec)
	return id, nil
}

// AddCounter appends a counter and returns its dense CounterID.
func (b *Builder) AddCounter(spec CounterSpec) (uint16, error) {
	if b.err != nil {
		return 0, b.err
	}
	if spec.Max == 0 {
		b.fail(errors.New("kernelcfg: counter Max must be positive"))
		return 0, b.err
	}
	id := uint16(len(b.cfg.Counters))
	b.cfg.Counters = append(b.cfg.Counters, spec)
	return id, nil
}

// AddAlarm attaches a new alarm to counter, bound permanently to action,
// and returns its dense AlarmID. Attachment order is iteration order
// (spec §4.1): alarms attached to the same counter fire in the order
// AddAlarm was called for that counter.
func (b *Builder) AddAlarm(counter uint16, action ActionSpec) (uint16, error) {
	if b.err != nil {
		return 0, b.err
	}
	if int(counter) >= len(b.cfg.Counters) {
		b.fail(fmt.Errorf("kernelcfg: AddAlarm: counter %d out of range", counter))
		return 0, b.err
	}
	id := uint16(len(b.cfg.Alarms))
	b.cfg.Alarms = append(b.cfg.Alarms, AlarmSpec{Counter: counter, Action: action})
	return id, nil
}

// AddScheduleTable appends a schedule table and returns its dense
// ScheduleTableID. Expiry-point offsets must be strictly non-decreasing
// and within [0, Duration).
func (b *Builder) AddScheduleTable(spec ScheduleTableSpec) (uint16, error) {
	if b.err != nil {
		return 0, b.err
	}
	if int(spec.Counter) >= len(b.cfg.Counters) {
		b.fail(fmt.Errorf("kernelcfg: AddScheduleTable: counter %d out of range", spec.Counter))
		return 0, b.err
	}
	if spec.Duration == 0 {
		b.fail(errors.New("kernelcfg: AddScheduleTable: Duration must be positive"))
		return 0, b.err
	}
	last := uint32(0)
	for i, ep := range spec.ExpiryPoints {
		if ep.Offset >= spec.Duration {
			b.fail(fmt.Errorf("kernelcfg: AddScheduleTable: expiry point %d offset %d >= duration %d", i, ep.Offset, spec.Duration))
			return 0, b.err
		}
		if i > 0 && ep.Offset < last {
			b.fail(fmt.Errorf("kernelcfg: AddScheduleTable: expiry point %d offset %d decreases from %d", i, ep.Offset, last))
			return 0, b.err
		}
		last = ep.Offset
	}
	id := uint16(len(b.cfg.ScheduleTables))
	b.cfg.ScheduleTables = append(b.cfg.ScheduleTables, spec)
	return id, nil
}

// AddChannel appends an IOC channel and returns its dense ChannelID.
func (b *Builder) AddChannel(spec ChannelSpec) (uint16, error) {
	if b.err != nil {
		return 0, b.err
	}
	if spec.Capacity <= 0 {
		spec.Capacity = 8
	}
	id := uint16(len(b.cfg.Channels))
	b.cfg.Channels = append(b.cfg.Channels, spec)
	return id, nil
}

// SetTrustedFunctions installs the trusted-function registry, indexed by
// position (function index = slice index), and the per-app permission
// matrix (permissions[appID][functionIndex]).
func (b *Builder) SetTrustedFunctions(functions []func(any), permissions [][]bool) *Builder {
	if b.err != nil {
		return b
	}
	for appID, row := range permissions {
		if len(row) != len(functions) {
			return b.fail(fmt.Errorf("kernelcfg: permissions row for app %d has %d entries, want %d", appID, len(row), len(functions)))
		}
	}
	b.cfg.TrustedFunctions = functions
	b.cfg.Permissions = permissions
	return b
}

// WithMetrics enables osekmetrics collection in the built kernel.
func (b *Builder) WithMetrics(enabled bool) *Builder {
	if b.err != nil {
		return b
	}
	b.cfg.MetricsEnabled = enabled
	return b
}

// Build validates cross-references (alarms/tables refer to counters;
// actions refer to task IDs) and returns the immutable Config.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.cfg.Tasks) == 0 {
		return nil, errors.New("kernelcfg: at least one task is required")
	}
	if len(b.cfg.Counters) == 0 {
		return nil, errors.New("kernelcfg: at least one counter is required")
	}
	checkTask := func(id uint16) error {
		if int(id) >= len(b.cfg.Tasks) {
			return fmt.Errorf("kernelcfg: task %d out of range", id)
		}
		return nil
	}
	checkAction := func(a ActionSpec) error {
		switch a.Kind {
		case 0, 1:
			return checkTask(a.Task)
		}
		return nil
	}
	for _, al := range b.cfg.Alarms {
		if err := checkAction(al.Action); err != nil {
			return nil, err
		}
	}
	for _, st := range b.cfg.ScheduleTables {
		for _, ep := range st.ExpiryPoints {
			if err := checkAction(ep.Action); err != nil {
				return nil, err
			}
		}
	}
	for _, ch := range b.cfg.Channels {
		for _, r := range ch.Receivers {
			if err := checkTask(r); err != nil {
				return nil, err
			}
		}
	}
	cfg := b.cfg
	return &cfg, nil
}
