package osek

import (
	"sync"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-osek/internal/ring"
	"github.com/joeycumines/go-osek/kernelcfg"
	"github.com/joeycumines/go-osek/osekmetrics"
)

// taskControlBlock is the runtime state of one task, the Go realization of
// the original's TaskControlBlock struct (kernel.h), addressed by dense
// TaskID rather than by pointer.
type taskControlBlock struct {
	entry           func()
	priority        uint8
	activationLimit uint8
	activationCount uint8
	state           TaskState
	setEvent        EventMask
	waitEvent       EventMask
	appID           AppID
}

// counterRuntime is the runtime state of one counter (kernel.h's
// CounterType), with its attached alarms kept in attachment order via a
// BoundedList so the firing order required by spec §4.1 is deterministic.
type counterRuntime struct {
	current  uint32
	max      uint32
	minCycle uint32
	alarms   *ring.BoundedList[AlarmID]
}

// alarmRuntime is the runtime state of one alarm (kernel.h's AlarmType).
type alarmRuntime struct {
	counter CounterID
	state   AlarmState
	expiry  uint32
	cycle   uint32 // 0 for one-shot
	action  Action
}

// expiryPoint is one entry in a schedule table.
type expiryPoint struct {
	offset uint32
	action Action
}

// scheduleTableRuntime is the runtime state of one schedule table.
type scheduleTableRuntime struct {
	counter      CounterID
	duration     uint32
	cyclic       bool
	expiryPoints []expiryPoint
	state        ScheduleTableState
	startTime    uint32 // counter value the table's offset-0 is relative to
	nextIndex    int    // index into expiryPoints of the next due point
	waitRemaining uint32 // ticks left until current reaches startTime, valid only while WAITING_START
}

// channelRuntime is the runtime state of one IOC channel: a single shared
// Ring of boxed values with one independent read Cursor per registered
// receiver, implementing the broadcast semantics resolved for the spec's
// IOC multi-receiver open question.
type channelRuntime struct {
	buffer    *ring.Ring[any]
	receivers []TaskID
	cursors   []ring.Cursor
}

// Kernel is the single coordination fabric for every task, counter, alarm,
// schedule table, and IOC channel in one configuration. All state is
// owned by Kernel and guarded by mu; every exported method takes mu for
// its duration, modeling the original's ISR-vs-task critical sections as
// plain mutual exclusion.
type Kernel struct {
	mu sync.Mutex

	tasks    []taskControlBlock
	counters []counterRuntime
	alarms   []alarmRuntime
	tables   []scheduleTableRuntime
	channels []channelRuntime

	trustedFunctions []func(any)
	permissions      [][]bool

	hooks       Hooks
	logger      Logger
	stack       StackMonitor
	metrics     *osekmetrics.Metrics
	denyLimiter *catrate.Limiter

	currentTask TaskID
	hasCurrent  bool
	scheduling  bool

	requestCh chan struct{}

	halted     bool
	haltStatus StatusType
}

// New builds a Kernel from a validated [kernelcfg.Config]. The returned
// Kernel has every task SUSPENDED and every alarm and schedule table
// inactive/stopped; callers activate tasks and arm alarms explicitly, or
// rely on a schedule table Start call, before driving Tick.
func New(cfg *kernelcfg.Config, opts ...KernelOption) (*Kernel, error) {
	resolved, err := resolveKernelOptions(opts)
	if err != nil {
		return nil, err
	}

	k := &Kernel{
		logger:      resolved.logger,
		hooks:       resolved.hooks,
		stack:       resolved.stack,
		metrics:     resolved.metrics,
		denyLimiter: resolved.denyLimiter,
		requestCh:   make(chan struct{}, 1),
	}
	if k.metrics == nil && cfg.MetricsEnabled {
		k.metrics = osekmetrics.New()
	}

	k.tasks = make([]taskControlBlock, len(cfg.Tasks))
	for i, t := range cfg.Tasks {
		k.tasks[i] = taskControlBlock{
			entry:           t.Entry,
			priority:        t.Priority,
			activationLimit: t.ActivationLimit,
			state:           TaskSuspended,
			appID:           AppID(t.AppID),
		}
	}

	k.counters = make([]counterRuntime, len(cfg.Counters))
	for i, c := range cfg.Counters {
		k.counters[i] = counterRuntime{
			max:      c.Max,
			minCycle: c.MinCycle,
			alarms:   ring.NewBoundedList[AlarmID](len(cfg.Alarms) + 1),
		}
	}

	k.alarms = make([]alarmRuntime, len(cfg.Alarms))
	for i, a := range cfg.Alarms {
		k.alarms[i] = alarmRuntime{
			counter: CounterID(a.Counter),
			state:   AlarmInactive,
			action:  actionFromSpec(a.Action),
		}
		k.counters[a.Counter].alarms.Append(AlarmID(i))
	}

	k.tables = make([]scheduleTableRuntime, len(cfg.ScheduleTables))
	for i, st := range cfg.ScheduleTables {
		points := make([]expiryPoint, len(st.ExpiryPoints))
		for j, ep := range st.ExpiryPoints {
			points[j] = expiryPoint{offset: ep.Offset, action: actionFromSpec(ep.Action)}
		}
		k.tables[i] = scheduleTableRuntime{
			counter:      CounterID(st.Counter),
			duration:     st.Duration,
			cyclic:       st.Cyclic,
			expiryPoints: points,
			state:        ScheduleTableStopped,
		}
	}

	k.channels = make([]channelRuntime, len(cfg.Channels))
	for i, ch := range cfg.Channels {
		k.channels[i] = channelRuntime{
			buffer:    ring.New[any](ch.Capacity),
			receivers: append([]TaskID(nil), taskIDs(ch.Receivers)...),
			cursors:   make([]ring.Cursor, len(ch.Receivers)),
		}
	}

	k.trustedFunctions = cfg.TrustedFunctions
	k.permissions = cfg.Permissions

	if k.hooks.Startup != nil {
		k.hooks.Startup()
	}
	return k, nil
}

func taskIDs(ids []uint16) []TaskID {
	out := make([]TaskID, len(ids))
	for i, v := range ids {
		out[i] = TaskID(v)
	}
	return out
}

func actionFromSpec(a kernelcfg.ActionSpec) Action {
	switch a.Kind {
	case 1:
		return SetEventAction(TaskID(a.Task), EventMask(a.Mask))
	case 2:
		return CallbackAction(a.Callback)
	default:
		return ActivateTaskAction(TaskID(a.Task))
	}
}

// fail logs+hooks a non-OK status and returns it unchanged, so call sites
// can write "return k.fail(op, status)" at every error return.
func (k *Kernel) fail(op string, status StatusType) StatusType {
	k.runErrorHook(op, status)
	return status
}

// ShutdownOS permanently halts the kernel: every subsequent mutating API
// call returns StatusInvalidState (or ErrKernelHalted, for the
// error-returning entry points) without touching any table. The read-only
// queries (GetTaskState, GetEvent, GetAlarm, HasNewData) do not check for a
// halt and keep answering. This is the Go realization of
// the original's ShutdownOS "while(1)" halt, which a goroutine cannot
// literally perform without blocking its caller forever.
func (k *Kernel) ShutdownOS(status StatusType) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return
	}
	k.halted = true
	k.haltStatus = status
	k.logger.Errf("kernel halted", "status", status.String())
	if k.hooks.Shutdown != nil {
		k.hooks.Shutdown(status)
	}
}

// Halted reports whether ShutdownOS has been called.
func (k *Kernel) Halted() (bool, StatusType) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.halted, k.haltStatus
}

// Metrics returns the kernel's metrics collector, or nil if metrics were
// not enabled.
func (k *Kernel) Metrics() *osekmetrics.Metrics { return k.metrics }
