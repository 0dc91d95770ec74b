package osek_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osek "github.com/joeycumines/go-osek"
	"github.com/joeycumines/go-osek/kernelcfg"
)

func newAlarmTestKernel(t *testing.T, min uint32, action kernelcfg.ActionSpec) *osek.Kernel {
	t.Helper()
	b := kernelcfg.NewBuilder()
	_, err := b.AddTask(kernelcfg.TaskSpec{Entry: func() {}})
	require.NoError(t, err)
	counterID, err := b.AddCounter(kernelcfg.CounterSpec{Max: 10000, MinCycle: min})
	require.NoError(t, err)
	_, err = b.AddAlarm(counterID, action)
	require.NoError(t, err)
	cfg, err := b.Build()
	require.NoError(t, err)
	k, err := osek.New(cfg)
	require.NoError(t, err)
	return k
}

func TestSetRelAlarmRejectsZeroOffset(t *testing.T) {
	k := newAlarmTestKernel(t, 0, kernelcfg.ActivateTask(0))
	status := k.SetRelAlarm(0, 0, 0)
	assert.Equal(t, osek.StatusInvalidValue, status)
}

func TestSetRelAlarmRejectsCycleBelowMinimum(t *testing.T) {
	k := newAlarmTestKernel(t, 50, kernelcfg.ActivateTask(0))
	status := k.SetRelAlarm(0, 10, 5)
	assert.Equal(t, osek.StatusInvalidValue, status)
}

func TestSetRelAlarmInvalidID(t *testing.T) {
	k := newAlarmTestKernel(t, 0, kernelcfg.ActivateTask(0))
	status := k.SetRelAlarm(5, 10, 0)
	assert.Equal(t, osek.StatusInvalidID, status)
}

func TestCancelAlarmIsIdempotent(t *testing.T) {
	k := newAlarmTestKernel(t, 0, kernelcfg.ActivateTask(0))
	require.True(t, k.SetRelAlarm(0, 10, 0).Ok())
	assert.True(t, k.CancelAlarm(0).Ok())
	assert.True(t, k.CancelAlarm(0).Ok())
	_, status := k.GetAlarm(0)
	assert.Equal(t, osek.StatusNoFunc, status)
}

func TestGetAlarmRemainingWraps(t *testing.T) {
	k := newAlarmTestKernel(t, 0, kernelcfg.ActivateTask(0))
	for i := 0; i < 9997; i++ { // advance counter close to wrap (max=10000)
		require.True(t, k.Tick(0).Ok())
	}
	require.True(t, k.SetAbsAlarm(0, 5, 0).Ok())
	remaining, status := k.GetAlarm(0)
	require.True(t, status.Ok())
	// current is now 9997; expiry is 5; remaining = 10000-9997+5 = 8
	assert.Equal(t, uint32(8), remaining)
}

func TestOneShotAlarmFiresOnceThenInactive(t *testing.T) {
	fired := 0
	b := kernelcfg.NewBuilder()
	_, err := b.AddTask(kernelcfg.TaskSpec{Entry: func() {}})
	require.NoError(t, err)
	counterID, err := b.AddCounter(kernelcfg.CounterSpec{Max: 10000})
	require.NoError(t, err)
	_, err = b.AddAlarm(counterID, kernelcfg.Callback(func() { fired++ }))
	require.NoError(t, err)
	cfg, err := b.Build()
	require.NoError(t, err)
	k, err := osek.New(cfg)
	require.NoError(t, err)

	require.True(t, k.SetRelAlarm(0, 100, 0).Ok())
	for i := 0; i < 150; i++ {
		require.True(t, k.Tick(0).Ok())
	}
	assert.Equal(t, 1, fired)
	_, status := k.GetAlarm(0)
	assert.Equal(t, osek.StatusNoFunc, status, "one-shot alarm must be INACTIVE after firing")
}

func TestCyclicAlarmActivatesTaskRepeatedly(t *testing.T) {
	k := newAlarmTestKernel(t, 0, kernelcfg.ActivateTask(0))
	require.True(t, k.SetRelAlarm(0, 200, 5000).Ok())

	for i := 0; i < 200; i++ {
		require.True(t, k.Tick(0).Ok())
	}
	count, status := k.GetTaskState(0)
	require.True(t, status.Ok())
	assert.Equal(t, osek.TaskReady, count)

	// The scheduler never runs, so the first activation stays pending; the
	// second firing at tick 5200 adds another (limit 2) and the task stays
	// READY.
	for i := 0; i < 5000; i++ {
		require.True(t, k.Tick(0).Ok())
	}
	state, _ := k.GetTaskState(0)
	assert.Equal(t, osek.TaskReady, state)
}
