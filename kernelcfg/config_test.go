package kernelcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderMinimalConfig(t *testing.T) {
	b := NewBuilder()
	taskID, err := b.AddTask(TaskSpec{Entry: func() {}})
	require.NoError(t, err)
	assert.Equal(t, uint16(0), taskID)

	counterID, err := b.AddCounter(CounterSpec{Max: 1000})
	require.NoError(t, err)

	cfg, err := b.Build()
	require.NoError(t, err)
	require.Len(t, cfg.Tasks, 1)
	require.Len(t, cfg.Counters, 1)
	assert.Equal(t, uint8(2), cfg.Tasks[0].ActivationLimit, "unset ActivationLimit should default to 2")
	_ = counterID
}

func TestBuilderRejectsNilEntry(t *testing.T) {
	b := NewBuilder()
	_, err := b.AddTask(TaskSpec{})
	require.Error(t, err)
	_, err = b.Build()
	require.Error(t, err, "a prior error must stick across subsequent calls")
}

func TestBuilderRequiresAtLeastOneTaskAndCounter(t *testing.T) {
	_, err := NewBuilder().Build()
	assert.Error(t, err)

	b := NewBuilder()
	_, _ = b.AddTask(TaskSpec{Entry: func() {}})
	_, err = b.Build()
	assert.Error(t, err, "missing a counter should fail Build")
}

func TestAddAlarmValidatesCounterReference(t *testing.T) {
	b := NewBuilder()
	_, _ = b.AddTask(TaskSpec{Entry: func() {}})
	_, err := b.AddAlarm(0, ActivateTask(0))
	require.Error(t, err, "counter 0 does not exist yet")
}

func TestScheduleTableRejectsDecreasingOffsets(t *testing.T) {
	b := NewBuilder()
	taskID, _ := b.AddTask(TaskSpec{Entry: func() {}})
	counterID, _ := b.AddCounter(CounterSpec{Max: 1000})
	_, err := b.AddScheduleTable(ScheduleTableSpec{
		Counter:  counterID,
		Duration: 100,
		ExpiryPoints: []ExpiryPointSpec{
			{Offset: 50, Action: ActivateTask(taskID)},
			{Offset: 10, Action: ActivateTask(taskID)},
		},
	})
	assert.Error(t, err)
}

func TestScheduleTableRejectsOffsetPastDuration(t *testing.T) {
	b := NewBuilder()
	taskID, _ := b.AddTask(TaskSpec{Entry: func() {}})
	counterID, _ := b.AddCounter(CounterSpec{Max: 1000})
	_, err := b.AddScheduleTable(ScheduleTableSpec{
		Counter:  counterID,
		Duration: 100,
		ExpiryPoints: []ExpiryPointSpec{
			{Offset: 150, Action: ActivateTask(taskID)},
		},
	})
	assert.Error(t, err)
}

func TestBuildValidatesActionTaskReferences(t *testing.T) {
	b := NewBuilder()
	_, _ = b.AddTask(TaskSpec{Entry: func() {}})
	counterID, _ := b.AddCounter(CounterSpec{Max: 1000})
	_, err := b.AddScheduleTable(ScheduleTableSpec{
		Counter:  counterID,
		Duration: 100,
		ExpiryPoints: []ExpiryPointSpec{
			{Offset: 10, Action: ActivateTask(99)},
		},
	})
	require.NoError(t, err, "out-of-range task refs are only caught at Build")
	_, err = b.Build()
	assert.Error(t, err)
}

func TestSetTrustedFunctionsValidatesPermissionWidth(t *testing.T) {
	b := NewBuilder()
	_, _ = b.AddTask(TaskSpec{Entry: func() {}})
	_, _ = b.AddCounter(CounterSpec{Max: 1000})
	b.SetTrustedFunctions(
		[]func(any){func(any) {}, func(any) {}},
		[][]bool{{true}}, // wrong width: one entry, want two
	)
	_, err := b.Build()
	assert.Error(t, err)
}

func TestAddChannelDefaultsCapacity(t *testing.T) {
	b := NewBuilder()
	id, err := b.AddChannel(ChannelSpec{})
	require.NoError(t, err)
	assert.Equal(t, uint16(0), id)
	assert.Equal(t, 8, b.cfg.Channels[0].Capacity)
}
