package osek_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osek "github.com/joeycumines/go-osek"
	"github.com/joeycumines/go-osek/kernelcfg"
)

func buildCatchUpKernel(t *testing.T) (*osek.Kernel, *[]uint32) {
	t.Helper()
	var fired []uint32
	b := kernelcfg.NewBuilder()
	_, err := b.AddTask(kernelcfg.TaskSpec{Entry: func() {}})
	require.NoError(t, err)
	counterID, err := b.AddCounter(kernelcfg.CounterSpec{Max: 10000})
	require.NoError(t, err)
	_, err = b.AddScheduleTable(kernelcfg.ScheduleTableSpec{
		Counter:  counterID,
		Duration: 2000,
		Cyclic:   true,
		ExpiryPoints: []kernelcfg.ExpiryPointSpec{
			{Offset: 200, Action: kernelcfg.Callback(func() { fired = append(fired, 200) })},
			{Offset: 400, Action: kernelcfg.Callback(func() { fired = append(fired, 400) })},
			{Offset: 800, Action: kernelcfg.Callback(func() { fired = append(fired, 800) })},
		},
	})
	require.NoError(t, err)
	cfg, err := b.Build()
	require.NoError(t, err)
	k, err := osek.New(cfg)
	require.NoError(t, err)
	return k, &fired
}

func TestScheduleTableCatchUpFiresAllDuePointsInOrder(t *testing.T) {
	k, fired := buildCatchUpKernel(t)
	require.True(t, k.StartRel(0, 50).Ok())

	for i := 0; i < 1000; i++ {
		require.True(t, k.Tick(0).Ok())
	}

	assert.Equal(t, []uint32{200, 400, 800}, *fired)
}

func TestScheduleTableStartRejectsOffsetPastCounterMax(t *testing.T) {
	k, _ := buildCatchUpKernel(t)
	status := k.StartRel(0, 20000)
	assert.Equal(t, osek.StatusInvalidValue, status)
}

func TestScheduleTableStartRejectsWhileRunning(t *testing.T) {
	k, _ := buildCatchUpKernel(t)
	require.True(t, k.StartRel(0, 50).Ok())
	status := k.StartRel(0, 60)
	assert.Equal(t, osek.StatusInvalidState, status)
}

func TestScheduleTableStopTwiceReturnsNoFunc(t *testing.T) {
	k, _ := buildCatchUpKernel(t)
	require.True(t, k.StartRel(0, 50).Ok())
	assert.True(t, k.Stop(0).Ok())
	assert.Equal(t, osek.StatusNoFunc, k.Stop(0))
}

func TestScheduleTableSyncResetsCursor(t *testing.T) {
	k, fired := buildCatchUpKernel(t)
	require.True(t, k.StartRel(0, 50).Ok())
	for i := 0; i < 250; i++ { // fires offset 200
		require.True(t, k.Tick(0).Ok())
	}
	require.Equal(t, []uint32{200}, *fired)

	require.True(t, k.Sync(0, 0).Ok())
	for i := 0; i < 1000; i++ {
		require.True(t, k.Tick(0).Ok())
	}
	assert.Equal(t, []uint32{200, 200, 400, 800}, *fired, "sync restarts the cycle from the new origin")
}

func TestScheduleTableCyclicRestartsAfterDuration(t *testing.T) {
	k, fired := buildCatchUpKernel(t)
	require.True(t, k.StartRel(0, 0).Ok())
	for i := 0; i < 2200; i++ {
		require.True(t, k.Tick(0).Ok())
	}
	assert.Equal(t, []uint32{200, 400, 800, 200}, *fired)
}
