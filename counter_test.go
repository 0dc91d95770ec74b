package osek_test

import (
	"testing"

	osek "github.com/joeycumines/go-osek"
	"github.com/joeycumines/go-osek/kernelcfg"
)

func TestTickWrapsModuloMax(t *testing.T) {
	b := kernelcfg.NewBuilder()
	if _, err := b.AddTask(kernelcfg.TaskSpec{Entry: func() {}}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := b.AddCounter(kernelcfg.CounterSpec{Max: 3}); err != nil {
		t.Fatalf("AddCounter: %v", err)
	}
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	k, err := osek.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if status := k.Tick(0); !status.Ok() { // current = 1
		t.Fatalf("Tick: %v", status)
	}
	if status := k.Tick(0); !status.Ok() { // current = 2
		t.Fatalf("Tick: %v", status)
	}
	if status := k.Tick(0); !status.Ok() { // current = 0 (wrapped)
		t.Fatalf("Tick: %v", status)
	}

	if _, status := k.GetAlarm(0); status != osek.StatusInvalidID {
		t.Fatalf("GetAlarm(0) = %v, want StatusInvalidID (no alarm configured)", status)
	}
}

func TestTickInvalidCounterID(t *testing.T) {
	k := newTestKernel(t, nil)
	if status := k.Tick(99); status != osek.StatusInvalidID {
		t.Fatalf("Tick(99) = %v, want StatusInvalidID", status)
	}
}

func TestAlarmsFireInAttachmentOrder(t *testing.T) {
	var order []int
	b := kernelcfg.NewBuilder()
	if _, err := b.AddTask(kernelcfg.TaskSpec{Entry: func() {}}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	counterID, err := b.AddCounter(kernelcfg.CounterSpec{Max: 1000})
	if err != nil {
		t.Fatalf("AddCounter: %v", err)
	}
	if _, err := b.AddAlarm(counterID, kernelcfg.Callback(func() { order = append(order, 1) })); err != nil {
		t.Fatalf("AddAlarm: %v", err)
	}
	if _, err := b.AddAlarm(counterID, kernelcfg.Callback(func() { order = append(order, 2) })); err != nil {
		t.Fatalf("AddAlarm: %v", err)
	}
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	k, err := osek.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if status := k.SetRelAlarm(0, 10, 0); !status.Ok() {
		t.Fatalf("SetRelAlarm(0): %v", status)
	}
	if status := k.SetRelAlarm(1, 10, 0); !status.Ok() {
		t.Fatalf("SetRelAlarm(1): %v", status)
	}
	for i := 0; i < 10; i++ {
		if status := k.Tick(0); !status.Ok() {
			t.Fatalf("Tick %d: %v", i, status)
		}
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("fire order = %v, want [1 2]", order)
	}
}
