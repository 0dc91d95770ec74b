package osek_test

import (
	"testing"

	osek "github.com/joeycumines/go-osek"
)

func TestWaitEventReturnsImmediatelyWhenAlreadySet(t *testing.T) {
	var waitResult osek.StatusType
	var stateDuringEntry osek.TaskState
	var k *osek.Kernel
	k = newTestKernel(t, func() {
		waitResult = k.WaitEvent(0x1)
		stateDuringEntry, _ = k.GetTaskState(0)
	})

	if status := k.SetEvent(0, 0x1); !status.Ok() {
		t.Fatalf("SetEvent: %v", status)
	}
	if status := k.ActivateTask(0); !status.Ok() {
		t.Fatalf("ActivateTask: %v", status)
	}
	if err := k.Schedule(); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	if !waitResult.Ok() {
		t.Fatalf("WaitEvent = %v, want OK", waitResult)
	}
	if stateDuringEntry != osek.TaskRunning {
		t.Fatalf("state during entry = %v, want Running (a satisfied wait must not transition to WAITING)", stateDuringEntry)
	}
}

func TestWaitEventAndSetEventWakesTask(t *testing.T) {
	var waitResult osek.StatusType
	var k *osek.Kernel
	k = newTestKernel(t, func() {
		waitResult = k.WaitEvent(0x1)
	})

	if status := k.ActivateTask(0); !status.Ok() {
		t.Fatalf("ActivateTask: %v", status)
	}
	if err := k.Schedule(); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if !waitResult.Ok() {
		t.Fatalf("WaitEvent = %v, want OK", waitResult)
	}

	state, _ := k.GetTaskState(0)
	if state != osek.TaskWaiting {
		t.Fatalf("state after WaitEvent = %v, want Waiting", state)
	}

	if status := k.SetEvent(0, 0x1); !status.Ok() {
		t.Fatalf("SetEvent: %v", status)
	}
	state, _ = k.GetTaskState(0)
	if state != osek.TaskReady {
		t.Fatalf("state after SetEvent = %v, want Ready", state)
	}
}

func TestSetEventOnNonWaitingTaskOnlyUpdatesMask(t *testing.T) {
	k := newTestKernel(t, nil)
	if status := k.SetEvent(0, 0x4); !status.Ok() {
		t.Fatalf("SetEvent: %v", status)
	}
	mask, status := k.GetEvent(0)
	if !status.Ok() {
		t.Fatalf("GetEvent: %v", status)
	}
	if mask != osek.EventMask(0x4) {
		t.Fatalf("mask = %#x, want 0x4", mask)
	}

	state, _ := k.GetTaskState(0)
	if state != osek.TaskSuspended {
		t.Fatalf("state = %v, want Suspended (SetEvent alone must not activate)", state)
	}
}

func TestClearEventRequiresCurrentTask(t *testing.T) {
	k := newTestKernel(t, nil)
	if status := k.ClearEvent(0x1); status != osek.StatusInvalidState {
		t.Fatalf("ClearEvent outside Schedule = %v, want StatusInvalidState", status)
	}
}

func TestClearEventClearsOnlyGivenBits(t *testing.T) {
	var k *osek.Kernel
	k = newTestKernel(t, func() {
		_ = k.ClearEvent(0x1)
	})
	if status := k.SetEvent(0, 0x3); !status.Ok() {
		t.Fatalf("SetEvent: %v", status)
	}
	if status := k.ActivateTask(0); !status.Ok() {
		t.Fatalf("ActivateTask: %v", status)
	}
	if err := k.Schedule(); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	mask, _ := k.GetEvent(0)
	if mask != osek.EventMask(0x2) {
		t.Fatalf("mask = %#x, want 0x2 (only bit 0x1 cleared)", mask)
	}
}

func TestSetEventInvalidID(t *testing.T) {
	k := newTestKernel(t, nil)
	if status := k.SetEvent(99, 0x1); status != osek.StatusInvalidID {
		t.Fatalf("SetEvent(99, ...) = %v, want StatusInvalidID", status)
	}
}
