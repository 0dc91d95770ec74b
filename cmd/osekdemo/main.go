// Command osekdemo wires up a small configuration exercising every kernel
// subsystem — a cyclic alarm activating a blink task that calls a trusted
// function, a cyclic schedule table whose expiry points set an event on a
// control task and activate two receiver tasks, and an IOC channel that
// sends one sensor reading to those two registered receivers — and drives
// it with a synthetic tick loop (one Tick, then RunUntilIdle, per tick)
// standing in for original_source/Sys/src/timebase.c's SysTick handler.
package main

import (
	"fmt"
	"os"

	"github.com/joeycumines/go-osek"
	"github.com/joeycumines/go-osek/kernelcfg"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "osekdemo:", err)
		os.Exit(1)
	}
}

func run() error {
	b := kernelcfg.NewBuilder()

	var blinkID, clusterID, absID, ctrlID uint16
	var err error
	var k *osek.Kernel

	if blinkID, err = b.AddTask(kernelcfg.TaskSpec{
		Entry: func() {
			fmt.Println("blink: toggled LED")
			// CallTrustedFunction looks up blink's own AppID implicitly,
			// exactly like TerminateTask/WaitEvent look up the current task.
			if status := k.CallTrustedFunction(0, "blink"); !status.Ok() {
				fmt.Println("blink: trusted call denied:", status)
			}
		},
	}); err != nil {
		return err
	}
	if clusterID, err = b.AddTask(kernelcfg.TaskSpec{
		Entry: func() { fmt.Println("cluster: received speed update") },
	}); err != nil {
		return err
	}
	if absID, err = b.AddTask(kernelcfg.TaskSpec{
		Entry: func() { fmt.Println("abs: received speed update") },
	}); err != nil {
		return err
	}
	if ctrlID, err = b.AddTask(kernelcfg.TaskSpec{
		Entry:           func() {},
		ActivationLimit: 2,
	}); err != nil {
		return err
	}

	counterID, err := b.AddCounter(kernelcfg.CounterSpec{Max: 10000, MinCycle: 10})
	if err != nil {
		return err
	}

	if _, err = b.AddAlarm(counterID, kernelcfg.ActivateTask(blinkID)); err != nil {
		return err
	}

	speedChannel, err := b.AddChannel(kernelcfg.ChannelSpec{
		Receivers: []uint16{clusterID, absID},
		Capacity:  4,
	})
	if err != nil {
		return err
	}

	if _, err = b.AddScheduleTable(kernelcfg.ScheduleTableSpec{
		Counter:  counterID,
		Duration: 2000,
		Cyclic:   true,
		ExpiryPoints: []kernelcfg.ExpiryPointSpec{
			{Offset: 200, Action: kernelcfg.SetEvent(ctrlID, 0x1)},
			{Offset: 400, Action: kernelcfg.ActivateTask(clusterID)},
			{Offset: 800, Action: kernelcfg.ActivateTask(absID)},
		},
	}); err != nil {
		return err
	}

	b.SetTrustedFunctions(
		[]func(any){
			func(p any) { fmt.Println("trusted log write:", p) },
		},
		[][]bool{
			{true},  // blink/cluster/abs/ctrl all app 0 (trusted) by default
		},
	)
	b.WithMetrics(true)

	cfg, err := b.Build()
	if err != nil {
		return err
	}

	k, err = osek.New(cfg,
		osek.WithJSONLogging(os.Stdout),
		osek.WithStackMonitor(osek.NewSimulatedStackMonitor(len(cfg.Tasks), 4096, 256)),
	)
	if err != nil {
		return err
	}

	alarmID := osek.AlarmID(0)
	if status := k.SetRelAlarm(alarmID, 100, 5000); !status.Ok() {
		return fmt.Errorf("SetRelAlarm: %s", status)
	}
	if status := k.StartRel(osek.ScheduleTableID(0), 50); !status.Ok() {
		return fmt.Errorf("StartRel: %s", status)
	}

	for tick := 0; tick < 1100; tick++ {
		if status := k.Tick(osek.CounterID(counterID)); !status.Ok() {
			return fmt.Errorf("Tick: %s", status)
		}
		if err := k.RunUntilIdle(); err != nil {
			return err
		}
	}

	osek.Send(k, osek.ChannelID(speedChannel), 88.5)
	if err := k.RunUntilIdle(); err != nil {
		return err
	}

	if m := k.Metrics(); m != nil {
		fmt.Printf("ticks=%d alarm_fires=%d catchup_fires=%d ioc_sends=%d\n",
			m.Counters.Ticks.Load(),
			m.Counters.AlarmFires.Load(),
			m.Counters.CatchUpFires.Load(),
			m.Counters.IOCSends.Load(),
		)
	}
	return nil
}
