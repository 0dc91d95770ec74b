package osek

import (
	"io"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-osek/osekmetrics"
)

// kernelOptions holds the optional, non-table configuration resolved by
// New, following the teacher's LoopOption shape.
type kernelOptions struct {
	logger      Logger
	hooks       Hooks
	stack       StackMonitor
	metrics     *osekmetrics.Metrics
	denyLimiter *catrate.Limiter
}

// KernelOption configures optional Kernel behavior not carried by
// [github.com/joeycumines/go-osek/kernelcfg.Config] (which owns the sized,
// validated tables).
type KernelOption interface {
	applyKernel(*kernelOptions) error
}

type kernelOptionImpl struct {
	applyKernelFunc func(*kernelOptions) error
}

func (k *kernelOptionImpl) applyKernel(opts *kernelOptions) error {
	return k.applyKernelFunc(opts)
}

// WithLogger installs a structured logger. Without this option (or
// [WithJSONLogging]) the kernel discards all log output.
func WithLogger(l Logger) KernelOption {
	return &kernelOptionImpl{func(opts *kernelOptions) error {
		opts.logger = l
		return nil
	}}
}

// WithJSONLogging installs the default stumpy-backed logger, writing
// newline-delimited JSON to w.
func WithJSONLogging(w io.Writer) KernelOption {
	return WithLogger(NewStumpyLogger(w))
}

// WithHooks installs the optional lifecycle hooks.
func WithHooks(h Hooks) KernelOption {
	return &kernelOptionImpl{func(opts *kernelOptions) error {
		opts.hooks = h
		return nil
	}}
}

// WithStackMonitor installs a stack guard/watermark monitor, checked after
// every task body returns control to Schedule.
func WithStackMonitor(m StackMonitor) KernelOption {
	return &kernelOptionImpl{func(opts *kernelOptions) error {
		opts.stack = m
		return nil
	}}
}

// WithMetricsCollector installs an osekmetrics.Metrics instance. If the
// configuration's MetricsEnabled is true and no collector is supplied, New
// installs a default one automatically.
func WithMetricsCollector(m *osekmetrics.Metrics) KernelOption {
	return &kernelOptionImpl{func(opts *kernelOptions) error {
		opts.metrics = m
		return nil
	}}
}

// WithDenyRateLimit installs a rate limiter used to throttle the
// "trusted function call denied" warning logged for each trusted-function
// access denial. The generic "operation failed" line that every non-OK
// status logs is not throttled.
func WithDenyRateLimit(l *catrate.Limiter) KernelOption {
	return &kernelOptionImpl{func(opts *kernelOptions) error {
		opts.denyLimiter = l
		return nil
	}}
}

func resolveKernelOptions(opts []KernelOption) (*kernelOptions, error) {
	resolved := &kernelOptions{logger: noopLogger{}}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyKernel(resolved); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}
