package osek

// CallTrustedFunction invokes the trusted function at index with param,
// gated by the calling task's AppID against the permission matrix supplied
// at configuration time. It mirrors the original's CallTrustedFunction:
// an out-of-range index and a denied permission both return StatusAccess,
// the only difference being which diagnostic is logged. The caller is
// looked up from the kernel's own current-task tracking, exactly as
// TerminateTask/WaitEvent do — there is no caller argument, so a task can
// never name a different AppID than its own.
func (k *Kernel) CallTrustedFunction(index TrustedFunctionIndex, param any) StatusType {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return StatusInvalidState
	}
	if !k.hasCurrent {
		return k.fail("CallTrustedFunction", StatusInvalidState)
	}
	if int(index) >= len(k.trustedFunctions) {
		return k.fail("CallTrustedFunction", StatusAccess)
	}
	appID := k.tasks[k.currentTask].appID
	if int(appID) >= len(k.permissions) || !k.permissions[appID][index] {
		k.denyDiagnostic(appID, index)
		k.metrics.IncTrustedDenials()
		return k.fail("CallTrustedFunction", StatusAccess)
	}
	k.trustedFunctions[index](param)
	return StatusOK
}

// denyDiagnostic logs a denial, the denial diagnostic of the original's
// CallTrustedFunction. When a limiter was installed with WithDenyRateLimit,
// the line is rate-limited per (appID, index) pair; otherwise every denial
// is logged.
func (k *Kernel) denyDiagnostic(appID AppID, index TrustedFunctionIndex) {
	category := [2]uint16{uint16(appID), uint16(index)}
	if k.denyLimiter != nil {
		if _, allow := k.denyLimiter.Allow(category); !allow {
			return
		}
	}
	k.logger.Warnf("trusted function call denied", "app", appID, "function", index)
}
