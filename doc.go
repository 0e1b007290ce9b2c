// Package kernos provides a process lifecycle manager and preemptive
// priority scheduler for hosting many lightweight programs inside one
// address space.
//
// The engine keeps a bounded process table whose slot indexes double as
// pids, schedules runnable processes across forty priority tiers with
// round-robin rotation inside each tier, and walks every process through
// the created, ready, running, blocked, zombie and terminated states.
// Service layers are pluggable:
//
//   - kernel    – process table, lifecycle operations, coarse locking
//   - scheduler – ready tiers, preemption, aging
//   - allocator – address-space mapping for stacks and heap regions
//   - timer     – periodic tick driver
//   - event     – lifecycle event stream over a message queue
//
// Kernos is designed to be embedded in host applications.  End-users
// typically interact with the engine via the high-level Service façade
// exposed by the root package:
//
//	srv, _ := kernos.New()
//	k := srv.Kernel()
//	pid, _ := k.CreateProcess(ctx, "worker", entry, nil, 10)
//	srv.Start(ctx)
//	status, _ := k.Wait(ctx, pid)
//
// For more details see the individual sub-packages.
package kernos
