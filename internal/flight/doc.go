// Package flight provides the core types shared by every part of the bird
// flight simulator.
//
// The package defines:
//
//   - [Params]: immutable launch and environment parameters for one run
//   - [State]: position and velocity of the projectile at an instant
//   - [Sample]: one recorded (time, x, y, speed) tuple
//   - [Trajectory]: the ordered samples produced by a run
//   - [Result]: a completed run with derived metrics
//
// # Example
//
//	p := flight.DefaultParams()
//	p.LaunchForce = 10
//	res, err := sim.Integrate(p)
//	visible := res.Trajectory.UpTo(0.5)
//
// # Thread Safety
//
// A Trajectory is never mutated after the run that produced it returns, so
// concurrent readers need no locking.
package flight
