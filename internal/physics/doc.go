// Package physics models the forces on a projectile in flight: constant
// gravity and quadratic aerodynamic drag.
//
// Drag opposes the velocity with magnitude
//
//	F = ½ · ρ · v² · Cd · A
//
// so at zero speed only gravity acts. [Projectile] implements
// [flight.Dynamics] and is the model the simulator integrates.
package physics
