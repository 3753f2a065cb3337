// Package flight implements the single-body vertical flight model.
//
// The model covers one vehicle moving along the local vertical:
//
//   - [Atmosphere]: inverse-square gravity and an exponential density profile
//   - [RunConfiguration]: launch parameters derived from fuel and payload tonnage
//   - [VehicleState]: the mutable record advanced once per frame
//   - [Integrator]: semi-implicit Euler step with thrust, drag and mass depletion
//
// # Events
//
// Each step reports the discrete events it detected: main engine cutoff,
// entering and leaving the Max-Q band, apogee, and the ground-contact outcome.
// Events are informational. None of them alters the integration except
// ground contact, which ends the run.
package flight
