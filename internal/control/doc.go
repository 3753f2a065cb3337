// Package control provides throttle sources for the flight model.
//
// Every source maps the current vehicle state to a throttle fraction in [0, 1]
// and is sampled once per step:
//
//   - [Manual]: the operator lever, held as an integer percentage
//   - [Fixed]: a constant setting
//   - [PID]: holds a target vertical velocity
//
// # Usage
//
//	pid := control.NewPID(0.05, 0.01, 0.0, 150) // Kp, Ki, Kd, target m/s
//	ctrl := mission.New(mission.WithThrottle(pid))
//
// Sources implementing [Tunable] can be retuned mid-flight; the HTTP server
// exposes this on /mission/controller/params.
package control
