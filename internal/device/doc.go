// Package device orchestrates a live Coyote 3 session: it drives a
// Transport, mirrors the device state from inbound notifications, and
// exposes the control operations.
//
// The package never talks to a radio itself; everything below the
// Transport interface is someone else's problem.
package device
