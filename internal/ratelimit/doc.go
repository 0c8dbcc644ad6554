// Package ratelimit provides call-rate limiters for UI event handlers.
//
// Two limiters are provided:
//   - Throttle runs the wrapped function on the leading edge and drops every
//     call that arrives before the cooldown has elapsed. There is no trailing call.
//   - Debounce runs the wrapped function once, after the calls have stopped
//     arriving for the configured wait.
//
// Both take a Clock so tests can drive time by hand with ManualClock.
package ratelimit
