// Package netmon wraps every outbound relay call in a single-attempt,
// degrade-to-failure monitor.
//
// Execute runs one exchange, classifies any failure as connect-timeout,
// response-timeout, other-transport, or protocol, and resolves it to a
// failed Result. Timeouts flip a process-wide down flag; the user-facing
// notification fires exactly once per outage, on the up-to-down edge, and a
// later success resets the flag so the next outage notifies again. No error
// crosses this boundary into UI-facing code.
package netmon
