// Package server provides the lifecycle coordinator and the fault
// trap: the one component allowed to bind the socket, transition the
// process through Starting → Listening → ShuttingDown → Stopped, and
// decide the process exit status.
//
// Shutdown is graceful-then-forced: on the first SIGINT or SIGTERM the
// server stops accepting connections and drains in-flight requests; if
// draining outlives the grace period the process exits non-zero. A
// second signal does not restart the sequence.
package server
