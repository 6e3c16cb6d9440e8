// Package task runs harvests as asynchronous jobs.
//
// The HTTP API accepts a harvest request, returns a task ID immediately,
// and lets the caller poll for progress. The manager keeps all task state
// in memory: tasks do not survive a restart, which is acceptable because
// a harvest is cheap to resubmit and the durable outcome (the links) is
// persisted elsewhere.
package task
