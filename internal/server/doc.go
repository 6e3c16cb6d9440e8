// Package server exposes the harvest task API over HTTP.
//
// The API is deliberately small: submit a harvest, poll its status,
// check service health. Harvests run in the background via the task
// manager; the submit endpoint returns 202 with a task ID immediately
// rather than holding the connection open for a run that can take
// minutes.
package server
