// Package remote is the HTTP adapter to the authoritative library service.
//
// It translates the client's core types to the service's JSON wire format and maps every
// failed call to a core.RemoteError: 4xx answers become core.ErrConflict with the service
// message, network failures, 5xx answers and undecodable bodies become core.ErrTransport.
//
// The adapter never retries. Read retries are applied by the query handlers through
// shell.RetryWithExponentialBackoff, mutations are never retried.
package remote
