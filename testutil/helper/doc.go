// Package helper provides test doubles for the library desk: observability spies,
// an in-memory fake of the remote library service, and a manually advanced clock.
package helper
