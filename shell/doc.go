// Package shell provides the infrastructure contracts shared by the library desk feature slices:
// observability interfaces and helpers, retry with exponential backoff for idempotent reads,
// and the command and query handler contracts.
//
// This package implements the "imperative shell" pattern around the functional core
// in package core. Adapters for the remote service live in shell/remote,
// configuration in shell/config and the observability decorators in shell/observable.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
