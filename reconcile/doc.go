// Package reconcile keeps the local book and borrow record projections consistent with the
// remote service after mutations.
//
// Every mutation runs under a Ticket that moves neutral -> pending -> succeeded|failed and must be
// reset to neutral once its outcome has been reported. A reconciliation pass drains every settled
// ticket, reports each outcome exactly once, and refetches the union of the collections the
// succeeded mutations could have changed, each collection once, concurrently. Failed mutations
// never trigger a refetch. The projections are written only by the Reconciler.
package reconcile
