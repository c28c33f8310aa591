// Package reconciler classifies normalized records against records already
// known to the federated registry.
//
// Services splits a batch of services into native and recognized records.
// Channels classifies the channels of one service as new, unlinked or known
// against a WorkingSet that accumulates every channel produced during a run.
//
// Identifiers of the two registries are never mixed: a merged record always
// carries the imported registry's id in ID and the federated id in ExternalID.
package reconciler
