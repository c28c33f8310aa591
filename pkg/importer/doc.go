// Package importer runs one import of the YTR service registry into the
// catalog store.
//
// A run fetches municipalities and service offers from the registry,
// normalizes and filters the offers, reconciles them against the federated
// services already in the store, then fetches and reconciles the channels of
// every kept service. All fetching and reconciliation happen before the
// first write, so a failed run never leaves a partial catalog behind.
package importer
