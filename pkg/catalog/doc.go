// Package catalog defines the normalized service and channel records that
// are reconciled and persisted by servicesync.
//
// Every localized field is partitioned by the fixed language set in
// Languages. Records are plain values; Clone produces deep copies so that
// records loaded from a previous run are never aliased by the current one.
package catalog
