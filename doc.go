// Package servicesync imports the YTR service registry into a catalog store,
// reconciling its services and channels with the federated PTV records
// already stored there.
package servicesync
