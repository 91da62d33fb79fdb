// Package integration contains the Integration bounded context.
// It models the external commerce endpoints prices are pushed to.
//
// Key concepts:
//   - IntegrationChannel: an external system endpoint with its sync settings
//   - ExternalIDs: ids the remote system assigned to our price records, per channel
//   - PriceExportPayload: the unit of work handed to a job scheduler
//   - JobScheduler: port for submitting export jobs to whatever runs them
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
