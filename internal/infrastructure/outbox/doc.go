// Package outbox is the transactional scheduler backend. Jobs are written to
// the sync_outbox table inside the transaction that produced them and a relay
// hands them to the export job handler once they are committed.
package outbox
