// Package sync implements the incremental catalog sync engine.
//
// A pass walks the paginated upstream feed newest-first and applies each
// item through three layers: the Cache resolves reference entity names
// (genres, persons, studios) to ids with lazy creation, the Engine matches
// and upserts the catalog record gated on upstream freshness, and the
// relation sync reconciles the record's owned relations with minimal diffs.
// The Syncer drives the loop: pagination, the consecutive-old cutoff,
// batched commits, metrics, and the checkpoint file that makes the next
// pass incremental.
package sync
