// Package bizmanager is the bookkeeping model of a small business: the cash
// journal, the jobs with their payments and costing lines, the purchase
// history and the quote editor.
//
// Everything lives in one Store, persisted whole as a single JSON blob after
// every mutation. Derived figures (balance, paid/due, quote totals) are never
// stored authoritatively; they are recomputed from the records on demand.
// Loading is tolerant: the normalizer coerces legacy shapes and drops, with a
// diagnostic, whatever cannot be kept.
package bizmanager
