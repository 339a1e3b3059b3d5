// Package journal manages a single-user financial journal stored in a local,
// human-readable file.
//
// The core type is the Store: an ordered list of entries held in memory and
// mirrored in a JSONL file, one entry per line. Each entry records a dated
// debit and credit on an account, and its total is always derived from them.
//
// Entries are never physically removed. Deleting an entry only sets its
// tombstone, after which it is invisible to every read and write by ID. IDs are
// assigned by the store, strictly increase, and are never reused.
//
// Every mutation rewrites the whole file before returning, so the file is the
// single source of truth between two runs of the `jrnl` command-line tool.
package journal
