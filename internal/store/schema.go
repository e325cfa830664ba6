package store

// schema is the full DDL applied by Open. Every statement is idempotent
// (CREATE ... IF NOT EXISTS) so Open can run against a brand-new file or
// an already-populated one without error.
const schema = `
CREATE TABLE IF NOT EXISTS objects (
	sha  TEXT PRIMARY KEY CHECK(length(sha) = 40),
	kind TEXT NOT NULL CHECK(kind IN ('blob','tree','commit','tag')),
	data BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_objects_kind ON objects(kind);

CREATE TABLE IF NOT EXISTS refs (
	name  TEXT PRIMARY KEY,
	sha   TEXT NOT NULL REFERENCES objects(sha),
	class TEXT NOT NULL CHECK(class IN ('branch','tag','remote'))
);

CREATE INDEX IF NOT EXISTS idx_refs_sha ON refs(sha);

CREATE TABLE IF NOT EXISTS symrefs (
	name   TEXT PRIMARY KEY,
	target TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pack_blobs (
	pack_id TEXT PRIMARY KEY,
	data    BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS pack_entries (
	pack_id TEXT NOT NULL,
	sha     TEXT NOT NULL,
	offset  INTEGER NOT NULL,
	PRIMARY KEY (pack_id, sha)
);

CREATE INDEX IF NOT EXISTS idx_pack_entries_pack ON pack_entries(pack_id);
`

// symrefPrefix is the literal prefix used to distinguish a symbolic-ref
// value passed to PutRef from a plain SHA.
const symrefPrefix = "ref: "
