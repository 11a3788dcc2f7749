package postgres

// schema is applied on startup; every statement is idempotent
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS player_records (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	owner_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	position   TEXT NOT NULL,
	avg        DOUBLE PRECISION NOT NULL,
	obp        DOUBLE PRECISION NOT NULL,
	slg        DOUBLE PRECISION NOT NULL,
	ops        DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS player_records_owner_idx ON player_records (owner_id, seq);
`
