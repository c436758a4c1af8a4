package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS agents (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		unit     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS forecasts (
		id              UUID PRIMARY KEY,
		subject_id      TEXT NOT NULL REFERENCES subjects (id),
		agent_id        TEXT NOT NULL REFERENCES agents (id),
		issued_at       TIMESTAMPTZ NOT NULL,
		target_at       TIMESTAMPTZ NOT NULL,
		predicted_value NUMERIC NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS forecasts_subject_agent_idx ON forecasts (subject_id, agent_id, issued_at)`,
	`CREATE TABLE IF NOT EXISTS observations (
		subject_id  TEXT NOT NULL REFERENCES subjects (id),
		observed_at TIMESTAMPTZ NOT NULL,
		value       NUMERIC NOT NULL,
		PRIMARY KEY (subject_id, observed_at)
	)`,
	`CREATE TABLE IF NOT EXISTS accuracy_metrics (
		id                  UUID PRIMARY KEY,
		agent_id            TEXT NOT NULL REFERENCES agents (id),
		subject_id          TEXT NOT NULL REFERENCES subjects (id),
		period              TEXT NOT NULL,
		accuracy            NUMERIC NOT NULL,
		total_predictions   INTEGER NOT NULL,
		correct_predictions INTEGER NOT NULL,
		avg_error           NUMERIC NOT NULL,
		updated_at          TIMESTAMPTZ NOT NULL,
		UNIQUE (agent_id, subject_id, period)
	)`,
	`CREATE TABLE IF NOT EXISTS ranking_snapshots (
		agent_id    TEXT PRIMARY KEY,
		rank        INTEGER NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}
