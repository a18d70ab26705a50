package repository

// PostgresSchema creates the tables the dashboard and scanner share.
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS stocks (
		id         BIGSERIAL PRIMARY KEY,
		position   INTEGER NOT NULL DEFAULT 0,
		code       TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		enabled    BOOLEAN NOT NULL DEFAULT TRUE,
		memo       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS strategy_params (
		param_key   TEXT PRIMARY KEY,
		param_value JSONB NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position    INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_results (
		id         BIGSERIAL PRIMARY KEY,
		date       DATE NOT NULL,
		stock_code TEXT NOT NULL,
		signal     TEXT NOT NULL,
		price      DOUBLE PRECISION NOT NULL DEFAULT 0,
		indicators JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS analysis_results_code_date_idx ON analysis_results (stock_code, date DESC)`,
}

// SQLiteSchema mirrors PostgresSchema. JSON columns are TEXT.
var SQLiteSchema = []string{
	`CREATE TABLE IF NOT EXISTS stocks (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		position   INTEGER NOT NULL DEFAULT 0,
		code       TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		enabled    INTEGER NOT NULL DEFAULT 1,
		memo       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS strategy_params (
		param_key   TEXT PRIMARY KEY,
		param_value TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_results (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		date       TEXT NOT NULL,
		stock_code TEXT NOT NULL,
		signal     TEXT NOT NULL,
		price      REAL NOT NULL DEFAULT 0,
		indicators TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS analysis_results_code_date_idx ON analysis_results (stock_code, date DESC)`,
}
