package sqlite

// initSchema creates the database schema if it doesn't exist.
// Timestamps are stored as unix milliseconds so range scans compare integers.
func (db *DB) initSchema() error {
	schema := `
	-- One row per recorded bundle run
	CREATE TABLE IF NOT EXISTS executions (
		id TEXT PRIMARY KEY,
		bundle_type TEXT NOT NULL,
		ts_ms INTEGER NOT NULL,
		execution_time_ms INTEGER NOT NULL DEFAULT 0,
		total_cost_bnb REAL NOT NULL DEFAULT 0,
		mev_protection INTEGER NOT NULL DEFAULT 0,
		stealth_score REAL,
		randomization INTEGER NOT NULL DEFAULT 0,
		multi_rpc INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_executions_ts ON executions(ts_ms);

	-- Transactions belong to an execution and keep their submission order
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT NOT NULL,
		bundle_id TEXT NOT NULL REFERENCES executions(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		wallet_address TEXT NOT NULL,
		tx_hash TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		amount_bnb REAL NOT NULL DEFAULT 0,
		gas_used INTEGER NOT NULL DEFAULT 0,
		gas_limit INTEGER NOT NULL DEFAULT 0,
		gas_price_gwei REAL NOT NULL DEFAULT 0,
		estimated_gas_gwei REAL NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		execution_time_ms INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (bundle_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_wallet ON transactions(wallet_address);

	-- Sampled network status
	CREATE TABLE IF NOT EXISTS network_samples (
		ts_ms INTEGER NOT NULL,
		connected INTEGER NOT NULL,
		block_number INTEGER NOT NULL DEFAULT 0,
		gas_price_gwei REAL NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_network_samples_ts ON network_samples(ts_ms);

	-- Dashboard preferences as a JSON document per key
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_ms INTEGER NOT NULL
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}
