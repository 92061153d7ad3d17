// Package sqlitestore persists coin states in a SQLite database.
//
// It keeps one row per coin id. ApplyUpdates upserts, so replaying the same
// ledger updates is harmless and a later update carrying a spent height
// replaces the unspent row.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS coin_states (
	coin_id        BLOB PRIMARY KEY,
	parent_coin_id BLOB NOT NULL,
	puzzle_hash    BLOB NOT NULL,
	amount         INTEGER NOT NULL,
	created_height INTEGER,
	spent_height   INTEGER
);
CREATE INDEX IF NOT EXISTS idx_coin_states_puzzle_hash ON coin_states (puzzle_hash);
`

// Store is a SQLite-backed coin store.
type Store struct {
	db *sql.DB
}

var _ storage.CoinStore = (*Store)(nil)

// Open opens (creating if needed) a coin store at path. Use ":memory:" for
// an ephemeral store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlitestore: database path is required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: opening %s: %w", path, err)
	}
	// The sqlite3 driver serializes writes per connection; a single
	// connection avoids SQLITE_BUSY under concurrent use.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing database handle, creating the schema if needed.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlitestore: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ApplyUpdates(ctx context.Context, updates []types.CoinState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
INSERT INTO coin_states (coin_id, parent_coin_id, puzzle_hash, amount, created_height, spent_height)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (coin_id) DO UPDATE SET
	created_height = excluded.created_height,
	spent_height   = excluded.spent_height`

	for _, st := range updates {
		id := st.Coin.ID()
		_, err := tx.ExecContext(ctx, upsert,
			id[:],
			st.Coin.ParentCoinID[:],
			st.Coin.PuzzleHash[:],
			int64(st.Coin.Amount),
			nullableHeight(st.CreatedHeight),
			nullableHeight(st.SpentHeight),
		)
		if err != nil {
			return fmt.Errorf("sqlitestore: upserting coin %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *Store) UnspentCoins(ctx context.Context) ([]types.Coin, error) {
	const q = `
SELECT parent_coin_id, puzzle_hash, amount FROM coin_states
WHERE spent_height IS NULL ORDER BY coin_id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: listing unspent coins: %w", err)
	}
	defer rows.Close()
	return scanCoins(rows)
}

func (s *Store) UnspentCoinsByPuzzleHash(ctx context.Context, puzzleHash types.Bytes32) ([]types.Coin, error) {
	const q = `
SELECT parent_coin_id, puzzle_hash, amount FROM coin_states
WHERE spent_height IS NULL AND puzzle_hash = $1 ORDER BY coin_id`
	rows, err := s.db.QueryContext(ctx, q, puzzleHash[:])
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: listing unspent coins by puzzle hash: %w", err)
	}
	defer rows.Close()
	return scanCoins(rows)
}

func (s *Store) CoinState(ctx context.Context, coinID types.Bytes32) (types.CoinState, error) {
	const q = `
SELECT parent_coin_id, puzzle_hash, amount, created_height, spent_height
FROM coin_states WHERE coin_id = $1`

	var (
		parent, puzzle   []byte
		amount           int64
		created, spentAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, q, coinID[:]).Scan(&parent, &puzzle, &amount, &created, &spentAt)
	if err == sql.ErrNoRows {
		return types.CoinState{}, storage.ErrCoinNotFound
	}
	if err != nil {
		return types.CoinState{}, fmt.Errorf("sqlitestore: reading coin %s: %w", coinID, err)
	}

	coin, err := coinFromColumns(parent, puzzle, amount)
	if err != nil {
		return types.CoinState{}, err
	}
	return types.CoinState{
		Coin:          coin,
		CreatedHeight: heightFromNullable(created),
		SpentHeight:   heightFromNullable(spentAt),
	}, nil
}

func (s *Store) IsUsed(ctx context.Context, puzzleHash types.Bytes32) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM coin_states WHERE puzzle_hash = $1)`
	var used bool
	if err := s.db.QueryRowContext(ctx, q, puzzleHash[:]).Scan(&used); err != nil {
		return false, fmt.Errorf("sqlitestore: checking puzzle hash use: %w", err)
	}
	return used, nil
}

func scanCoins(rows *sql.Rows) ([]types.Coin, error) {
	out := make([]types.Coin, 0)
	for rows.Next() {
		var (
			parent, puzzle []byte
			amount         int64
		)
		if err := rows.Scan(&parent, &puzzle, &amount); err != nil {
			return nil, fmt.Errorf("sqlitestore: scanning coin row: %w", err)
		}
		coin, err := coinFromColumns(parent, puzzle, amount)
		if err != nil {
			return nil, err
		}
		out = append(out, coin)
	}
	return out, rows.Err()
}

func coinFromColumns(parent, puzzle []byte, amount int64) (types.Coin, error) {
	parentID, err := types.Bytes32FromBytes(parent)
	if err != nil {
		return types.Coin{}, fmt.Errorf("sqlitestore: invalid parent coin id column: %w", err)
	}
	puzzleHash, err := types.Bytes32FromBytes(puzzle)
	if err != nil {
		return types.Coin{}, fmt.Errorf("sqlitestore: invalid puzzle hash column: %w", err)
	}
	return types.Coin{ParentCoinID: parentID, PuzzleHash: puzzleHash, Amount: uint64(amount)}, nil
}

func nullableHeight(h *uint32) sql.NullInt64 {
	if h == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*h), Valid: true}
}

func heightFromNullable(n sql.NullInt64) *uint32 {
	if !n.Valid {
		return nil
	}
	h := uint32(n.Int64)
	return &h
}
