package store

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"ComexCore/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is one persistable record. KeyValues returns the natural key in
// TableSpec.KeyColumns order; Values returns every column value in
// TableSpec.Columns order. Validate returns a non-empty skip reason for
// records missing their identity.
type Row interface {
	KeyValues() []any
	Values() []any
	Validate() string
}

// TableSpec describes the target table of a batch writer. Columns includes
// the key columns.
type TableSpec struct {
	Table      string
	KeyColumns []string
	Columns    []string
}

// BatchResult summarizes one persistence run. Sub-batch failures are
// surfaced here rather than raised; a batch is not atomic all-or-nothing.
type BatchResult struct {
	Inserted      int      `json:"inserted"`
	Updated       int      `json:"updated"`
	Skipped       int      `json:"skipped"`
	FailedBatches int      `json:"failed_batches"`
	Errors        []string `json:"errors,omitempty"`
}

// BatchWriter applies batches with at-most-one-record-per-key semantics:
// one batched existence check partitions input into insert and update sets,
// each applied in bounded sub-batches committed independently.
type BatchWriter struct {
	pool         *pgxpool.Pool
	spec         TableSpec
	subBatchSize int

	insertSQL string
	updateSQL string
	existsSQL string // format template, key tuples appended per chunk
}

func NewBatchWriter(pool *pgxpool.Pool, spec TableSpec, subBatchSize int) *BatchWriter {
	if subBatchSize <= 0 {
		subBatchSize = config.SubBatchSize
	}
	w := &BatchWriter{pool: pool, spec: spec, subBatchSize: subBatchSize}
	w.insertSQL = buildInsertSQL(spec)
	w.updateSQL = buildUpdateSQL(spec)
	return w
}

// PersistBatch persists rows with update-in-place semantics. Records failing
// validation are counted as skipped; duplicate keys within the input
// collapse to the last occurrence (last write wins). Only a connectivity
// failure on the existence check is fatal for the run.
func (w *BatchWriter) PersistBatch(ctx context.Context, rows []Row) (BatchResult, error) {
	res := BatchResult{}

	valid, skipped := filterValid(rows, w.spec.Table)
	res.Skipped = skipped
	valid = dedupeLastWins(valid)
	if len(valid) == 0 {
		return res, nil
	}

	existing, err := w.existingKeys(ctx, valid)
	if err != nil {
		return res, fmt.Errorf("existence check for %s: %w", w.spec.Table, err)
	}

	inserts, updates := partitionRows(valid, existing)

	ins, insErrs := w.applyChunks(ctx, inserts, w.insertSQL, insertArgs)
	upd, updErrs := w.applyChunks(ctx, updates, w.updateSQL, updateArgs)

	res.Inserted = ins
	res.Updated = upd
	res.Errors = append(res.Errors, insErrs...)
	res.Errors = append(res.Errors, updErrs...)
	res.FailedBatches = len(res.Errors)
	return res, nil
}

func filterValid(rows []Row, table string) ([]Row, int) {
	valid := make([]Row, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		if reason := r.Validate(); reason != "" {
			skipped++
			log.Printf("[WARN] store %s: record skipped: %s", table, reason)
			continue
		}
		valid = append(valid, r)
	}
	return valid, skipped
}

// canonicalKey renders one key value exactly as Postgres renders the column
// cast to text, so go-side and db-side composite keys compare equal. Key
// columns are TEXT, BIGINT, DATE or NUMERIC(14,2); dates render as
// YYYY-MM-DD and monetary keys with two fixed decimals.
func canonicalKey(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(t, 'f', 2, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// keyString joins canonical key values with an unprintable separator for map
// keys.
func keyString(r Row) string {
	parts := r.KeyValues()
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = canonicalKey(p)
	}
	return strings.Join(strs, "\x1f")
}

func dedupeLastWins(rows []Row) []Row {
	seen := map[string]int{}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		k := keyString(r)
		if i, ok := seen[k]; ok {
			out[i] = r
			continue
		}
		seen[k] = len(out)
		out = append(out, r)
	}
	return out
}

func partitionRows(rows []Row, existing map[string]bool) (inserts, updates []Row) {
	for _, r := range rows {
		if existing[keyString(r)] {
			updates = append(updates, r)
		} else {
			inserts = append(inserts, r)
		}
	}
	return inserts, updates
}

// existingKeys runs one batched existence query per key chunk and returns
// the set of keys already present in the store. Key columns come back cast
// to text in the same canonical form keyString produces, so DATE and NUMERIC
// keys round-trip to equal strings.
func (w *BatchWriter) existingKeys(ctx context.Context, rows []Row) (map[string]bool, error) {
	existing := map[string]bool{}
	nKey := len(w.spec.KeyColumns)

	for start := 0; start < len(rows); start += w.subBatchSize {
		end := start + w.subBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		args := make([]any, 0, len(chunk)*nKey)
		for _, r := range chunk {
			args = append(args, r.KeyValues()...)
		}
		query := buildExistsSQL(w.spec, len(chunk))

		qrows, err := w.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		for qrows.Next() {
			parts := make([]string, nKey)
			dests := make([]any, nKey)
			for i := range parts {
				dests[i] = &parts[i]
			}
			if err := qrows.Scan(dests...); err != nil {
				qrows.Close()
				return nil, err
			}
			existing[strings.Join(parts, "\x1f")] = true
		}
		if err := qrows.Err(); err != nil {
			qrows.Close()
			return nil, err
		}
		qrows.Close()
	}
	return existing, nil
}

func insertArgs(r Row, _ TableSpec) []any {
	return r.Values()
}

// updateArgs orders non-key columns first, then the key for the WHERE
// clause, matching buildUpdateSQL's placeholder numbering.
func updateArgs(r Row, spec TableSpec) []any {
	keySet := map[string]bool{}
	for _, k := range spec.KeyColumns {
		keySet[k] = true
	}
	vals := r.Values()
	args := make([]any, 0, len(vals))
	for i, col := range spec.Columns {
		if !keySet[col] {
			args = append(args, vals[i])
		}
	}
	return append(args, r.KeyValues()...)
}

// applyChunks writes rows in bounded sub-batches, each inside its own
// transaction. A failing sub-batch rolls back alone and is reported; the
// remaining sub-batches still run.
func (w *BatchWriter) applyChunks(ctx context.Context, rows []Row, query string, argsFn func(Row, TableSpec) []any) (int, []string) {
	applied := 0
	var errs []string
	for start := 0; start < len(rows); start += w.subBatchSize {
		end := start + w.subBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		if err := w.applyOne(ctx, chunk, query, argsFn); err != nil {
			msg := fmt.Sprintf("%s: sub-batch %d-%d failed: %v", w.spec.Table, start, end-1, err)
			errs = append(errs, msg)
			log.Printf("[ERROR] store: %s", msg)
			continue
		}
		applied += len(chunk)
	}
	return applied, errs
}

func (w *BatchWriter) applyOne(ctx context.Context, chunk []Row, query string, argsFn func(Row, TableSpec) []any) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			log.Printf("[ERROR] store %s: rollback: %v", w.spec.Table, err)
		}
	}()

	batch := &pgx.Batch{}
	for _, r := range chunk {
		batch.Queue(query, argsFn(r, w.spec)...)
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < len(chunk); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return tx.Commit(ctx)
}

func buildExistsSQL(spec TableSpec, nTuples int) string {
	nKey := len(spec.KeyColumns)
	selectCols := make([]string, nKey)
	for i, k := range spec.KeyColumns {
		selectCols[i] = k + "::text"
	}
	tuples := make([]string, 0, nTuples)
	for i := 0; i < nTuples; i++ {
		ph := make([]string, nKey)
		for j := 0; j < nKey; j++ {
			ph[j] = fmt.Sprintf("$%d", i*nKey+j+1)
		}
		tuples = append(tuples, "("+strings.Join(ph, ", ")+")")
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE (%s) IN (%s)",
		strings.Join(selectCols, ", "), spec.Table,
		strings.Join(spec.KeyColumns, ", "), strings.Join(tuples, ", "))
}

func buildInsertSQL(spec TableSpec) string {
	ph := make([]string, len(spec.Columns))
	for i := range spec.Columns {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		spec.Table, strings.Join(spec.Columns, ", "), strings.Join(ph, ", "))
}

func buildUpdateSQL(spec TableSpec) string {
	keySet := map[string]bool{}
	for _, k := range spec.KeyColumns {
		keySet[k] = true
	}
	var sets []string
	n := 1
	for _, col := range spec.Columns {
		if keySet[col] {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, n))
		n++
	}
	var where []string
	for _, k := range spec.KeyColumns {
		where = append(where, fmt.Sprintf("%s = $%d", k, n))
		n++
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		spec.Table, strings.Join(sets, ", "), strings.Join(where, " AND "))
}
