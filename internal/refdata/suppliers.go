package refdata

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ComexCore/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Snapshot is an explicit, per-run view of the supplier reference table.
// Callers load a fresh snapshot for each ingestion run instead of relying
// on a process-global cache; any write to supplier_stats is picked up by
// the next run's load.
type Snapshot struct {
	LoadedAt time.Time
	stats    map[string]models.SupplierStats
}

// LoadSupplierSnapshot reads supplier lead-time statistics once.
func LoadSupplierSnapshot(ctx context.Context, pool *pgxpool.Pool) (*Snapshot, error) {
	rows, err := pool.Query(ctx,
		`SELECT supplier, mean_production_days, mean_transit_days, port_code FROM supplier_stats`)
	if err != nil {
		return nil, fmt.Errorf("supplier snapshot query: %w", err)
	}
	defer rows.Close()

	snap := &Snapshot{LoadedAt: time.Now(), stats: map[string]models.SupplierStats{}}
	for rows.Next() {
		var s models.SupplierStats
		if err := rows.Scan(&s.Supplier, &s.MeanProductionDays, &s.MeanTransitDays, &s.PortCode); err != nil {
			return nil, fmt.Errorf("supplier snapshot scan: %w", err)
		}
		snap.stats[normalizeName(s.Supplier)] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("supplier snapshot rows: %w", err)
	}
	log.Printf("[INFO] refdata: loaded %d supplier stats", len(snap.stats))
	return snap, nil
}

// NewSnapshot builds a snapshot from explicit stats; used by tests and by
// callers that already hold reference data.
func NewSnapshot(stats []models.SupplierStats) *Snapshot {
	snap := &Snapshot{LoadedAt: time.Now(), stats: map[string]models.SupplierStats{}}
	for _, s := range stats {
		snap.stats[normalizeName(s.Supplier)] = s
	}
	return snap
}

// Lookup returns the stats for a supplier, or zero-valued stats with a
// logged warning for unknown suppliers.
func (s *Snapshot) Lookup(supplier string) models.SupplierStats {
	if st, ok := s.stats[normalizeName(supplier)]; ok {
		return st
	}
	log.Printf("[WARN] refdata: unknown supplier %q, lead times default to zero", supplier)
	return models.SupplierStats{Supplier: supplier}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
