package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ComexCore/api/ingestion"
	"ComexCore/internal/config"
	"ComexCore/internal/serviceiface"
	"ComexCore/internal/sheet"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// ImportCronService periodically scans a drop directory for spreadsheet
// exports and runs them through the ingestion pipeline. Purchasing files go
// under <dir>/purchasing, invoicing files under <dir>/invoicing; processed
// files move to a processed/ subdirectory so a failed file stays visible.
type ImportCronService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	cron   *cron.Cron
}

func NewImportCronService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &ImportCronService{config: cfg, pool: pool}
}

func (s *ImportCronService) Name() string {
	return "importcron"
}

func (s *ImportCronService) Start() error {
	schedule := config.DefaultImportSchedule
	dir := config.DefaultImportDir
	if s.config != nil {
		if v, ok := s.config["schedule"].(string); ok && v != "" {
			schedule = v
		}
		if v, ok := s.config["import_dir"].(string); ok && v != "" {
			dir = v
		}
	}

	loc, err := time.LoadLocation(config.DefaultTimeZone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	s.cron = cron.New(cron.WithLocation(loc))
	if _, err := s.cron.AddFunc(schedule, func() { s.scanAndImport(dir) }); err != nil {
		return fmt.Errorf("schedule import job: %w", err)
	}
	s.cron.Start()
	log.Printf("Import scheduler started, schedule %q, watching %s", schedule, dir)
	return nil
}

func (s *ImportCronService) Stop() error {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *ImportCronService) scanAndImport(dir string) {
	s.importKind(filepath.Join(dir, "purchasing"), ingestion.ImportPurchasingWorkbook)
	s.importKind(filepath.Join(dir, "invoicing"), ingestion.ImportInvoicingWorkbook)
}

func (s *ImportCronService) importKind(dir string, run func(context.Context, *pgxpool.Pool, sheet.Workbook) (*ingestion.ImportSummary, error)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[ERROR] importcron: read %s: %v", dir, err)
		}
		return
	}

	for _, e := range entries {
		if e.IsDir() || !isWorkbook(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := s.importFile(path, run); err != nil {
			log.Printf("[ERROR] importcron: %s: %v", path, err)
			continue
		}
		if err := archive(path); err != nil {
			log.Printf("[ERROR] importcron: archive %s: %v", path, err)
		}
	}
}

func (s *ImportCronService) importFile(path string, run func(context.Context, *pgxpool.Pool, sheet.Workbook) (*ingestion.ImportSummary, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	wb, err := sheet.ReadWorkbook(f, path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	summary, err := run(ctx, s.pool, wb)
	if err != nil {
		return err
	}
	log.Printf("[INFO] importcron: %s imported, batch %s", filepath.Base(path), summary.BatchID)
	return nil
}

func isWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls", ".csv":
		return true
	}
	return false
}

func archive(path string) error {
	dest := filepath.Join(filepath.Dir(path), "processed")
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	stamp := time.Now().Format("20060102_150405")
	return os.Rename(path, filepath.Join(dest, stamp+"_"+filepath.Base(path)))
}
