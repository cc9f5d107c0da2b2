package ingestion

import (
	"context"
	"fmt"
	"log"

	"ComexCore/internal/costing"
	"ComexCore/internal/models"
	"ComexCore/internal/refdata"
	"ComexCore/internal/schema"
	"ComexCore/internal/sheet"
	"ComexCore/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImportSummary reports one workbook import: per-table persistence results,
// normalization warnings and skipped-row counts, keyed by sheet type.
type ImportSummary struct {
	BatchID  uuid.UUID                    `json:"batch_id"`
	Sheets   map[string]string            `json:"sheets"`
	Results  map[string]store.BatchResult `json:"results"`
	Warnings []string                     `json:"warnings,omitempty"`
	Skipped  map[string]int               `json:"skipped_rows,omitempty"`
}

func newSummary() *ImportSummary {
	return &ImportSummary{
		BatchID: uuid.New(),
		Sheets:  map[string]string{},
		Results: map[string]store.BatchResult{},
		Skipped: map[string]int{},
	}
}

func (s *ImportSummary) record(t schema.SheetType, sheetName string, issues []schema.RowIssue, warnings []string, res store.BatchResult) {
	key := string(t)
	s.Sheets[key] = sheetName
	s.Results[key] = res
	s.Warnings = append(s.Warnings, warnings...)
	if len(issues) > 0 {
		s.Skipped[key] = len(issues)
	}
}

// ImportPurchasingWorkbook runs the full purchasing pipeline: locate the
// header and line-items sheets, normalize, validate, derive costing fields
// against a fresh supplier snapshot, and persist orders and line items in
// idempotent batches.
func ImportPurchasingWorkbook(ctx context.Context, pool *pgxpool.Pool, wb sheet.Workbook) (*ImportSummary, error) {
	sum := newSummary()

	headerGrid, headerName := wb.PickSheet([]string{"pedido", "compra", "imi"}, 0)
	if headerGrid == nil {
		return nil, fmt.Errorf("purchasing workbook has no sheets")
	}
	lineGrid, lineName := wb.PickSheet([]string{"material", "partida", "detalle"}, 1)

	headerRecs, headerWarns, err := schema.ProcessSheet(headerGrid, schema.SheetPurchaseHeaders)
	if err != nil {
		return nil, err
	}
	orders, orderIssues := schema.BuildPurchaseOrders(headerRecs)

	var items []models.PurchaseLineItem
	var lineIssues []schema.RowIssue
	var lineWarns []string
	if lineGrid != nil {
		lineRecs, lw, err := schema.ProcessSheet(lineGrid, schema.SheetPurchaseLines)
		if err != nil {
			return nil, err
		}
		lineWarns = lw
		items, lineIssues = schema.BuildPurchaseLines(lineRecs)
	} else {
		// some exports carry headers only
		log.Printf("[WARN] ingestion: purchasing workbook %v has no line-items sheet", wb.SheetNames())
	}

	snap, err := refdata.LoadSupplierSnapshot(ctx, pool)
	if err != nil {
		return nil, err
	}
	calc := costing.New(nil)
	orders, items = calc.Enrich(orders, items, func(supplier string) models.SupplierStats {
		return snap.Lookup(supplier)
	})

	orderRows := make([]store.Row, 0, len(orders))
	for _, o := range orders {
		orderRows = append(orderRows, store.PurchaseOrderRow{Order: o})
	}
	orderRes, err := store.NewBatchWriter(pool, store.PurchaseOrderSpec, 0).PersistBatch(ctx, orderRows)
	if err != nil {
		return nil, err
	}
	sum.record(schema.SheetPurchaseHeaders, headerName, orderIssues, headerWarns, orderRes)

	lineRows := make([]store.Row, 0, len(items))
	for _, it := range items {
		lineRows = append(lineRows, store.PurchaseLineRow{Item: it})
	}
	lineRes, err := store.NewBatchWriter(pool, store.PurchaseLineSpec, 0).PersistBatch(ctx, lineRows)
	if err != nil {
		return nil, err
	}
	sum.record(schema.SheetPurchaseLines, lineName, lineIssues, lineWarns, lineRes)

	log.Printf("[INFO] ingestion: purchasing batch %s: %d orders, %d line items", sum.BatchID, len(orders), len(items))
	return sum, nil
}

// ImportInvoicingWorkbook ingests the invoicing/collections export: the
// invoices sheet plus optional collections, related-documents and
// sales-order sheets. Missing sheets are skipped with a warning; every
// present sheet is normalized and persisted idempotently.
func ImportInvoicingWorkbook(ctx context.Context, pool *pgxpool.Pool, wb sheet.Workbook) (*ImportSummary, error) {
	sum := newSummary()
	if len(wb) == 0 {
		return nil, fmt.Errorf("invoicing workbook has no sheets")
	}

	if grid, name := wb.PickSheet([]string{"factura", "invoice"}, 0); grid != nil {
		recs, warns, err := schema.ProcessSheet(grid, schema.SheetInvoices)
		if err != nil {
			return nil, err
		}
		invoices, issues := schema.BuildInvoices(recs)
		rows := make([]store.Row, 0, len(invoices))
		for _, inv := range invoices {
			rows = append(rows, store.InvoiceRow{Invoice: inv})
		}
		res, err := store.NewBatchWriter(pool, store.InvoiceSpec, 0).PersistBatch(ctx, rows)
		if err != nil {
			return nil, err
		}
		sum.record(schema.SheetInvoices, name, issues, warns, res)
	} else {
		log.Printf("[WARN] ingestion: invoicing workbook %v has no invoices sheet", wb.SheetNames())
	}

	if grid, name := wb.PickSheet([]string{"cobranza", "pago", "cobro"}, -1); grid != nil {
		recs, warns, err := schema.ProcessSheet(grid, schema.SheetCollections)
		if err != nil {
			return nil, err
		}
		cols, issues := schema.BuildCollections(recs)
		rows := make([]store.Row, 0, len(cols))
		for _, c := range cols {
			rows = append(rows, store.CollectionRow{Collection: c})
		}
		res, err := store.NewBatchWriter(pool, store.CollectionSpec, 0).PersistBatch(ctx, rows)
		if err != nil {
			return nil, err
		}
		sum.record(schema.SheetCollections, name, issues, warns, res)
	}

	if grid, name := wb.PickSheet([]string{"relacionado", "anticipo", "nota"}, -1); grid != nil {
		recs, warns, err := schema.ProcessSheet(grid, schema.SheetRelatedDocs)
		if err != nil {
			return nil, err
		}
		docs, issues := schema.BuildRelatedDocuments(recs)
		rows := make([]store.Row, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, store.RelatedDocRow{Doc: d})
		}
		res, err := store.NewBatchWriter(pool, store.RelatedDocSpec, 0).PersistBatch(ctx, rows)
		if err != nil {
			return nil, err
		}
		sum.record(schema.SheetRelatedDocs, name, issues, warns, res)
	}

	if grid, name := wb.PickSheet([]string{"pedido", "orden", "venta"}, -1); grid != nil {
		recs, warns, err := schema.ProcessSheet(grid, schema.SheetSalesOrders)
		if err != nil {
			return nil, err
		}
		lines, issues := schema.BuildSalesOrderLines(recs)
		rows := make([]store.Row, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, store.SalesOrderLineRow{Line: l})
		}
		res, err := store.NewBatchWriter(pool, store.SalesOrderLineSpec, 0).PersistBatch(ctx, rows)
		if err != nil {
			return nil, err
		}
		sum.record(schema.SheetSalesOrders, name, issues, warns, res)
	}

	log.Printf("[INFO] ingestion: invoicing batch %s processed sheets %v", sum.BatchID, sum.Sheets)
	return sum, nil
}
