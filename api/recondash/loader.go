package recondash

import (
	"context"
	"fmt"
	"time"

	"ComexCore/internal/models"
	"ComexCore/internal/recon"

	"github.com/jackc/pgx/v5/pgxpool"
)

// loadReconInput reads the full reconciliation scope from the store.
// Reconciliation is a read-side projection over persisted rows; it must not
// run concurrently with an ingestion batch mutating the same rows.
func loadReconInput(ctx context.Context, pool *pgxpool.Pool) (recon.Input, error) {
	var in recon.Input

	rows, err := pool.Query(ctx, `SELECT uuid, folio, issue_date, COALESCE(client, ''),
		net_amount, total_amount, outstanding_balance, credit_term_days, COALESCE(salesperson, '')
		FROM invoices`)
	if err != nil {
		return in, fmt.Errorf("load invoices: %w", err)
	}
	for rows.Next() {
		var inv models.Invoice
		var issue *time.Time
		if err := rows.Scan(&inv.UUID, &inv.Folio, &issue, &inv.Client,
			&inv.NetAmount, &inv.TotalAmount, &inv.OutstandingBalance,
			&inv.CreditTermDays, &inv.Salesperson); err != nil {
			rows.Close()
			return in, fmt.Errorf("scan invoice: %w", err)
		}
		// undated invoices keep the zero time; aging excludes them
		if issue != nil {
			inv.IssueDate = *issue
		}
		in.Invoices = append(in.Invoices, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return in, err
	}

	rows, err = pool.Query(ctx, `SELECT invoice_uuid, payment_date, amount, COALESCE(currency, ''), exchange_rate
		FROM collections`)
	if err != nil {
		return in, fmt.Errorf("load collections: %w", err)
	}
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.InvoiceUUID, &c.PaymentDate, &c.Amount, &c.Currency, &c.ExchangeRate); err != nil {
			rows.Close()
			return in, fmt.Errorf("scan collection: %w", err)
		}
		in.Collections = append(in.Collections, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return in, err
	}

	rows, err = pool.Query(ctx, `SELECT invoice_uuid, doc_type, COALESCE(doc_date, '0001-01-01'), amount
		FROM related_documents`)
	if err != nil {
		return in, fmt.Errorf("load related documents: %w", err)
	}
	for rows.Next() {
		var d models.RelatedDocument
		if err := rows.Scan(&d.InvoiceUUID, &d.DocType, &d.DocDate, &d.Amount); err != nil {
			rows.Close()
			return in, fmt.Errorf("scan related document: %w", err)
		}
		in.Advances = append(in.Advances, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return in, err
	}

	rows, err = pool.Query(ctx, `SELECT order_ref, folio, COALESCE(client, ''), amount, invoice_date, credit_term_days
		FROM sales_order_lines`)
	if err != nil {
		return in, fmt.Errorf("load sales order lines: %w", err)
	}
	for rows.Next() {
		var l models.SalesOrderLine
		if err := rows.Scan(&l.OrderRef, &l.Folio, &l.Client, &l.Amount, &l.InvoiceDate, &l.CreditTermDays); err != nil {
			rows.Close()
			return in, fmt.Errorf("scan sales order line: %w", err)
		}
		in.OrderLines = append(in.OrderLines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return in, err
	}

	return in, nil
}
