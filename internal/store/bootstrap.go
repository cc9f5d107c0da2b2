package store

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the engine's tables when absent. Ran once from main
// against the bootstrap database/sql handle; idempotent.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS purchase_orders (
			order_id BIGINT PRIMARY KEY,
			supplier TEXT NOT NULL,
			order_date DATE NOT NULL,
			origin_port TEXT,
			currency TEXT,
			credit_term_days INT DEFAULT 0,
			advance_percent NUMERIC(5,4) DEFAULT 0,
			advance_amount NUMERIC(14,2) DEFAULT 0,
			advance_date DATE,
			estimated_ship_date DATE,
			actual_ship_date DATE,
			estimated_arrival_date DATE,
			actual_arrival_date DATE,
			estimated_plant_date DATE,
			actual_plant_date DATE,
			due_date DATE,
			estimated_rate DOUBLE PRECISION DEFAULT 0,
			actual_rate DOUBLE PRECISION DEFAULT 0,
			import_expense_origin NUMERIC(14,2) DEFAULT 0,
			import_expense_local NUMERIC(14,2) DEFAULT 0,
			import_expense_percent NUMERIC(5,4) DEFAULT 0,
			total_with_import_costs_local NUMERIC(14,2) DEFAULT 0,
			tax_local NUMERIC(14,2) DEFAULT 0,
			total_with_tax_local NUMERIC(14,2) DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS purchase_line_items (
			order_id BIGINT NOT NULL,
			material_code TEXT NOT NULL,
			quantity_kg DOUBLE PRECISION NOT NULL,
			unit_price_origin DOUBLE PRECISION DEFAULT 0,
			unit_price_local DOUBLE PRECISION DEFAULT 0,
			unit_price_landed DOUBLE PRECISION DEFAULT 0,
			line_cost_origin NUMERIC(14,2) DEFAULT 0,
			line_cost_local NUMERIC(14,2) DEFAULT 0,
			line_cost_with_import_costs NUMERIC(14,2) DEFAULT 0,
			tax NUMERIC(14,2) DEFAULT 0,
			total_with_tax NUMERIC(14,2) DEFAULT 0,
			PRIMARY KEY (order_id, material_code)
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			uuid TEXT PRIMARY KEY,
			folio TEXT NOT NULL,
			issue_date DATE,
			client TEXT,
			net_amount NUMERIC(14,2) DEFAULT 0,
			total_amount NUMERIC(14,2) DEFAULT 0,
			outstanding_balance NUMERIC(14,2) DEFAULT 0,
			credit_term_days INT DEFAULT 0,
			salesperson TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS collections (
			invoice_uuid TEXT NOT NULL DEFAULT '',
			payment_date DATE NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			currency TEXT,
			exchange_rate DOUBLE PRECISION DEFAULT 0,
			PRIMARY KEY (invoice_uuid, payment_date, amount)
		)`,
		`CREATE TABLE IF NOT EXISTS related_documents (
			invoice_uuid TEXT NOT NULL,
			doc_type TEXT NOT NULL DEFAULT '',
			doc_date DATE,
			amount NUMERIC(14,2) NOT NULL,
			PRIMARY KEY (invoice_uuid, doc_type, amount)
		)`,
		`CREATE TABLE IF NOT EXISTS sales_order_lines (
			order_ref TEXT NOT NULL,
			folio TEXT NOT NULL DEFAULT '',
			client TEXT,
			amount NUMERIC(14,2) DEFAULT 0,
			invoice_date DATE,
			credit_term_days INT DEFAULT 0,
			PRIMARY KEY (order_ref, folio)
		)`,
		`CREATE TABLE IF NOT EXISTS supplier_stats (
			supplier TEXT PRIMARY KEY,
			mean_production_days DOUBLE PRECISION DEFAULT 0,
			mean_transit_days DOUBLE PRECISION DEFAULT 0,
			port_code TEXT DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
