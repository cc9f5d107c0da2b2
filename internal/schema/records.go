package schema

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"ComexCore/internal/models"
)

// RowIssue reports one skipped row with enough context to audit later.
type RowIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseNumber parses a monetary or numeric cell, tolerating currency
// symbols, thousands separators and surrounding spaces. Invalid numerics
// default to zero; derived-field math never raises on bad input.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"02/01/06",
	time.RFC3339,
}

// ParseDate tries the date layouts seen in source files, plus Excel serial
// numbers (days since 1899-12-30). Returns nil when nothing matches.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 200000 {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		t := epoch.AddDate(0, 0, int(serial))
		return &t
	}
	return nil
}

// BuildPurchaseOrders converts normalized records into purchase orders.
// Rows without a positive order id are skipped with a reason; everything
// else parses leniently, defaulting bad numerics to zero.
func BuildPurchaseOrders(recs []Record) ([]models.PurchaseOrder, []RowIssue) {
	var orders []models.PurchaseOrder
	var issues []RowIssue
	for i, rec := range recs {
		orderID := int64(ParseNumber(rec["order_id"]))
		if orderID <= 0 {
			issues = append(issues, RowIssue{Row: i, Reason: "missing or non-positive order id"})
			continue
		}
		if rec["supplier"] == "" {
			issues = append(issues, RowIssue{Row: i, Reason: fmt.Sprintf("order %d: missing supplier", orderID)})
			continue
		}
		orderDate := ParseDate(rec["order_date"])
		if orderDate == nil {
			issues = append(issues, RowIssue{Row: i, Reason: fmt.Sprintf("order %d: missing or unparseable order date", orderID)})
			continue
		}
		o := models.PurchaseOrder{
			OrderID:              orderID,
			Supplier:             rec["supplier"],
			OrderDate:            *orderDate,
			OriginPort:           rec["origin_port"],
			Currency:             strings.ToUpper(rec["currency"]),
			CreditTermDays:       int(ParseNumber(rec["credit_term_days"])),
			AdvancePercent:       ParseNumber(rec["advance_percent"]),
			AdvanceAmount:        ParseNumber(rec["advance_amount"]),
			AdvanceDate:          ParseDate(rec["advance_date"]),
			EstimatedShipDate:    ParseDate(rec["estimated_ship_date"]),
			ActualShipDate:       ParseDate(rec["actual_ship_date"]),
			EstimatedArrivalDate: ParseDate(rec["estimated_arrival_date"]),
			ActualArrivalDate:    ParseDate(rec["actual_arrival_date"]),
			ActualPlantDate:      ParseDate(rec["actual_plant_date"]),
			EstimatedRate:        ParseNumber(rec["estimated_rate"]),
			ActualRate:           ParseNumber(rec["actual_rate"]),
			ImportExpenseOrigin:  ParseNumber(rec["import_expense_origin"]),
			ImportExpenseLocal:   ParseNumber(rec["import_expense_local"]),
		}
		orders = append(orders, o)
	}
	logIssues("purchase orders", issues)
	return orders, issues
}

// BuildPurchaseLines converts normalized records into line items. Rows
// missing identity (order id, material code, positive quantity) are skipped,
// never fatal to the batch.
func BuildPurchaseLines(recs []Record) ([]models.PurchaseLineItem, []RowIssue) {
	var items []models.PurchaseLineItem
	var issues []RowIssue
	for i, rec := range recs {
		orderID := int64(ParseNumber(rec["order_id"]))
		material := rec["material_code"]
		qty := ParseNumber(rec["quantity_kg"])
		switch {
		case orderID <= 0:
			issues = append(issues, RowIssue{Row: i, Reason: "missing or non-positive order id"})
			continue
		case material == "":
			issues = append(issues, RowIssue{Row: i, Reason: fmt.Sprintf("order %d: missing material code", orderID)})
			continue
		case qty <= 0:
			issues = append(issues, RowIssue{Row: i, Reason: fmt.Sprintf("order %d material %s: non-positive quantity", orderID, material)})
			continue
		}
		items = append(items, models.PurchaseLineItem{
			OrderID:         orderID,
			MaterialCode:    material,
			QuantityKg:      qty,
			UnitPriceOrigin: ParseNumber(rec["unit_price_origin"]),
		})
	}
	logIssues("purchase lines", issues)
	return items, issues
}

// BuildInvoices converts normalized records into invoices. A valid fiscal
// UUID and a folio are the row identity.
func BuildInvoices(recs []Record) ([]models.Invoice, []RowIssue) {
	var invoices []models.Invoice
	var issues []RowIssue
	for i, rec := range recs {
		if rec["uuid"] == "" {
			issues = append(issues, RowIssue{Row: i, Reason: "missing or invalid fiscal UUID"})
			continue
		}
		if rec["folio"] == "" {
			issues = append(issues, RowIssue{Row: i, Reason: fmt.Sprintf("uuid %s: missing folio", rec["uuid"])})
			continue
		}
		issue := ParseDate(rec["issue_date"])
		inv := models.Invoice{
			UUID:               rec["uuid"],
			Folio:              rec["folio"],
			Client:             rec["client"],
			NetAmount:          ParseNumber(rec["net_amount"]),
			TotalAmount:        ParseNumber(rec["total_amount"]),
			OutstandingBalance: ParseNumber(rec["outstanding_balance"]),
			CreditTermDays:     int(ParseNumber(rec["credit_term_days"])),
			Salesperson:        rec["salesperson"],
		}
		if issue != nil {
			inv.IssueDate = *issue
		}
		invoices = append(invoices, inv)
	}
	logIssues("invoices", issues)
	return invoices, issues
}

// BuildCollections converts normalized records into collections. The invoice
// UUID is optional; unmatched collections stay unreconciled.
func BuildCollections(recs []Record) ([]models.Collection, []RowIssue) {
	var cols []models.Collection
	var issues []RowIssue
	for i, rec := range recs {
		date := ParseDate(rec["payment_date"])
		amount := ParseNumber(rec["amount"])
		if date == nil {
			issues = append(issues, RowIssue{Row: i, Reason: "missing or unparseable payment date"})
			continue
		}
		if amount <= 0 {
			issues = append(issues, RowIssue{Row: i, Reason: "non-positive payment amount"})
			continue
		}
		cols = append(cols, models.Collection{
			PaymentDate:  *date,
			Amount:       amount,
			Currency:     strings.ToUpper(rec["currency"]),
			ExchangeRate: ParseNumber(rec["exchange_rate"]),
			InvoiceUUID:  rec["invoice_uuid"],
		})
	}
	logIssues("collections", issues)
	return cols, issues
}

// BuildRelatedDocuments converts normalized records into advance/credit-note
// documents.
func BuildRelatedDocuments(recs []Record) ([]models.RelatedDocument, []RowIssue) {
	var docs []models.RelatedDocument
	var issues []RowIssue
	for i, rec := range recs {
		if rec["invoice_uuid"] == "" {
			issues = append(issues, RowIssue{Row: i, Reason: "missing or invalid related invoice UUID"})
			continue
		}
		amount := ParseNumber(rec["amount"])
		if amount <= 0 {
			issues = append(issues, RowIssue{Row: i, Reason: fmt.Sprintf("uuid %s: non-positive amount", rec["invoice_uuid"])})
			continue
		}
		doc := models.RelatedDocument{
			InvoiceUUID: rec["invoice_uuid"],
			DocType:     strings.ToLower(rec["doc_type"]),
			Amount:      amount,
		}
		if d := ParseDate(rec["doc_date"]); d != nil {
			doc.DocDate = *d
		}
		docs = append(docs, doc)
	}
	logIssues("related documents", issues)
	return docs, issues
}

// BuildSalesOrderLines converts normalized records into sales order lines.
func BuildSalesOrderLines(recs []Record) ([]models.SalesOrderLine, []RowIssue) {
	var lines []models.SalesOrderLine
	var issues []RowIssue
	for i, rec := range recs {
		if rec["order_ref"] == "" {
			issues = append(issues, RowIssue{Row: i, Reason: "missing order reference"})
			continue
		}
		amount := ParseNumber(rec["amount"])
		if amount <= 0 {
			issues = append(issues, RowIssue{Row: i, Reason: fmt.Sprintf("order %s: non-positive amount", rec["order_ref"])})
			continue
		}
		lines = append(lines, models.SalesOrderLine{
			OrderRef:       rec["order_ref"],
			Folio:          rec["folio"],
			Client:         rec["client"],
			Amount:         amount,
			InvoiceDate:    ParseDate(rec["invoice_date"]),
			CreditTermDays: int(ParseNumber(rec["credit_term_days"])),
		})
	}
	logIssues("sales order lines", issues)
	return lines, issues
}

func logIssues(kind string, issues []RowIssue) {
	for _, is := range issues {
		log.Printf("[WARN] %s: row %d skipped: %s", kind, is.Row+1, is.Reason)
	}
}
