package store

import (
	"fmt"
	"time"

	"ComexCore/internal/models"
)

// Table specs for every persisted record type. Column order must match the
// corresponding adapter's Values.
var (
	PurchaseOrderSpec = TableSpec{
		Table:      "purchase_orders",
		KeyColumns: []string{"order_id"},
		Columns: []string{
			"order_id", "supplier", "order_date", "origin_port", "currency",
			"credit_term_days", "advance_percent", "advance_amount", "advance_date",
			"estimated_ship_date", "actual_ship_date", "estimated_arrival_date",
			"actual_arrival_date", "estimated_plant_date", "actual_plant_date",
			"due_date", "estimated_rate", "actual_rate", "import_expense_origin",
			"import_expense_local", "import_expense_percent",
			"total_with_import_costs_local", "tax_local", "total_with_tax_local",
		},
	}
	PurchaseLineSpec = TableSpec{
		Table:      "purchase_line_items",
		KeyColumns: []string{"order_id", "material_code"},
		Columns: []string{
			"order_id", "material_code", "quantity_kg", "unit_price_origin",
			"unit_price_local", "unit_price_landed", "line_cost_origin",
			"line_cost_local", "line_cost_with_import_costs", "tax", "total_with_tax",
		},
	}
	InvoiceSpec = TableSpec{
		Table:      "invoices",
		KeyColumns: []string{"uuid"},
		Columns: []string{
			"uuid", "folio", "issue_date", "client", "net_amount", "total_amount",
			"outstanding_balance", "credit_term_days", "salesperson",
		},
	}
	CollectionSpec = TableSpec{
		Table:      "collections",
		KeyColumns: []string{"invoice_uuid", "payment_date", "amount"},
		Columns: []string{
			"invoice_uuid", "payment_date", "amount", "currency", "exchange_rate",
		},
	}
	RelatedDocSpec = TableSpec{
		Table:      "related_documents",
		KeyColumns: []string{"invoice_uuid", "doc_type", "amount"},
		Columns:    []string{"invoice_uuid", "doc_type", "doc_date", "amount"},
	}
	SalesOrderLineSpec = TableSpec{
		Table:      "sales_order_lines",
		KeyColumns: []string{"order_ref", "folio"},
		Columns: []string{
			"order_ref", "folio", "client", "amount", "invoice_date", "credit_term_days",
		},
	}
)

// PurchaseOrderRow adapts a purchase order for the batch writer, applying
// percent clamping and monetary rounding at the persistence boundary.
type PurchaseOrderRow struct{ Order models.PurchaseOrder }

func (r PurchaseOrderRow) KeyValues() []any { return []any{r.Order.OrderID} }

func (r PurchaseOrderRow) Validate() string {
	if r.Order.OrderID <= 0 {
		return "purchase order without positive order id"
	}
	return ""
}

func (r PurchaseOrderRow) Values() []any {
	o := r.Order
	key := fmt.Sprintf("order %d", o.OrderID)
	return []any{
		o.OrderID, o.Supplier, o.OrderDate, o.OriginPort, o.Currency,
		o.CreditTermDays,
		ClampPercent(o.AdvancePercent, "advance_percent", key),
		RoundMoney(o.AdvanceAmount), nullableTime(o.AdvanceDate),
		nullableTime(o.EstimatedShipDate), nullableTime(o.ActualShipDate),
		nullableTime(o.EstimatedArrivalDate), nullableTime(o.ActualArrivalDate),
		nullableTime(o.EstimatedPlantDate), nullableTime(o.ActualPlantDate),
		nullableTime(o.DueDate), o.EstimatedRate, o.ActualRate,
		RoundMoney(o.ImportExpenseOrigin), RoundMoney(o.ImportExpenseLocal),
		ClampPercent(o.ImportExpensePercent, "import_expense_percent", key),
		RoundMoney(o.TotalWithImportCostsLocal), RoundMoney(o.TaxLocal),
		RoundMoney(o.TotalWithTaxLocal),
	}
}

// PurchaseLineRow adapts a derived line item.
type PurchaseLineRow struct{ Item models.PurchaseLineItem }

func (r PurchaseLineRow) KeyValues() []any {
	return []any{r.Item.OrderID, r.Item.MaterialCode}
}

func (r PurchaseLineRow) Validate() string {
	switch {
	case r.Item.OrderID <= 0:
		return "line item without positive order id"
	case r.Item.MaterialCode == "":
		return fmt.Sprintf("order %d line without material code", r.Item.OrderID)
	case r.Item.QuantityKg <= 0:
		return fmt.Sprintf("order %d material %s: non-positive quantity", r.Item.OrderID, r.Item.MaterialCode)
	}
	return ""
}

func (r PurchaseLineRow) Values() []any {
	it := r.Item
	return []any{
		it.OrderID, it.MaterialCode, it.QuantityKg, it.UnitPriceOrigin,
		it.UnitPriceLocal, it.UnitPriceLanded, RoundMoney(it.LineCostOrigin),
		RoundMoney(it.LineCostLocal), RoundMoney(it.LineCostWithImportCosts),
		RoundMoney(it.Tax), RoundMoney(it.TotalWithTax),
	}
}

// InvoiceRow adapts a sales invoice.
type InvoiceRow struct{ Invoice models.Invoice }

func (r InvoiceRow) KeyValues() []any { return []any{r.Invoice.UUID} }

func (r InvoiceRow) Validate() string {
	if r.Invoice.UUID == "" {
		return "invoice without fiscal UUID"
	}
	if r.Invoice.Folio == "" {
		return fmt.Sprintf("invoice %s without folio", r.Invoice.UUID)
	}
	return ""
}

func (r InvoiceRow) Values() []any {
	inv := r.Invoice
	return []any{
		inv.UUID, inv.Folio, inv.IssueDate, inv.Client,
		RoundMoney(inv.NetAmount), RoundMoney(inv.TotalAmount),
		RoundMoney(inv.OutstandingBalance), inv.CreditTermDays, inv.Salesperson,
	}
}

// CollectionRow adapts a payment. Collections carry no natural identifier in
// the source files; the (invoice uuid, payment date, amount) triple stands
// in, which collapses identical same-day partial payments. The key amount is
// rounded to cents so it matches the NUMERIC(14,2) column it is compared
// against.
type CollectionRow struct{ Collection models.Collection }

func (r CollectionRow) KeyValues() []any {
	c := r.Collection
	return []any{c.InvoiceUUID, c.PaymentDate, RoundMoney(c.Amount)}
}

func (r CollectionRow) Validate() string {
	if r.Collection.PaymentDate.IsZero() {
		return "collection without payment date"
	}
	if r.Collection.Amount <= 0 {
		return "collection with non-positive amount"
	}
	return ""
}

func (r CollectionRow) Values() []any {
	c := r.Collection
	return []any{c.InvoiceUUID, c.PaymentDate, RoundMoney(c.Amount), c.Currency, c.ExchangeRate}
}

// RelatedDocRow adapts an advance/credit-note document.
type RelatedDocRow struct{ Doc models.RelatedDocument }

func (r RelatedDocRow) KeyValues() []any {
	return []any{r.Doc.InvoiceUUID, r.Doc.DocType, RoundMoney(r.Doc.Amount)}
}

func (r RelatedDocRow) Validate() string {
	if r.Doc.InvoiceUUID == "" {
		return "related document without invoice UUID"
	}
	if r.Doc.Amount <= 0 {
		return fmt.Sprintf("related document %s with non-positive amount", r.Doc.InvoiceUUID)
	}
	return ""
}

func (r RelatedDocRow) Values() []any {
	d := r.Doc
	return []any{d.InvoiceUUID, d.DocType, d.DocDate, RoundMoney(d.Amount)}
}

// SalesOrderLineRow adapts a sales order line.
type SalesOrderLineRow struct{ Line models.SalesOrderLine }

func (r SalesOrderLineRow) KeyValues() []any {
	return []any{r.Line.OrderRef, r.Line.Folio}
}

func (r SalesOrderLineRow) Validate() string {
	if r.Line.OrderRef == "" {
		return "sales order line without order reference"
	}
	if r.Line.Amount <= 0 {
		return fmt.Sprintf("order %s line with non-positive amount", r.Line.OrderRef)
	}
	return ""
}

func (r SalesOrderLineRow) Values() []any {
	l := r.Line
	return []any{
		l.OrderRef, l.Folio, l.Client, RoundMoney(l.Amount),
		nullableTime(l.InvoiceDate), l.CreditTermDays,
	}
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
