package models

import "time"

// PurchaseOrder is one import transaction, keyed by the externally assigned
// IMI sequence number. Local-currency amounts are always origin amount times
// the effective exchange rate (actual when set, estimated otherwise).
type PurchaseOrder struct {
	OrderID        int64      `json:"order_id" db:"order_id"`
	Supplier       string     `json:"supplier" db:"supplier"`
	OrderDate      time.Time  `json:"order_date" db:"order_date"`
	OriginPort     string     `json:"origin_port" db:"origin_port"`
	Currency       string     `json:"currency" db:"currency"`
	CreditTermDays int        `json:"credit_term_days" db:"credit_term_days"`
	AdvancePercent float64    `json:"advance_percent" db:"advance_percent"`
	AdvanceAmount  float64    `json:"advance_amount" db:"advance_amount"`
	AdvanceDate    *time.Time `json:"advance_date,omitempty" db:"advance_date"`

	EstimatedShipDate    *time.Time `json:"estimated_ship_date,omitempty" db:"estimated_ship_date"`
	ActualShipDate       *time.Time `json:"actual_ship_date,omitempty" db:"actual_ship_date"`
	EstimatedArrivalDate *time.Time `json:"estimated_arrival_date,omitempty" db:"estimated_arrival_date"`
	ActualArrivalDate    *time.Time `json:"actual_arrival_date,omitempty" db:"actual_arrival_date"`
	EstimatedPlantDate   *time.Time `json:"estimated_plant_date,omitempty" db:"estimated_plant_date"`
	ActualPlantDate      *time.Time `json:"actual_plant_date,omitempty" db:"actual_plant_date"`
	DueDate              *time.Time `json:"due_date,omitempty" db:"due_date"`

	EstimatedRate float64 `json:"estimated_rate" db:"estimated_rate"`
	ActualRate    float64 `json:"actual_rate" db:"actual_rate"`

	ImportExpenseOrigin  float64 `json:"import_expense_origin" db:"import_expense_origin"`
	ImportExpenseLocal   float64 `json:"import_expense_local" db:"import_expense_local"`
	ImportExpensePercent float64 `json:"import_expense_percent" db:"import_expense_percent"`

	TotalWithImportCostsLocal float64 `json:"total_with_import_costs_local" db:"total_with_import_costs_local"`
	TaxLocal                  float64 `json:"tax_local" db:"tax_local"`
	TotalWithTaxLocal         float64 `json:"total_with_tax_local" db:"total_with_tax_local"`
}

// EffectiveRate prefers the actual exchange rate over the estimate.
func (o *PurchaseOrder) EffectiveRate() float64 {
	if o.ActualRate > 0 {
		return o.ActualRate
	}
	return o.EstimatedRate
}

// PurchaseLineItem is one material line within a purchase order, keyed by
// (order id, material code). Owned by its order.
type PurchaseLineItem struct {
	OrderID      int64  `json:"order_id" db:"order_id"`
	MaterialCode string `json:"material_code" db:"material_code"`

	QuantityKg      float64 `json:"quantity_kg" db:"quantity_kg"`
	UnitPriceOrigin float64 `json:"unit_price_origin" db:"unit_price_origin"`
	UnitPriceLocal  float64 `json:"unit_price_local" db:"unit_price_local"`
	UnitPriceLanded float64 `json:"unit_price_landed" db:"unit_price_landed"`

	LineCostOrigin          float64 `json:"line_cost_origin" db:"line_cost_origin"`
	LineCostLocal           float64 `json:"line_cost_local" db:"line_cost_local"`
	LineCostWithImportCosts float64 `json:"line_cost_with_import_costs" db:"line_cost_with_import_costs"`
	Tax                     float64 `json:"tax" db:"tax"`
	TotalWithTax            float64 `json:"total_with_tax" db:"total_with_tax"`
}

// Invoice is one sales invoice. The fiscal UUID is the authoritative
// reconciliation key; folio is the human-readable sequence number and is only
// unique within this dataset.
type Invoice struct {
	UUID               string    `json:"uuid" db:"uuid"`
	Folio              string    `json:"folio" db:"folio"`
	IssueDate          time.Time `json:"issue_date" db:"issue_date"`
	Client             string    `json:"client" db:"client"`
	NetAmount          float64   `json:"net_amount" db:"net_amount"`
	TotalAmount        float64   `json:"total_amount" db:"total_amount"`
	OutstandingBalance float64   `json:"outstanding_balance" db:"outstanding_balance"`
	CreditTermDays     int       `json:"credit_term_days" db:"credit_term_days"`
	Salesperson        string    `json:"salesperson" db:"salesperson"`
}

// Collection is one payment received. InvoiceUUID may be empty; unmatched
// collections are valid but unreconciled.
type Collection struct {
	PaymentDate  time.Time `json:"payment_date" db:"payment_date"`
	Amount       float64   `json:"amount" db:"amount"`
	Currency     string    `json:"currency" db:"currency"`
	ExchangeRate float64   `json:"exchange_rate" db:"exchange_rate"`
	InvoiceUUID  string    `json:"invoice_uuid" db:"invoice_uuid"`
}

// RelatedDocument is an advance payment or credit note linked to an invoice
// UUID, offsetting its effective receivable.
type RelatedDocument struct {
	InvoiceUUID string    `json:"invoice_uuid" db:"invoice_uuid"`
	DocType     string    `json:"doc_type" db:"doc_type"` // "anticipo" | "nota_credito"
	DocDate     time.Time `json:"doc_date" db:"doc_date"`
	Amount      float64   `json:"amount" db:"amount"`
}

// SalesOrderLine links a sales order to an invoice by folio. One invoice can
// aggregate many order lines; collections are apportioned across them.
type SalesOrderLine struct {
	OrderRef       string     `json:"order_ref" db:"order_ref"`
	Folio          string     `json:"folio" db:"folio"`
	Client         string     `json:"client" db:"client"`
	Amount         float64    `json:"amount" db:"amount"`
	InvoiceDate    *time.Time `json:"invoice_date,omitempty" db:"invoice_date"`
	CreditTermDays int        `json:"credit_term_days" db:"credit_term_days"`
}

// SupplierStats carries lead-time reference data for logistics estimates.
type SupplierStats struct {
	Supplier           string  `json:"supplier" db:"supplier"`
	MeanProductionDays float64 `json:"mean_production_days" db:"mean_production_days"`
	MeanTransitDays    float64 `json:"mean_transit_days" db:"mean_transit_days"`
	PortCode           string  `json:"port_code" db:"port_code"`
}
