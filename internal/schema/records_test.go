package schema

import (
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$1,234.56", 1234.56},
		{"1 500", 1500},
		{"15%", 15},
		{"-2.5", -2.5},
		{"", 0},
		{"-", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"2026-01-15", datePtr(2026, 1, 15)},
		{"15/01/2026", datePtr(2026, 1, 15)},
		{"5/1/2026", datePtr(2026, 1, 5)},
		{"44927", datePtr(2023, 1, 1)}, // Excel serial
		{"2", nil},                     // below the serial floor
		{"", nil},
		{"mañana", nil},
	}
	for _, tt := range tests {
		got := ParseDate(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ParseDate(%q) = %v, want nil", tt.in, got)
		case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildPurchaseOrdersSkipsInvalidRows(t *testing.T) {
	recs := []Record{
		{"order_id": "1001", "supplier": "ACME", "order_date": "2026-01-05", "estimated_rate": "17.5"},
		{"order_id": "0", "supplier": "ACME", "order_date": "2026-01-05"},
		{"order_id": "1002", "order_date": "2026-01-05"},
		{"order_id": "1003", "supplier": "Beta", "order_date": "no date"},
	}

	orders, issues := BuildPurchaseOrders(recs)
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	if len(issues) != 3 {
		t.Errorf("got %d issues, want 3", len(issues))
	}
	if orders[0].OrderID != 1001 || orders[0].EstimatedRate != 17.5 {
		t.Errorf("unexpected order: %+v", orders[0])
	}
}

func TestBuildPurchaseLinesSkipsNonPositiveQuantity(t *testing.T) {
	recs := []Record{
		{"order_id": "1001", "material_code": "MAT-A", "quantity_kg": "100", "unit_price_origin": "2.00"},
		{"order_id": "1001", "material_code": "MAT-B", "quantity_kg": "0"},
		{"order_id": "1001", "quantity_kg": "50"},
	}

	items, issues := BuildPurchaseLines(recs)
	if len(items) != 1 || len(issues) != 2 {
		t.Fatalf("got %d items %d issues, want 1 and 2", len(items), len(issues))
	}
	if items[0].QuantityKg != 100 || items[0].UnitPriceOrigin != 2.00 {
		t.Errorf("unexpected line: %+v", items[0])
	}
}

func TestBuildInvoicesRequiresIdentity(t *testing.T) {
	recs := []Record{
		{"uuid": "A81B0F3E-4C5D-4E6F-8A9B-0C1D2E3F4A5B", "folio": "F-100", "total_amount": "$4,118.00"},
		{"folio": "F-101"},
		{"uuid": "A81B0F3E-4C5D-4E6F-8A9B-0C1D2E3F4A5C"},
	}

	invoices, issues := BuildInvoices(recs)
	if len(invoices) != 1 || len(issues) != 2 {
		t.Fatalf("got %d invoices %d issues, want 1 and 2", len(invoices), len(issues))
	}
	if invoices[0].TotalAmount != 4118 {
		t.Errorf("total = %v, want 4118", invoices[0].TotalAmount)
	}
}

func TestBuildCollections(t *testing.T) {
	recs := []Record{
		{"payment_date": "2026-03-02", "amount": "400", "currency": "mxn"},
		{"payment_date": "2026-03-02", "amount": "0"},
		{"amount": "100"},
	}

	cols, issues := BuildCollections(recs)
	if len(cols) != 1 || len(issues) != 2 {
		t.Fatalf("got %d collections %d issues, want 1 and 2", len(cols), len(issues))
	}
	if cols[0].Currency != "MXN" {
		t.Errorf("currency not upper-cased: %q", cols[0].Currency)
	}
	if cols[0].InvoiceUUID != "" {
		t.Errorf("unmatched collection should keep empty UUID, got %q", cols[0].InvoiceUUID)
	}
}
