package schema

import "testing"

func TestMapColumnsSynonyms(t *testing.T) {
	def, _ := Definition(SheetPurchaseHeaders)
	// Provedor is a known misspelling in historical files
	header := []string{"No. IMI", "Provedor", "Fecha de Pedido", "Puerto Origen", "Divisa"}

	cm, _ := MapColumns(header, def)
	want := map[string]int{
		"order_id":    0,
		"supplier":    1,
		"order_date":  2,
		"origin_port": 3,
		"currency":    4,
	}
	for field, idx := range want {
		if cm[field] != idx {
			t.Errorf("MapColumns(): field %s = %d, want %d", field, cm[field], idx)
		}
	}
}

func TestMapColumnsPositionalFallback(t *testing.T) {
	def, _ := Definition(SheetPurchaseLines)
	// nothing matches by name, the sheet is wide enough for ordinals
	header := []string{"col a", "col b", "col c", "col d"}

	cm, _ := MapColumns(header, def)
	if cm["order_id"] != 0 || cm["material_code"] != 1 || cm["quantity_kg"] != 2 || cm["unit_price_origin"] != 3 {
		t.Errorf("positional fallback failed: %v", cm)
	}
}

func TestMapColumnsRequiredUnmappedWarns(t *testing.T) {
	def, _ := Definition(SheetPurchaseLines)
	// too narrow for positional fallback past column 0
	header := []string{"imi"}

	cm, warnings := MapColumns(header, def)
	if cm["order_id"] != 0 {
		t.Errorf("order_id = %d, want 0", cm["order_id"])
	}
	if cm["material_code"] != -1 || cm["quantity_kg"] != -1 {
		t.Errorf("narrow sheet should leave fields unmapped: %v", cm)
	}
	if len(warnings) == 0 {
		t.Error("expected warnings for unmapped required fields")
	}
}

func TestMapColumnsDeterministic(t *testing.T) {
	def, _ := Definition(SheetInvoices)
	header := []string{"UUID", "Folio", "Fecha", "Cliente", "Subtotal", "Total", "Saldo"}

	first, _ := MapColumns(header, def)
	for i := 0; i < 5; i++ {
		again, _ := MapColumns(header, def)
		for k, v := range first {
			if again[k] != v {
				t.Fatalf("MapColumns() not deterministic for %s: %d then %d", k, v, again[k])
			}
		}
	}
}

func TestProcessSheetPurchaseHeaders(t *testing.T) {
	rows := [][]string{
		{"Compras 2026"},
		{},
		{"IMI", "Proveedor", "Fecha Pedido", "Puerto Origen", "Moneda"},
		{"1001", "  ACME   GmbH ", "2026-01-05", "SHANGHAI", "usd"},
		{"", "", "", "", ""},
		{"1002", "Beta Corp", "2026-01-07", "NACIONAL", "MXN"},
	}

	recs, _, err := ProcessSheet(rows, SheetPurchaseHeaders)
	if err != nil {
		t.Fatalf("ProcessSheet() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (blank row skipped)", len(recs))
	}
	if recs[0]["supplier"] != "ACME GmbH" {
		t.Errorf("whitespace not collapsed: %q", recs[0]["supplier"])
	}
	if recs[1]["order_id"] != "1002" {
		t.Errorf("order_id = %q, want 1002", recs[1]["order_id"])
	}
}

func TestProcessSheetInvalidUUIDTreatedAsAbsent(t *testing.T) {
	rows := [][]string{
		{"UUID", "Folio", "Fecha", "Cliente", "Total"},
		{"not-a-uuid", "F-100", "2026-02-01", "Cliente Uno", "1000"},
		{"a81b0f3e-4c5d-4e6f-8a9b-0c1d2e3f4a5b", "F-101", "2026-02-02", "Cliente Dos", "2000"},
	}

	recs, _, err := ProcessSheet(rows, SheetInvoices)
	if err != nil {
		t.Fatalf("ProcessSheet() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if _, ok := recs[0]["uuid"]; ok {
		t.Error("invalid UUID should be absent from the record")
	}
	if recs[1]["uuid"] != "A81B0F3E-4C5D-4E6F-8A9B-0C1D2E3F4A5B" {
		t.Errorf("uuid not upper-cased: %q", recs[1]["uuid"])
	}
}

func TestProcessSheetUnknownType(t *testing.T) {
	if _, _, err := ProcessSheet([][]string{{"a"}}, SheetType("bogus")); err == nil {
		t.Error("expected error for unknown sheet type")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  hola  mundo ", "hola mundo"},
		{"uno\t\tdos", "uno dos"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeUUID(t *testing.T) {
	got, ok := NormalizeUUID(" a81b0f3e-4c5d-4e6f-8a9b-0c1d2e3f4a5b ")
	if !ok || got != "A81B0F3E-4C5D-4E6F-8A9B-0C1D2E3F4A5B" {
		t.Errorf("NormalizeUUID() = %q, %v", got, ok)
	}
	if _, ok := NormalizeUUID("xyz"); ok {
		t.Error("NormalizeUUID() accepted an invalid value")
	}
}
