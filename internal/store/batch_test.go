package store

import (
	"reflect"
	"testing"
	"time"

	"ComexCore/internal/models"
)

type fakeRow struct {
	id     string
	val    int
	reason string
}

func (r fakeRow) KeyValues() []any { return []any{r.id} }
func (r fakeRow) Values() []any    { return []any{r.id, r.val} }
func (r fakeRow) Validate() string { return r.reason }

var fakeSpec = TableSpec{
	Table:      "things",
	KeyColumns: []string{"id"},
	Columns:    []string{"id", "val"},
}

func TestFilterValid(t *testing.T) {
	rows := []Row{
		fakeRow{id: "a", val: 1},
		fakeRow{id: "", reason: "missing id"},
		fakeRow{id: "b", val: 2},
	}
	valid, skipped := filterValid(rows, "things")
	if len(valid) != 2 || skipped != 1 {
		t.Errorf("filterValid() = %d valid %d skipped, want 2 and 1", len(valid), skipped)
	}
}

func TestDedupeLastWins(t *testing.T) {
	rows := []Row{
		fakeRow{id: "a", val: 1},
		fakeRow{id: "b", val: 2},
		fakeRow{id: "a", val: 3},
	}
	out := dedupeLastWins(rows)
	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2", len(out))
	}
	// first-seen position, last-seen value
	if out[0].(fakeRow).id != "a" || out[0].(fakeRow).val != 3 {
		t.Errorf("out[0] = %+v, want a/3", out[0])
	}
	if out[1].(fakeRow).id != "b" {
		t.Errorf("out[1] = %+v, want b", out[1])
	}
}

func TestPartitionRows(t *testing.T) {
	rows := []Row{
		fakeRow{id: "a", val: 1},
		fakeRow{id: "b", val: 2},
		fakeRow{id: "c", val: 3},
	}
	existing := map[string]bool{"b": true}

	inserts, updates := partitionRows(rows, existing)
	if len(inserts) != 2 || len(updates) != 1 {
		t.Fatalf("got %d inserts %d updates, want 2 and 1", len(inserts), len(updates))
	}
	if updates[0].(fakeRow).id != "b" {
		t.Errorf("update row = %+v, want b", updates[0])
	}
}

func TestBuildExistsSQL(t *testing.T) {
	want := "SELECT id::text FROM things WHERE (id) IN (($1), ($2))"
	if got := buildExistsSQL(fakeSpec, 2); got != want {
		t.Errorf("buildExistsSQL() = %q, want %q", got, want)
	}

	want = "SELECT invoice_uuid::text, payment_date::text, amount::text FROM collections " +
		"WHERE (invoice_uuid, payment_date, amount) IN (($1, $2, $3))"
	if got := buildExistsSQL(CollectionSpec, 1); got != want {
		t.Errorf("buildExistsSQL() = %q, want %q", got, want)
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"U1", "U1"},
		{int64(1001), "1001"},
		{time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), "2026-01-02"},
		{400.0, "400.00"},
		{0.3, "0.30"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := canonicalKey(tt.in); got != tt.want {
			t.Errorf("canonicalKey(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Re-ingesting a sheet must classify already-persisted rows as updates, so
// the go-side key must equal the text form the existence query returns for
// DATE and NUMERIC key columns.
func TestKeyStringRoundTripsDateAndNumericKeys(t *testing.T) {
	row := CollectionRow{Collection: models.Collection{
		InvoiceUUID: "U1",
		PaymentDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Amount:      400,
	}}
	// what the db side renders for invoice_uuid::text, payment_date::text,
	// amount::text on a NUMERIC(14,2) column holding 400.00
	dbKey := "U1\x1f2026-01-02\x1f400.00"
	if got := keyString(row); got != dbKey {
		t.Errorf("keyString() = %q, want %q", got, dbKey)
	}

	// amounts round to cents before keying, matching what was stored
	rounded := CollectionRow{Collection: models.Collection{
		InvoiceUUID: "U1",
		PaymentDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Amount:      400.0049,
	}}
	if got := keyString(rounded); got != dbKey {
		t.Errorf("keyString() with unrounded amount = %q, want %q", got, dbKey)
	}

	doc := RelatedDocRow{Doc: models.RelatedDocument{
		InvoiceUUID: "U2", DocType: "anticipo", Amount: 1234.5,
	}}
	if got := keyString(doc); got != "U2\x1fanticipo\x1f1234.50" {
		t.Errorf("keyString() = %q", got)
	}
}

func TestBuildInsertSQL(t *testing.T) {
	want := "INSERT INTO things (id, val) VALUES ($1, $2)"
	if got := buildInsertSQL(fakeSpec); got != want {
		t.Errorf("buildInsertSQL() = %q, want %q", got, want)
	}
}

func TestBuildUpdateSQL(t *testing.T) {
	want := "UPDATE things SET val = $1 WHERE id = $2"
	if got := buildUpdateSQL(fakeSpec); got != want {
		t.Errorf("buildUpdateSQL() = %q, want %q", got, want)
	}

	wide := TableSpec{
		Table:      "wide",
		KeyColumns: []string{"k1", "k2"},
		Columns:    []string{"k1", "k2", "a", "b"},
	}
	want = "UPDATE wide SET a = $1, b = $2 WHERE k1 = $3 AND k2 = $4"
	if got := buildUpdateSQL(wide); got != want {
		t.Errorf("buildUpdateSQL() = %q, want %q", got, want)
	}
}

func TestUpdateArgsOrdering(t *testing.T) {
	r := fakeRow{id: "a", val: 7}
	got := updateArgs(r, fakeSpec)
	want := []any{7, "a"} // non-key columns first, key last
	if !reflect.DeepEqual(got, want) {
		t.Errorf("updateArgs() = %v, want %v", got, want)
	}
}

func TestTableSpecsKeyColumnsAreListed(t *testing.T) {
	specs := []TableSpec{
		PurchaseOrderSpec, PurchaseLineSpec, InvoiceSpec,
		CollectionSpec, RelatedDocSpec, SalesOrderLineSpec,
	}
	for _, spec := range specs {
		cols := map[string]bool{}
		for _, c := range spec.Columns {
			cols[c] = true
		}
		for _, k := range spec.KeyColumns {
			if !cols[k] {
				t.Errorf("%s: key column %s missing from Columns", spec.Table, k)
			}
		}
	}
}
