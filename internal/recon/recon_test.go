package recon

import (
	"math"
	"testing"
	"time"

	"ComexCore/internal/models"
)

const eps = 1e-9

var today = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) // a Monday

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func TestOutstandingRecomputedFromLinkedDocuments(t *testing.T) {
	in := Input{
		Invoices: []models.Invoice{
			// stale stored balance must be ignored
			{UUID: "U1", Folio: "F1", IssueDate: today.AddDate(0, 0, -10), Client: "Alfa", TotalAmount: 1000, OutstandingBalance: 999, CreditTermDays: 30},
		},
		Collections: []models.Collection{
			{InvoiceUUID: "U1", PaymentDate: today.AddDate(0, 0, -5), Amount: 400},
		},
		Advances: []models.RelatedDocument{
			{InvoiceUUID: "U1", DocType: "anticipo", Amount: 100},
		},
		Today: today,
	}

	res := Reconcile(in, nil)
	if math.Abs(res.TotalOutstanding-500) > eps {
		t.Errorf("TotalOutstanding = %v, want 500", res.TotalOutstanding)
	}
}

func TestAgingBucketsPartitionOutstanding(t *testing.T) {
	in := Input{
		Invoices: []models.Invoice{
			// overdue 10 days
			{UUID: "U1", Folio: "F1", IssueDate: today.AddDate(0, 0, -40), Client: "Alfa", TotalAmount: 100, CreditTermDays: 30},
			// overdue 70 days
			{UUID: "U2", Folio: "F2", IssueDate: today.AddDate(0, 0, -100), Client: "Beta", TotalAmount: 200, CreditTermDays: 30},
			// no credit terms, default applies: overdue 100 days
			{UUID: "U3", Folio: "F3", IssueDate: today.AddDate(0, 0, -130), Client: "Gamma", TotalAmount: 300},
			// not yet due, lands in the first bucket
			{UUID: "U4", Folio: "F4", IssueDate: today.AddDate(0, 0, -10), Client: "Alfa", TotalAmount: 50, CreditTermDays: 30},
			// fully collected, excluded everywhere
			{UUID: "U5", Folio: "F5", IssueDate: today.AddDate(0, 0, -200), Client: "Beta", TotalAmount: 400, CreditTermDays: 30},
		},
		Collections: []models.Collection{
			{InvoiceUUID: "U5", PaymentDate: today.AddDate(0, 0, -100), Amount: 400},
		},
		Today: today,
	}

	res := Reconcile(in, nil)

	wantAmounts := map[string]float64{"0-30": 150, "31-60": 0, "61-90": 200, "90+": 300}
	var sum float64
	for _, b := range res.Aging {
		if math.Abs(b.Amount-wantAmounts[b.Label]) > eps {
			t.Errorf("bucket %s = %v, want %v", b.Label, b.Amount, wantAmounts[b.Label])
		}
		sum += b.Amount
	}
	if math.Abs(sum-res.TotalOutstanding) > eps {
		t.Errorf("buckets sum %v != total outstanding %v", sum, res.TotalOutstanding)
	}
	if math.Abs(res.TotalOutstanding-650) > eps {
		t.Errorf("TotalOutstanding = %v, want 650", res.TotalOutstanding)
	}
}

func TestAgingExcludesUndatedInvoices(t *testing.T) {
	in := Input{
		Invoices: []models.Invoice{
			{UUID: "U1", Folio: "F1", IssueDate: today.AddDate(0, 0, -40), Client: "Alfa", TotalAmount: 200, CreditTermDays: 30},
			// no issue date: cannot be aged, must not land in 90+
			{UUID: "U2", Folio: "F2", Client: "Beta", TotalAmount: 100},
		},
		Today: today,
	}

	res := Reconcile(in, nil)
	if math.Abs(res.TotalOutstanding-200) > eps {
		t.Errorf("TotalOutstanding = %v, want 200 (undated invoice excluded)", res.TotalOutstanding)
	}
	for _, b := range res.Aging {
		if b.Label == "90+" && b.Amount != 0 {
			t.Errorf("undated invoice aged into 90+ bucket: %v", b.Amount)
		}
	}
}

func TestTopClientsRanking(t *testing.T) {
	in := Input{
		Invoices: []models.Invoice{
			{UUID: "U1", Folio: "F1", IssueDate: today, Client: "Beta", TotalAmount: 300},
			{UUID: "U2", Folio: "F2", IssueDate: today, Client: "Alfa", TotalAmount: 200},
			{UUID: "U3", Folio: "F3", IssueDate: today, Client: "Alfa", TotalAmount: 100},
			{UUID: "U4", Folio: "F4", IssueDate: today, Client: "Gamma", TotalAmount: 300},
		},
		Today: today,
	}

	res := Reconcile(in, nil)
	if len(res.TopClients) != 3 {
		t.Fatalf("got %d clients, want 3", len(res.TopClients))
	}
	// Alfa 300 over two invoices; equal balances order by name
	if res.TopClients[0].Client != "Alfa" || res.TopClients[0].Invoices != 2 {
		t.Errorf("first = %+v, want Alfa with 2 invoices", res.TopClients[0])
	}
	if res.TopClients[1].Client != "Beta" || res.TopClients[2].Client != "Gamma" {
		t.Errorf("tie not broken by name: %+v", res.TopClients)
	}
}

func TestAllocateCollectionsProportionally(t *testing.T) {
	in := Input{
		Invoices: []models.Invoice{
			{UUID: "U1", Folio: "F1", IssueDate: today.AddDate(0, 0, -60), Client: "Alfa", TotalAmount: 1000, CreditTermDays: 30},
		},
		Collections: []models.Collection{
			{InvoiceUUID: "U1", PaymentDate: today.AddDate(0, 0, -20), Amount: 400},
			{InvoiceUUID: "U1", PaymentDate: today.AddDate(0, 0, -10), Amount: 350},
		},
		OrderLines: []models.SalesOrderLine{
			{OrderRef: "P1", Folio: "F1", Amount: 600, InvoiceDate: dayPtr(2026, 7, 2)},
			{OrderRef: "P2", Folio: "F1", Amount: 400, InvoiceDate: dayPtr(2026, 7, 2)},
		},
		Today: today,
	}

	one := Reconcile(in, &Filter{OrderRefs: []string{"P1"}})
	if math.Abs(one.AllocatedTotal-450) > eps { // 750 x 600/1000
		t.Errorf("AllocatedTotal = %v, want 450", one.AllocatedTotal)
	}

	both := Reconcile(in, &Filter{OrderRefs: []string{"P1", "P2"}})
	if math.Abs(both.AllocatedTotal-750) > eps {
		t.Errorf("AllocatedTotal = %v, want 750 (S equals T)", both.AllocatedTotal)
	}
}

func TestWeekStartAlignsToMonday(t *testing.T) {
	monday := day(2026, 8, 24)
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{day(2026, 8, 24), monday}, // Monday stays
		{day(2026, 8, 26), monday}, // Wednesday
		{day(2026, 8, 30), monday}, // Sunday belongs to the prior Monday
	}
	for _, tt := range tests {
		if got := weekStart(tt.in); !got.Equal(tt.want) {
			t.Errorf("weekStart(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWeeklyForecastBucketsDuesAndActuals(t *testing.T) {
	in := Input{
		Invoices: []models.Invoice{
			{UUID: "U1", Folio: "F1", IssueDate: day(2026, 8, 3), Client: "Alfa", TotalAmount: 1000, CreditTermDays: 30},
		},
		Collections: []models.Collection{
			{InvoiceUUID: "U1", PaymentDate: day(2026, 8, 5), Amount: 200},
		},
		OrderLines: []models.SalesOrderLine{
			// due 2026-09-02, which falls in the week of Monday 2026-08-31
			{OrderRef: "P1", Folio: "F1", Amount: 1000, InvoiceDate: dayPtr(2026, 8, 3), CreditTermDays: 30},
		},
		Today:       today,
		HorizonDays: 28,
	}

	res := Reconcile(in, nil)
	if res.LowConfidence {
		t.Fatal("forecast flagged low confidence with a live expectation")
	}
	if len(res.Forecast) != 9 { // Mondays 2026-08-03 through 2026-09-28
		t.Fatalf("got %d weeks, want 9", len(res.Forecast))
	}
	if !res.Forecast[0].WeekStart.Equal(day(2026, 8, 3)) {
		t.Errorf("first week = %v, want 2026-08-03", res.Forecast[0].WeekStart)
	}

	byWeek := map[time.Time]WeekPoint{}
	for _, p := range res.Forecast {
		byWeek[p.WeekStart] = p
	}
	if p := byWeek[day(2026, 8, 31)]; math.Abs(p.Expected-1000) > eps {
		t.Errorf("expected in due week = %v, want 1000", p.Expected)
	}
	if p := byWeek[day(2026, 8, 3)]; math.Abs(p.Actual-200) > eps {
		t.Errorf("actual in payment week = %v, want 200", p.Actual)
	}
}

func TestWeeklyForecastExcludesSettledInvoices(t *testing.T) {
	in := Input{
		Invoices: []models.Invoice{
			{UUID: "U1", Folio: "F1", IssueDate: day(2026, 8, 3), Client: "Alfa", TotalAmount: 1000, CreditTermDays: 30},
		},
		Collections: []models.Collection{
			// 99.5% collected crosses the settled threshold
			{InvoiceUUID: "U1", PaymentDate: day(2026, 8, 10), Amount: 995},
		},
		OrderLines: []models.SalesOrderLine{
			{OrderRef: "P1", Folio: "F1", Amount: 1000, InvoiceDate: dayPtr(2026, 8, 3), CreditTermDays: 30},
		},
		Today: today,
	}

	res := Reconcile(in, nil)
	for _, p := range res.Forecast {
		if p.Expected != 0 {
			t.Errorf("week %v expected = %v, want 0 for a settled invoice", p.WeekStart, p.Expected)
		}
	}
	if !res.LowConfidence {
		t.Error("all-zero expected series must flag low confidence")
	}
}
