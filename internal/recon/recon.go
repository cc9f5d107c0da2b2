package recon

import (
	"log"
	"sort"
	"time"

	"ComexCore/internal/config"
	"ComexCore/internal/models"
)

// Input is the full reconciliation scope: already-persisted invoices,
// collections, advance/credit-note documents and sales order lines. Today
// anchors aging and the forecast; HorizonDays extends the forecast window
// past today (zero means the configured default).
type Input struct {
	Invoices    []models.Invoice
	Collections []models.Collection
	Advances    []models.RelatedDocument
	OrderLines  []models.SalesOrderLine
	Today       time.Time
	HorizonDays int
}

// Filter restricts allocation and forecast expectations to a subset of
// sales order lines.
type Filter struct {
	OrderRefs []string
}

type AgingBucket struct {
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Invoices int     `json:"invoices"`
}

type ClientBalance struct {
	Client      string  `json:"client"`
	Outstanding float64 `json:"outstanding"`
	Invoices    int     `json:"invoices"`
}

type WeekPoint struct {
	WeekStart time.Time `json:"week_start"`
	Expected  float64   `json:"expected"`
	Actual    float64   `json:"actual"`
}

type Result struct {
	Aging            []AgingBucket   `json:"aging"`
	TotalOutstanding float64         `json:"total_outstanding"`
	TopClients       []ClientBalance `json:"top_clients"`
	Forecast         []WeekPoint     `json:"forecast"`
	AllocatedTotal   float64         `json:"allocated_total"`
	LowConfidence    bool            `json:"low_confidence"`
}

// Reconcile links invoices to collections and advances by fiscal UUID and to
// sales order lines by folio, then produces the aging breakdown, per-client
// ranking, Monday-aligned weekly cash forecast and, when a filter is given,
// the proportionally allocated collection total for the selected lines.
func Reconcile(in Input, filter *Filter) Result {
	today := in.Today
	if today.IsZero() {
		today = time.Now()
	}
	horizon := in.HorizonDays
	if horizon <= 0 {
		horizon = config.ForecastHorizonDays
	}

	collected := make(map[string]float64, len(in.Invoices))
	for _, c := range in.Collections {
		if c.InvoiceUUID != "" {
			collected[c.InvoiceUUID] += c.Amount
		}
	}
	offsets := make(map[string]float64, len(in.Advances))
	for _, a := range in.Advances {
		offsets[a.InvoiceUUID] += a.Amount
	}

	// recompute outstanding balances from linked documents
	byFolio := make(map[string]*models.Invoice, len(in.Invoices))
	invoices := make([]models.Invoice, len(in.Invoices))
	copy(invoices, in.Invoices)
	for i := range invoices {
		inv := &invoices[i]
		inv.OutstandingBalance = inv.TotalAmount - collected[inv.UUID] - offsets[inv.UUID]
		byFolio[inv.Folio] = inv
	}

	res := Result{
		Aging: agingBuckets(invoices, today),
	}
	for _, b := range res.Aging {
		res.TotalOutstanding += b.Amount
	}
	res.TopClients = topClients(invoices)
	res.Forecast, res.LowConfidence = weeklyForecast(invoices, collected, offsets, in.Collections, in.OrderLines, byFolio, filter, today, horizon)
	if filter != nil {
		res.AllocatedTotal = allocateCollections(in.OrderLines, byFolio, collected, filter)
	}
	return res
}

var bucketLabels = [4]string{"0-30", "31-60", "61-90", "90+"}

// agingBuckets partitions the outstanding balance of unpaid invoices by days
// overdue. Amounts not yet due fall into the 0-30 bucket; invoices without an
// issue date cannot be aged and are excluded with a warning.
func agingBuckets(invoices []models.Invoice, today time.Time) []AgingBucket {
	buckets := make([]AgingBucket, 4)
	for i := range buckets {
		buckets[i].Label = bucketLabels[i]
	}
	for _, inv := range invoices {
		if inv.OutstandingBalance <= 0 {
			continue
		}
		if inv.IssueDate.IsZero() {
			log.Printf("[WARN] recon: invoice %s has no issue date, excluded from aging", inv.Folio)
			continue
		}
		credit := inv.CreditTermDays
		if credit <= 0 {
			credit = config.DefaultCreditTermDays
		}
		due := inv.IssueDate.AddDate(0, 0, credit)
		overdue := int(today.Sub(due).Hours() / 24)

		idx := 0
		switch {
		case overdue > 90:
			idx = 3
		case overdue > 60:
			idx = 2
		case overdue > 30:
			idx = 1
		}
		buckets[idx].Amount += inv.OutstandingBalance
		buckets[idx].Invoices++
	}
	return buckets
}

func topClients(invoices []models.Invoice) []ClientBalance {
	byClient := map[string]*ClientBalance{}
	for _, inv := range invoices {
		if inv.OutstandingBalance <= 0 {
			continue
		}
		cb, ok := byClient[inv.Client]
		if !ok {
			cb = &ClientBalance{Client: inv.Client}
			byClient[inv.Client] = cb
		}
		cb.Outstanding += inv.OutstandingBalance
		cb.Invoices++
	}
	ranked := make([]ClientBalance, 0, len(byClient))
	for _, cb := range byClient {
		ranked = append(ranked, *cb)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Outstanding != ranked[j].Outstanding {
			return ranked[i].Outstanding > ranked[j].Outstanding
		}
		return ranked[i].Client < ranked[j].Client
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	return ranked
}

// allocateCollections apportions each invoice's collected amount linearly
// across its order lines: C x (S / T), where T sums all lines carrying the
// folio and S only the selected ones. Zero when T is zero. Collections are
// treated as interchangeable across the lines of an invoice; this is not a
// FIFO payment-matching rule.
func allocateCollections(lines []models.SalesOrderLine, byFolio map[string]*models.Invoice, collected map[string]float64, filter *Filter) float64 {
	selected := make(map[string]bool, len(filter.OrderRefs))
	for _, ref := range filter.OrderRefs {
		selected[ref] = true
	}

	totalByFolio := map[string]float64{}
	selectedByFolio := map[string]float64{}
	for _, l := range lines {
		if l.Folio == "" {
			continue
		}
		totalByFolio[l.Folio] += l.Amount
		if selected[l.OrderRef] {
			selectedByFolio[l.Folio] += l.Amount
		}
	}

	var allocated float64
	for folio, s := range selectedByFolio {
		t := totalByFolio[folio]
		if t <= 0 {
			continue
		}
		inv, ok := byFolio[folio]
		if !ok {
			continue
		}
		allocated += collected[inv.UUID] * (s / t)
	}
	return allocated
}

// weekStart aligns a date to its Monday at midnight UTC.
func weekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// weeklyForecast buckets expected collections (order-line amounts due in the
// week, excluding near-fully-collected invoices) and actual collections (by
// payment date) into Monday-start weeks spanning from the earliest relevant
// invoice date through today plus the horizon.
func weeklyForecast(invoices []models.Invoice, collected, offsets map[string]float64, collections []models.Collection, lines []models.SalesOrderLine, byFolio map[string]*models.Invoice, filter *Filter, today time.Time, horizonDays int) ([]WeekPoint, bool) {
	selected := map[string]bool{}
	if filter != nil {
		for _, ref := range filter.OrderRefs {
			selected[ref] = true
		}
	}

	type lineDue struct {
		week   time.Time
		amount float64
	}
	var dues []lineDue
	var earliest time.Time
	for _, l := range lines {
		if filter != nil && !selected[l.OrderRef] {
			continue
		}
		if l.InvoiceDate == nil || l.Folio == "" {
			continue
		}
		inv, ok := byFolio[l.Folio]
		if !ok {
			continue
		}
		// invoices at or above the settled threshold no longer contribute
		if inv.TotalAmount > 0 {
			ratio := (collected[inv.UUID] + offsets[inv.UUID]) / inv.TotalAmount
			if ratio >= config.SettledThreshold {
				continue
			}
		}
		credit := l.CreditTermDays
		if credit <= 0 {
			credit = inv.CreditTermDays
		}
		if credit <= 0 {
			credit = config.DefaultCreditTermDays
		}
		due := l.InvoiceDate.AddDate(0, 0, credit)
		dues = append(dues, lineDue{week: weekStart(due), amount: l.Amount})
		if earliest.IsZero() || l.InvoiceDate.Before(earliest) {
			earliest = *l.InvoiceDate
		}
	}

	if earliest.IsZero() {
		earliest = today
	}
	start := weekStart(earliest)
	end := weekStart(today.AddDate(0, 0, horizonDays))

	index := map[time.Time]int{}
	var points []WeekPoint
	for w := start; !w.After(end); w = w.AddDate(0, 0, 7) {
		index[w] = len(points)
		points = append(points, WeekPoint{WeekStart: w})
	}

	anyExpected := false
	for _, d := range dues {
		if i, ok := index[d.week]; ok {
			points[i].Expected += d.amount
			if d.amount != 0 {
				anyExpected = true
			}
		}
	}
	for _, c := range collections {
		if i, ok := index[weekStart(c.PaymentDate)]; ok {
			points[i].Actual += c.Amount
		}
	}

	lowConfidence := !anyExpected
	if lowConfidence {
		log.Printf("[WARN] recon: forecast has no non-zero expected collections, signaling low confidence")
	}
	return points, lowConfidence
}
