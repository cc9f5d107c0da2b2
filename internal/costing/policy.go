package costing

// ImportExpensePolicy decides how much of an order's local-currency import
// expense lands on one line item.
type ImportExpensePolicy func(orderExpenseLocal, lineQtyKg, orderTotalQtyKg float64) float64

// AllocateFullToEachLine adds the whole order expense to every line. This
// matches the historical costing sheets; swap the policy here to change the
// rule without touching the pipeline.
func AllocateFullToEachLine(orderExpenseLocal, _, _ float64) float64 {
	return orderExpenseLocal
}

// AllocateProRataByWeight splits the order expense across lines by quantity.
func AllocateProRataByWeight(orderExpenseLocal, lineQtyKg, orderTotalQtyKg float64) float64 {
	if orderTotalQtyKg <= 0 {
		return 0
	}
	return orderExpenseLocal * lineQtyKg / orderTotalQtyKg
}
