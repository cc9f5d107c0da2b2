package costing

import (
	"log"

	"ComexCore/internal/config"
	"ComexCore/internal/models"
)

// Calculator derives monetary and logistics fields for a purchase order and
// its line items. The zero value is not usable; construct with New.
type Calculator struct {
	policy  ImportExpensePolicy
	taxRate float64
}

func New(policy ImportExpensePolicy) *Calculator {
	if policy == nil {
		policy = AllocateFullToEachLine
	}
	return &Calculator{policy: policy, taxRate: config.IVARate}
}

// ComputeDerivedFields fills the invariant-derived fields of an order and
// its lines: currency conversion at the effective rate, import-expense
// allocation per policy, IVA, order aggregation sums and logistics
// estimates. Lines not belonging to the order are ignored. Inputs are not
// mutated; enriched copies are returned.
func (c *Calculator) ComputeDerivedFields(order models.PurchaseOrder, items []models.PurchaseLineItem, stats models.SupplierStats) (models.PurchaseOrder, []models.PurchaseLineItem) {
	rate := order.EffectiveRate()

	var totalQty float64
	for _, it := range items {
		if it.OrderID == order.OrderID {
			totalQty += it.QuantityKg
		}
	}

	enriched := make([]models.PurchaseLineItem, 0, len(items))
	var sumLanded, sumTax, sumWithTax float64
	for _, it := range items {
		if it.OrderID != order.OrderID {
			continue
		}
		it.UnitPriceLocal = it.UnitPriceOrigin * rate
		it.LineCostOrigin = it.QuantityKg * it.UnitPriceOrigin
		it.LineCostLocal = it.QuantityKg * it.UnitPriceLocal

		expense := c.policy(order.ImportExpenseLocal, it.QuantityKg, totalQty)
		it.LineCostWithImportCosts = it.LineCostLocal + expense
		if it.QuantityKg > 0 {
			it.UnitPriceLanded = it.LineCostWithImportCosts / it.QuantityKg
		}
		it.Tax = it.LineCostWithImportCosts * c.taxRate
		it.TotalWithTax = it.LineCostWithImportCosts + it.Tax

		sumLanded += it.LineCostWithImportCosts
		sumTax += it.Tax
		sumWithTax += it.TotalWithTax
		enriched = append(enriched, it)
	}

	order.TotalWithImportCostsLocal = sumLanded
	order.TaxLocal = sumTax
	order.TotalWithTaxLocal = sumWithTax
	if sumLanded > 0 {
		order.ImportExpensePercent = order.ImportExpenseLocal / sumLanded * 100
	} else {
		order.ImportExpensePercent = 0
	}

	c.estimateLogistics(&order, stats)
	return order, enriched
}

// estimateLogistics derives ship/arrival/plant estimates from supplier
// lead-time statistics and the due date from credit terms. Actual dates
// always take precedence over estimates.
func (c *Calculator) estimateLogistics(order *models.PurchaseOrder, stats models.SupplierStats) {
	if stats.MeanProductionDays == 0 && stats.MeanTransitDays == 0 {
		log.Printf("[WARN] costing: order %d supplier %q has no lead-time stats, estimates default to the order date", order.OrderID, order.Supplier)
	}

	ship := order.OrderDate.AddDate(0, 0, int(stats.MeanProductionDays))
	arrival := ship.AddDate(0, 0, int(stats.MeanTransitDays))
	order.EstimatedShipDate = &ship
	order.EstimatedArrivalDate = &arrival

	if stats.PortCode != config.DomesticPortCode && order.ActualPlantDate == nil {
		plant := arrival.AddDate(0, 0, config.PlantTransitDays)
		order.EstimatedPlantDate = &plant
	}

	if order.CreditTermDays > 0 {
		base := order.EstimatedShipDate
		if order.ActualShipDate != nil {
			base = order.ActualShipDate
		}
		due := base.AddDate(0, 0, order.CreditTermDays)
		order.DueDate = &due
	} else {
		order.DueDate = nil
	}
}

// Enrich runs the calculator over a whole batch, grouping line items by
// order id. Orders with no surviving lines still get logistics estimates.
func (c *Calculator) Enrich(orders []models.PurchaseOrder, items []models.PurchaseLineItem, lookup func(supplier string) models.SupplierStats) ([]models.PurchaseOrder, []models.PurchaseLineItem) {
	byOrder := make(map[int64][]models.PurchaseLineItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	outOrders := make([]models.PurchaseOrder, 0, len(orders))
	var outItems []models.PurchaseLineItem
	for _, o := range orders {
		eo, lines := c.ComputeDerivedFields(o, byOrder[o.OrderID], lookup(o.Supplier))
		outOrders = append(outOrders, eo)
		outItems = append(outItems, lines...)
	}
	return outOrders, outItems
}
