package store

import (
	"log"

	"github.com/shopspring/decimal"
)

var (
	decZero = decimal.Zero
	decOne  = decimal.NewFromInt(1)
)

// ClampPercent normalizes a percentage-typed field to the [0,1] range at 4
// decimal digits, the maximum magnitude the store represents. Values above 1
// are read as percentages and divided by 100; anything still out of range is
// clamped. Every altering decision is logged with field and key context;
// silent truncation is never acceptable.
func ClampPercent(v float64, field, key string) float64 {
	orig := v
	if v > 1 {
		v = v / 100
		log.Printf("[WARN] store: %s %s: value %v read as percentage, normalized to %v", key, field, orig, v)
	}
	d := decimal.NewFromFloat(v).Round(4)
	if d.LessThan(decZero) {
		log.Printf("[WARN] store: %s %s: value %v clamped to 0", key, field, orig)
		d = decZero
	}
	if d.GreaterThan(decOne) {
		log.Printf("[WARN] store: %s %s: value %v clamped to 1", key, field, orig)
		d = decOne
	}
	f, _ := d.Float64()
	return f
}

// RoundMoney rounds a monetary amount to cents before persistence.
func RoundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
