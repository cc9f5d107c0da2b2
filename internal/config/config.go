package config

import (
	"fmt"
	"os"
)

const (
	DefaultTimeZone = "America/Mexico_City"

	// IVARate is the value-added tax rate applied to landed line costs.
	// Fixed at 16% for this dataset's jurisdiction.
	IVARate = 0.16

	// DomesticPortCode marks national suppliers; plant-arrival estimates
	// only apply to orders shipped from a foreign port.
	DomesticPortCode = "NACIONAL"

	// PlantTransitDays is the fixed customs-to-plant leg added after the
	// estimated port arrival.
	PlantTransitDays = 15

	// SubBatchSize bounds each persistence transaction.
	SubBatchSize = 150

	// HeaderScanRows limits how deep the header locator looks.
	HeaderScanRows = 20

	PurchasingHeaderMinMatches = 0
	InvoicingHeaderMinMatches  = 3

	// SettledThreshold treats an invoice collected at or above this ratio
	// as fully settled for forecasting purposes.
	SettledThreshold = 0.99

	DefaultCreditTermDays = 30

	// ForecastHorizonDays covers the longest observed credit term.
	ForecastHorizonDays = 120

	DefaultImportSchedule = "0 * * * *"
	DefaultImportDir      = "./dropbox"

	IngestionPort = 6143
	ReconDashPort = 4143
	GatewayPort   = 8081
)

// DSN builds the Postgres connection string from env vars.
func DSN() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"), os.Getenv("DB_NAME"),
	)
}
