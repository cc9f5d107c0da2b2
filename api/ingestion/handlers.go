package ingestion

import (
	"context"
	"net/http"
	"time"

	"ComexCore/api"
	"ComexCore/internal/sheet"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UploadPurchasingHandler accepts a multipart purchasing workbook upload
// and runs the full ingestion pipeline.
func UploadPurchasingHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return uploadHandler(pool, ImportPurchasingWorkbook)
}

// UploadInvoicingHandler accepts a multipart invoicing/collections workbook
// upload.
func UploadInvoicingHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return uploadHandler(pool, ImportInvoicingWorkbook)
}

func uploadHandler(pool *pgxpool.Pool, run func(ctx context.Context, pool *pgxpool.Pool, wb sheet.Workbook) (*ImportSummary, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse form data")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "No file provided")
			return
		}
		defer file.Close()

		wb, err := sheet.ReadWorkbook(file, header.Filename)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to read workbook: "+err.Error())
			return
		}

		summary, err := run(ctx, pool, wb)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Import failed: "+err.Error())
			return
		}
		api.LogInfo("ingestion: %s imported in %v", header.Filename, time.Since(start))
		api.RespondWithPayload(w, true, "", summary)
	}
}
