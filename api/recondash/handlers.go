package recondash

import (
	"encoding/json"
	"net/http"

	"ComexCore/api"
	"ComexCore/internal/recon"

	"github.com/jackc/pgx/v5/pgxpool"
)

type reconRequest struct {
	HorizonDays int      `json:"horizon_days,omitempty"`
	OrderRefs   []string `json:"order_refs,omitempty"`
}

func decodeReconRequest(r *http.Request) reconRequest {
	var req reconRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req
}

func runRecon(w http.ResponseWriter, r *http.Request, pool *pgxpool.Pool) (recon.Result, bool) {
	req := decodeReconRequest(r)
	in, err := loadReconInput(r.Context(), pool)
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return recon.Result{}, false
	}
	in.HorizonDays = req.HorizonDays

	var filter *recon.Filter
	if len(req.OrderRefs) > 0 {
		filter = &recon.Filter{OrderRefs: req.OrderRefs}
	}
	return recon.Reconcile(in, filter), true
}

// AgingHandler serves the aging-of-receivables breakdown and per-client
// ranking.
func AgingHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := runRecon(w, r, pool)
		if !ok {
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"aging":             res.Aging,
			"total_outstanding": res.TotalOutstanding,
			"top_clients":       res.TopClients,
		})
	}
}

// TopClientsHandler serves the per-client outstanding ranking on its own.
func TopClientsHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := runRecon(w, r, pool)
		if !ok {
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"top_clients": res.TopClients,
		})
	}
}

// ForecastHandler serves the Monday-aligned weekly cash-collection
// forecast. A low-confidence flag accompanies an all-zero expected series
// instead of fabricated placeholder values.
func ForecastHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := runRecon(w, r, pool)
		if !ok {
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"forecast":       res.Forecast,
			"low_confidence": res.LowConfidence,
		})
	}
}

// AllocationHandler serves the proportionally allocated collection total
// for a caller-selected subset of sales order lines.
func AllocationHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := decodeReconRequest(r)
		if len(req.OrderRefs) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, "order_refs is required")
			return
		}
		in, err := loadReconInput(r.Context(), pool)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		in.HorizonDays = req.HorizonDays
		res := recon.Reconcile(in, &recon.Filter{OrderRefs: req.OrderRefs})
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"allocated_total": res.AllocatedTotal,
		})
	}
}
