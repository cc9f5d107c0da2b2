package api

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"ComexCore/internal/config"
	"ComexCore/internal/logger"

	"github.com/gorilla/mux"
)

func createReverseProxy(target string) http.HandlerFunc {
	u, err := url.Parse(target)
	if err != nil {
		log.Fatalf("Invalid proxy target %s: %v", target, err)
	}
	proxy := httputil.NewSingleHostReverseProxy(u)
	return func(w http.ResponseWriter, r *http.Request) {
		proxy.ServeHTTP(w, r)
	}
}

// StartGateway starts the API gateway server, proxying to the ingestion and
// reconciliation services by path prefix.
func StartGateway() {
	router := mux.NewRouter()

	router.PathPrefix("/ingestion/").Handler(
		createReverseProxy(fmt.Sprintf("http://localhost:%d", config.IngestionPort)))
	router.PathPrefix("/recon/").Handler(
		createReverseProxy(fmt.Sprintf("http://localhost:%d", config.ReconDashPort)))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	}).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		msg := "[Gateway] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)"
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(msg)
		} else {
			log.Println(msg)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404 - Route not found"))
	})

	addr := fmt.Sprintf(":%d", config.GatewayPort)
	log.Println("API Gateway started on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Gateway server failed: %v", err)
	}
}
