package recondash

import (
	"fmt"
	"log"
	"net/http"

	"ComexCore/internal/config"
	"ComexCore/internal/serviceiface"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReconDashService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewReconDashService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &ReconDashService{config: cfg, pool: pool}
}

func (s *ReconDashService) Name() string {
	return "recondash"
}

func (s *ReconDashService) Start() error {
	go StartReconDashService(s.pool)
	return nil
}

func (s *ReconDashService) Stop() error {
	return nil
}

func StartReconDashService(pool *pgxpool.Pool) {
	router := mux.NewRouter()
	router.HandleFunc("/recon/aging", AgingHandler(pool)).Methods("POST")
	router.HandleFunc("/recon/top-clients", TopClientsHandler(pool)).Methods("POST")
	router.HandleFunc("/recon/forecast", ForecastHandler(pool)).Methods("POST")
	router.HandleFunc("/recon/allocation", AllocationHandler(pool)).Methods("POST")

	addr := fmt.Sprintf(":%d", config.ReconDashPort)
	log.Println("Recon Dashboard Service started on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Recon Dashboard Service failed: %v", err)
	}
}
