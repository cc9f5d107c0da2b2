package ingestion

import (
	"fmt"
	"log"
	"net/http"

	"ComexCore/internal/config"
	"ComexCore/internal/serviceiface"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IngestionService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewIngestionService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &IngestionService{config: cfg, pool: pool}
}

func (s *IngestionService) Name() string {
	return "ingestion"
}

func (s *IngestionService) Start() error {
	go StartIngestionService(s.pool)
	return nil
}

func (s *IngestionService) Stop() error {
	return nil
}

func StartIngestionService(pool *pgxpool.Pool) {
	router := mux.NewRouter()
	router.HandleFunc("/ingestion/purchasing", UploadPurchasingHandler(pool)).Methods("POST")
	router.HandleFunc("/ingestion/invoicing", UploadInvoicingHandler(pool)).Methods("POST")

	addr := fmt.Sprintf(":%d", config.IngestionPort)
	log.Println("Ingestion Service started on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Ingestion Service failed: %v", err)
	}
}
