package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/config"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/service"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/sheets"
)

// The fetch/ingest server: a thin surface over the Drive feed folder used
// by the back-office operators to pull marketplace files straight into the
// demand ledger.
func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	sheetsService, err := sheets.NewService(cfg.Sheets.CredentialsJSON)
	if err != nil {
		log.Fatalf("Failed to initialize Drive service: %v", err)
	}

	productionService := service.NewProductionService(service.ProductionServiceOptions{
		Sheets: cfg.Sheets,
	})

	r := mux.NewRouter()

	feedHandler := sheets.NewHandler(sheetsService, productionService)
	feedHandler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
