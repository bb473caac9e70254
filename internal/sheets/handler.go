package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
)

// Ingestor folds a downloaded feed frame into the demand ledger.
type Ingestor interface {
	IngestFeed(ctx context.Context, fr *frame.Frame, channel string) (string, error)
}

type Handler struct {
	service  *Service
	ingestor Ingestor
}

func NewHandler(service *Service, ingestor Ingestor) *Handler {
	return &Handler{service: service, ingestor: ingestor}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/feeds", h.ListFeeds).Methods("GET")
	router.HandleFunc("/api/feeds/download", h.DownloadFeed).Methods("GET")
	router.HandleFunc("/api/feeds/ingest", h.IngestFeed).Methods("POST")
}

func (h *Handler) ListFeeds(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folderId")

	files, err := h.service.ListFeedFiles(folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

func (h *Handler) DownloadFeed(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=feed.csv")

	if err := h.service.Download(fileID, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) IngestFeed(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	name := r.URL.Query().Get("name")
	channel := r.URL.Query().Get("channel")
	if fileID == "" || channel == "" {
		http.Error(w, "fileId and channel parameters are required", http.StatusBadRequest)
		return
	}
	if name == "" {
		name = "feed.csv"
	}

	fr, err := h.service.DownloadFrame(fileID, name)
	if err != nil {
		http.Error(w, fmt.Sprintf("download failed: %v", err), http.StatusBadGateway)
		return
	}

	message, err := h.ingestor.IngestFeed(r.Context(), fr, channel)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": message})
}
