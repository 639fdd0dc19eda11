package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"preciazo-backend/services/observations"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/observations/server")

type Server struct {
	service observations.Service
}

func New(service observations.Service) Server {
	return Server{service: service}
}

func (s Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products/{ean}/history", s.handleHistory)
	mux.HandleFunc("GET /api/products/{ean}", s.handleLatest)
	mux.HandleFunc("GET /api/stats", s.handleStats)
}

type observationJson struct {
	ID             int64  `json:"id"`
	EAN            string `json:"ean"`
	FetchedAt      int64  `json:"fetched_at"`
	PrecioCentavos *int64 `json:"precio_centavos"`
	InStock        *bool  `json:"in_stock"`
	URL            string `json:"url,omitempty"`
	Name           string `json:"name,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
}

func toJson(o observations.Observation) observationJson {
	return observationJson{
		ID:             o.ID,
		EAN:            o.EAN,
		FetchedAt:      o.FetchedAt.Unix(),
		PrecioCentavos: o.PrecioCentavos,
		InStock:        o.InStock,
		URL:            o.URL,
		Name:           o.Name,
		ImageURL:       o.ImageURL,
	}
}

func writeJson(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func (s Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleHistory")
	defer span.End()

	ean := r.PathValue("ean")
	span.SetAttributes(attribute.String("ean", ean))

	history, err := s.service.History(ctx, ean)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// an ean nobody ever observed is not an error, just a 404
	if len(history) == 0 {
		http.Error(w, observations.ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	out := make([]observationJson, len(history))
	for i, o := range history {
		out[i] = toJson(o)
	}
	writeJson(w, out)
}

func (s Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleLatest")
	defer span.End()

	ean := r.PathValue("ean")
	span.SetAttributes(attribute.String("ean", ean))

	meta, ok, err := s.service.LatestMetadata(ctx, ean)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, observations.ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJson(w, toJson(meta))
}

func (s Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleStats")
	defer span.End()

	count, err := s.service.ApproximateCount(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJson(w, map[string]int64{"approximate_count": count})
}
