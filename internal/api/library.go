package api

import (
	"errors"
	"net/http"

	"github.com/meur/iconforge/internal/catalog"
	"github.com/meur/iconforge/internal/icons"
)

const errMissingID = "ID parameter is required"

// notFoundBody is returned when an identifier does not resolve
type notFoundBody struct {
	Error        string   `json:"error"`
	TriedID      string   `json:"tried_id"`
	AvailableIDs []string `json:"available_ids"`
}

func (s *Server) respondNotFound(w http.ResponseWriter, message, id string) {
	respondJSON(w, http.StatusNotFound, notFoundBody{
		Error:        message,
		TriedID:      id,
		AvailableIDs: s.pipeline.Index().Keys(availableIDsLimit),
	})
}

// handleGetIcon renders the composited, watermarked icon for an item
func (s *Server) handleGetIcon(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, errMissingID)
		return
	}

	png, err := s.pipeline.Handle(id)
	if err == nil {
		respondPNG(w, png)
		return
	}

	var (
		fetchErr *icons.FetchError
		procErr  *icons.ProcessingError
	)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		s.respondNotFound(w, "Icon not found", id)
	case errors.As(err, &fetchErr):
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error":   "CDN resource not found",
			"cdn_url": fetchErr.URL,
		})
	case errors.As(err, &procErr):
		s.log.WithError(err).WithField("id", id).Error("icon processing failed")
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Image processing failed",
			"details": procErr.Err.Error(),
		})
	default:
		s.log.WithError(err).WithField("id", id).Error("icon request failed")
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Image processing failed",
			"details": err.Error(),
		})
	}
}

// handleGetItemInfo returns the raw dataset record for an item
func (s *Server) handleGetItemInfo(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, errMissingID)
		return
	}

	item, err := s.pipeline.ResolveInfo(id)
	if err != nil {
		s.respondNotFound(w, "Item not found", id)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// handleGetStats describes the loaded index
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ix := s.pipeline.Index()
	stats := map[string]interface{}{
		"records": ix.Len(),
		"keys":    ix.KeyCount(),
		"source":  ix.Source(),
	}
	if s.imp != nil {
		stats["import_id"] = s.imp.ID
		stats["imported_at"] = s.imp.CreatedAt
	}
	respondJSON(w, http.StatusOK, stats)
}
