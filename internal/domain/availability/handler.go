package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"double-paws/internal/domain/sitters"
	"double-paws/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const msgTryAgain = "Something went wrong, please try again"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/sitters/{sitterID}/availability", monthHandler(svc))
}

type monthResponse struct {
	SitterID string `json:"sitterId"`
	Month
}

// monthHandler godoc
// @Summary Calendario de disponibilidad de un sitter
// @Description Días disponibles, reservados y bloqueados del mes actual + monthOffset. Los días pasados nunca están disponibles.
// @Tags availability
// @Produce json
// @Param sitterID path string true "ID del sitter"
// @Param monthOffset query int false "Meses desde el actual (puede ser negativo)"
// @Success 200 {object} monthResponse
// @Failure 400 {string} string "monthOffset must be an integer"
// @Failure 404 {string} string "sitter not found"
// @Failure 502 {object} errorResponse
// @Router /sitters/{sitterID}/availability [get]
func monthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset := 0
		if v := strings.TrimSpace(r.URL.Query().Get("monthOffset")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "monthOffset must be an integer", http.StatusBadRequest)
				return
			}
			offset = n
		}

		sitterID := chi.URLParam(r, "sitterID")
		m, err := svc.ForSitter(r.Context(), middleware.TokenFrom(r.Context()), sitterID, offset)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, sitters.ErrNotFound):
				http.Error(w, "sitter not found", http.StatusNotFound)
			default:
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: msgTryAgain})
			}
			return
		}

		writeJSON(w, http.StatusOK, monthResponse{SitterID: sitterID, Month: m})
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
