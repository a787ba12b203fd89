package sitters

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"double-paws/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const msgTryAgain = "Something went wrong, please try again"

// RegisterRoutes monta búsqueda y perfiles. El calendario de disponibilidad
// lo monta el módulo availability bajo /sitters/{sitterID}/availability.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/sitters/search", searchHandler(svc))
	r.Get("/sitters/me", meHandler(svc))
	r.Get("/sitters/{sitterID}", profileHandler(svc))
}

// searchHandler godoc
// @Summary Buscar sitters
// @Tags sitters
// @Produce json
// @Param q query string false "Texto libre (ciudad, nombre)"
// @Param service query string false "Tipo de servicio"
// @Param petType query string false "Tipo de mascota"
// @Param petSize query string false "Tamaño de mascota"
// @Param lat query number false "Latitud (requiere lng)"
// @Param lng query number false "Longitud (requiere lat)"
// @Param radiusKm query number false "Radio en km"
// @Success 200 {array} Sitter
// @Failure 400 {string} string "invalid query"
// @Failure 502 {object} errorResponse
// @Router /sitters/search [get]
func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := SearchFilter{
			Query:   q.Get("q"),
			Service: ServiceType(strings.TrimSpace(q.Get("service"))),
			PetType: strings.TrimSpace(q.Get("petType")),
			PetSize: strings.TrimSpace(q.Get("petSize")),
		}

		var err error
		if f.Latitude, err = optionalFloat(q.Get("lat")); err != nil {
			http.Error(w, "lat must be a number", http.StatusBadRequest)
			return
		}
		if f.Longitude, err = optionalFloat(q.Get("lng")); err != nil {
			http.Error(w, "lng must be a number", http.StatusBadRequest)
			return
		}
		if v := strings.TrimSpace(q.Get("radiusKm")); v != "" {
			f.RadiusKm, err = strconv.ParseFloat(v, 64)
			if err != nil {
				http.Error(w, "radiusKm must be a number", http.StatusBadRequest)
				return
			}
		}

		items, err := svc.Search(r.Context(), middleware.TokenFrom(r.Context()), f)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func profileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Profile(r.Context(), middleware.TokenFrom(r.Context()), chi.URLParam(r, "sitterID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}
		if claims.Token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Me(r.Context(), claims.Token)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "sitter not found", http.StatusNotFound)
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: msgTryAgain})
	}
}

func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// writeJSON está duplicado a propósito en cada módulo (mismo criterio que el resto del repo).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
