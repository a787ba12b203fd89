package geocoding

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"double-paws/internal/middleware"
	"double-paws/internal/platform/validate"

	"github.com/go-chi/chi/v5"
)

const msgTryAgain = "Something went wrong, please try again"

func RegisterRoutes(r chi.Router, svc *Service, v *validate.Validator) {
	r.Route("/geocode", func(gr chi.Router) {
		gr.Get("/search", searchHandler(svc, v))
		gr.Get("/reverse", reverseHandler(svc, v))
	})
}

type searchQuery struct {
	Q string `validate:"required,max=200"`
}

type reverseQuery struct {
	Lat string `validate:"required,latitude"`
	Lng string `validate:"required,longitude"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// searchHandler godoc
// @Summary Autocompletar dirección
// @Description Agrupa llamadas por cliente (300 ms). Si una llamada más nueva la reemplaza responde 204.
// @Tags geocoding
// @Produce json
// @Param q query string true "Texto parcial de la dirección"
// @Param X-Client-Session header string false "Clave de agrupación (por defecto usuario o IP)"
// @Success 200 {array} Place
// @Success 204
// @Failure 400 {string} string "validación"
// @Router /geocode/search [get]
func searchHandler(svc *Service, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := searchQuery{Q: r.URL.Query().Get("q")}
		if err := v.Struct(q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		places, err := svc.Search(r.Context(), clientKey(r), q.Q)
		if err != nil {
			if errors.Is(err, ErrSuperseded) || errors.Is(err, ErrStale) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			// Cliente cortó la conexión.
			return
		}
		writeJSON(w, http.StatusOK, places)
	}
}

// reverseHandler godoc
// @Summary Dirección para unas coordenadas
// @Tags geocoding
// @Produce json
// @Param lat query number true "Latitud"
// @Param lng query number true "Longitud"
// @Success 200 {object} Place
// @Failure 400 {string} string "validación"
// @Failure 404 {string} string "not found"
// @Failure 502 {object} errorResponse
// @Router /geocode/reverse [get]
func reverseHandler(svc *Service, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := reverseQuery{Lat: r.URL.Query().Get("lat"), Lng: r.URL.Query().Get("lng")}
		if err := v.Struct(q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		lat, _ := strconv.ParseFloat(q.Lat, 64)
		lng, _ := strconv.ParseFloat(q.Lng, 64)

		p, err := svc.Reverse(r.Context(), lat, lng)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			default:
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: msgTryAgain})
			}
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// clientKey: sesión explícita del cliente, o usuario, o IP.
func clientKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("X-Client-Session")); k != "" {
		return "session:" + k
	}
	if c, ok := middleware.GetClaims(r.Context()); ok && c.UserID != "" {
		return "user:" + c.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
