package pets

import (
	"encoding/json"
	"errors"
	"net/http"

	"double-paws/internal/middleware"
	"double-paws/internal/platform/validate"

	"github.com/go-chi/chi/v5"
)

const msgTryAgain = "Something went wrong, please try again"

func RegisterRoutes(r chi.Router, svc *Service, v *validate.Validator) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc, v))
		pr.Get("/", listPetsHandler(svc))
	})
}

type createPetRequest struct {
	Name           string  `json:"name" validate:"required,max=60"`
	Type           PetType `json:"type" validate:"required,oneof=dog cat bird rabbit reptile other"`
	Breed          string  `json:"breed" validate:"max=60"`
	Size           PetSize `json:"size" validate:"omitempty,oneof=small medium large giant"`
	Sex            Sex     `json:"sex" validate:"omitempty,oneof=male female unknown"`
	WeightKg       float64 `json:"weightKg" validate:"gte=0,lte=150"`
	Notes          string  `json:"notes" validate:"max=1000"`
	Medications    string  `json:"medications" validate:"max=500"`
	FeedingNotes   string  `json:"feedingNotes" validate:"max=500"`
	IsVaccinated   bool    `json:"isVaccinated"`
	IsSpayedNeuter bool    `json:"isSpayedNeutered"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// createPetHandler godoc
// @Summary Registrar mascota del dueño autenticado
// @Tags pets
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token del backend"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} Pet
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {object} errorResponse
// @Router /pets [post]
func createPetHandler(svc *Service, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.Token, CreateInput{
			Name:           req.Name,
			Type:           req.Type,
			Breed:          req.Breed,
			Size:           req.Size,
			Sex:            req.Sex,
			WeightKg:       req.WeightKg,
			Notes:          req.Notes,
			Medications:    req.Medications,
			FeedingNotes:   req.FeedingNotes,
			IsVaccinated:   req.IsVaccinated,
			IsSpayedNeuter: req.IsSpayedNeuter,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		items, err := svc.ListMine(r.Context(), claims.Token)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		// Sin token del backend no podemos actuar en nombre del usuario.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: msgTryAgain})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
