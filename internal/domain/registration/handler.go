package registration

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"double-paws/internal/middleware"
	"double-paws/internal/platform/validate"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, v *validate.Validator) {
	r.Route("/registrations", func(rr chi.Router) {
		rr.Post("/", startHandler(svc))
		rr.Get("/{sessionID}", getHandler(svc))
		rr.Delete("/{sessionID}", discardHandler(svc))
		rr.Patch("/{sessionID}/draft", updateDraftHandler(svc, v))
		rr.Post("/{sessionID}/address", resolveAddressHandler(svc, v))
		rr.Post("/{sessionID}/next", nextHandler(svc))
		rr.Post("/{sessionID}/back", backHandler(svc))
		rr.Post("/{sessionID}/jump", jumpHandler(svc, v))
	})
}

// wizardResponse es lo que el cliente necesita para pintar el paso actual.
type wizardResponse struct {
	ID             string    `json:"id"`
	CurrentStep    Step      `json:"currentStep" swaggertype:"string"`
	StepIndex      int       `json:"stepIndex"`
	TotalSteps     int       `json:"totalSteps"`
	CompletedSteps []Step    `json:"completedSteps" swaggertype:"array,string"`
	Draft          Draft     `json:"draft"`
	Error          string    `json:"error,omitempty"`
	Status         Status    `json:"status"`
	SitterID       string    `json:"sitterId,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toResponse(w Wizard, now time.Time) wizardResponse {
	return wizardResponse{
		ID:             w.ID,
		CurrentStep:    w.Current,
		StepIndex:      int(w.Current),
		TotalSteps:     len(stepNames),
		CompletedSteps: w.CompletedSteps(),
		Draft:          w.Draft,
		Error:          w.ActiveError(now),
		Status:         w.Status,
		SitterID:       w.SitterID,
		UpdatedAt:      w.UpdatedAt,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type addressRequest struct {
	Query string `json:"query" validate:"required,min=3,max=200"`
}

type jumpRequest struct {
	Step string `json:"step" validate:"required"`
}

// startHandler godoc
// @Summary Iniciar registro de sitter
// @Description Crea una sesión de wizard con el draft por defecto (todos los servicios apagados).
// @Tags registrations
// @Produce json
// @Success 201 {object} wizardResponse
// @Failure 401 {string} string "unauthorized"
// @Router /registrations [post]
func startHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}
		wz, err := svc.Start(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toResponse(wz, svc.Now()))
	}
}

// getHandler godoc
// @Summary Estado del wizard
// @Tags registrations
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} wizardResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /registrations/{sessionID} [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}
		wz, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(wz, svc.Now()))
	}
}

// discardHandler godoc
// @Summary Descartar registro
// @Tags registrations
// @Param sessionID path string true "Session ID"
// @Success 204
// @Router /registrations/{sessionID} [delete]
func discardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}
		if err := svc.Discard(r.Context(), claims.UserID, chi.URLParam(r, "sessionID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updateDraftHandler godoc
// @Summary Actualizar campos del draft
// @Tags registrations
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body DraftPatch true "Campos a cambiar"
// @Success 200 {object} wizardResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 409 {string} string "closed"
// @Router /registrations/{sessionID}/draft [patch]
func updateDraftHandler(svc *Service, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var patch DraftPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Struct(patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		wz, err := svc.UpdateDraft(r.Context(), claims.UserID, chi.URLParam(r, "sessionID"), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(wz, svc.Now()))
	}
}

// resolveAddressHandler godoc
// @Summary Resolver dirección a coordenadas
// @Tags registrations
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body addressRequest true "Texto de la dirección"
// @Success 200 {object} wizardResponse
// @Failure 422 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /registrations/{sessionID}/address [post]
func resolveAddressHandler(svc *Service, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req addressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		wz, err := svc.ResolveAddress(r.Context(), claims.UserID, chi.URLParam(r, "sessionID"), req.Query)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(wz, svc.Now()))
	}
}

// nextHandler godoc
// @Summary Avanzar de paso (o enviar en el último)
// @Description Valida el paso actual. Si falla responde 422 con el wizard y su error visible.
// @Tags registrations
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} wizardResponse
// @Failure 422 {object} wizardResponse
// @Failure 502 {object} wizardResponse
// @Router /registrations/{sessionID}/next [post]
func nextHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		wz, err := svc.Next(r.Context(), claims.UserID, claims.Token, chi.URLParam(r, "sessionID"))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, toResponse(wz, svc.Now()))
		case errors.Is(err, ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, toResponse(wz, svc.Now()))
		case errors.Is(err, ErrSubmitFailed):
			writeJSON(w, http.StatusBadGateway, toResponse(wz, svc.Now()))
		default:
			writeError(w, err)
		}
	}
}

// backHandler godoc
// @Summary Volver un paso (en Identity sale del wizard)
// @Tags registrations
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} wizardResponse
// @Router /registrations/{sessionID}/back [post]
func backHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}
		wz, err := svc.Back(r.Context(), claims.UserID, chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(wz, svc.Now()))
	}
}

// jumpHandler godoc
// @Summary Saltar a un paso anterior o ya completado
// @Tags registrations
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body jumpRequest true "Paso destino (nombre o índice)"
// @Success 200 {object} wizardResponse
// @Failure 409 {string} string "step locked"
// @Router /registrations/{sessionID}/jump [post]
func jumpHandler(svc *Service, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req jumpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		step, err := ParseStep(req.Step)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		wz, err := svc.JumpTo(r.Context(), claims.UserID, chi.URLParam(r, "sessionID"), step)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(wz, svc.Now()))
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrStepLocked), errors.Is(err, ErrClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNoAddress):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: msgAddressNotResolved})
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: MsgTryAgain})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
