package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"double-paws/internal/domain/geocoding"
	"double-paws/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("registration session not found")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("step validation failed")
	ErrStepLocked   = errors.New("step not reachable yet")
	ErrClosed       = errors.New("registration session closed")
	ErrSubmitFailed = errors.New("registration submit failed")
	ErrNoAddress    = errors.New("address not found")
)

// MsgTryAgain es el único mensaje que ve el usuario ante cualquier fallo del backend.
const MsgTryAgain = "Something went wrong, please try again"

const (
	DefaultSessionTTL   = time.Hour
	DefaultErrorDisplay = 5 * time.Second
)

// SitterCreator envía el draft completo al backend (POST /sitters).
type SitterCreator interface {
	CreateSitter(ctx context.Context, token string, d Draft) (sitterID string, err error)
}

// Notifier avisa a otros sistemas que un sitter terminó el registro.
type Notifier interface {
	RegistrationSubmitted(ctx context.Context, ev SubmittedEvent) error
}

// AddressResolver convierte el texto de dirección en coordenadas.
type AddressResolver interface {
	Lookup(ctx context.Context, query string) (geocoding.Place, error)
}

type Deps struct {
	Repo     Repository
	Creator  SitterCreator
	Notifier Notifier        // opcional
	Resolver AddressResolver // opcional; sin él /address responde ErrNoAddress
	Log      logger.Logger

	SessionTTL   time.Duration
	ErrorDisplay time.Duration
}

type Service struct {
	repo     Repository
	creator  SitterCreator
	notifier Notifier
	resolver AddressResolver
	log      logger.Logger

	ttl    time.Duration
	errTTL time.Duration
	now    func() time.Time
	newID  func() string

	locks sessionLocks
}

// sessionLocks serializa load+save sobre una misma sesión (p.ej. doble click
// en enviar). Vale dentro de un proceso.
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = map[string]*sessionLock{}
	}
	e, ok := l.m[id]
	if !ok {
		e = &sessionLock{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

func NewService(d Deps) *Service {
	ttl := d.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	errTTL := d.ErrorDisplay
	if errTTL <= 0 {
		errTTL = DefaultErrorDisplay
	}
	log := d.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     d.Repo,
		creator:  d.Creator,
		notifier: d.Notifier,
		resolver: d.Resolver,
		log:      log.With(map[string]any{"component": "registration"}),
		ttl:      ttl,
		errTTL:   errTTL,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Now es el reloj del servicio (los handlers lo usan para ActiveError).
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) Start(ctx context.Context, ownerUserID string) (Wizard, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Wizard{}, ErrInvalidInput
	}
	w := NewWizard(s.newID(), ownerUserID, s.now())
	if err := s.repo.Create(ctx, w); err != nil {
		return Wizard{}, err
	}
	return w, nil
}

func (s *Service) Get(ctx context.Context, ownerUserID, id string) (Wizard, error) {
	return s.load(ctx, ownerUserID, id)
}

func (s *Service) UpdateDraft(ctx context.Context, ownerUserID, id string, patch DraftPatch) (Wizard, error) {
	if !patch.coordsPaired() {
		return Wizard{}, fmt.Errorf("%w: latitude and longitude go together", ErrInvalidInput)
	}
	defer s.locks.lock(id)()

	w, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return Wizard{}, err
	}
	if w.Status != StatusInProgress {
		return Wizard{}, ErrClosed
	}
	patch.Apply(&w.Draft)
	w.revalidate()
	return w, s.save(ctx, &w)
}

// ResolveAddress geocodifica la dirección y deja coordenadas en el draft.
func (s *Service) ResolveAddress(ctx context.Context, ownerUserID, id, query string) (Wizard, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Wizard{}, ErrInvalidInput
	}
	defer s.locks.lock(id)()

	w, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return Wizard{}, err
	}
	if w.Status != StatusInProgress {
		return Wizard{}, ErrClosed
	}
	if s.resolver == nil {
		return Wizard{}, ErrNoAddress
	}

	place, err := s.resolver.Lookup(ctx, query)
	if err != nil {
		if errors.Is(err, geocoding.ErrNotFound) {
			return Wizard{}, ErrNoAddress
		}
		return Wizard{}, err
	}

	lat, lng := place.Latitude, place.Longitude
	w.Draft.Address = place.DisplayName
	if place.City != "" {
		w.Draft.City = place.City
	}
	w.Draft.Latitude, w.Draft.Longitude = &lat, &lng
	return w, s.save(ctx, &w)
}

// Next valida y avanza. En el último paso envía el registro; si el backend
// falla, el wizard queda en Banking con el mensaje genérico y el draft intacto.
func (s *Service) Next(ctx context.Context, ownerUserID, token, id string) (Wizard, error) {
	defer s.locks.lock(id)()

	w, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return Wizard{}, err
	}

	now := s.now()
	submit, err := w.Next(now, s.errTTL)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			if serr := s.save(ctx, &w); serr != nil {
				return Wizard{}, serr
			}
			return w, err
		}
		return Wizard{}, err
	}
	if !submit {
		return w, s.save(ctx, &w)
	}

	sitterID, err := s.creator.CreateSitter(ctx, token, w.Draft)
	if err != nil {
		s.log.Error("sitter registration submit failed", map[string]any{
			"session_id": w.ID,
			"user_id":    ownerUserID,
			"error":      err,
		})
		w.Fail(MsgTryAgain, now, s.errTTL)
		if serr := s.save(ctx, &w); serr != nil {
			return Wizard{}, serr
		}
		return w, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	w.MarkSubmitted(sitterID)
	w.UpdatedAt = now
	if err := s.repo.Delete(ctx, w.ID); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn("delete submitted session", map[string]any{"session_id": w.ID, "error": err})
	}

	s.log.Info("sitter registered", map[string]any{"session_id": w.ID, "sitter_id": sitterID})
	s.notify(ctx, w, now)
	return w, nil
}

// Back retrocede; desde Identity sale del wizard y descarta la sesión.
func (s *Service) Back(ctx context.Context, ownerUserID, id string) (Wizard, error) {
	defer s.locks.lock(id)()

	w, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return Wizard{}, err
	}
	exited, err := w.Back()
	if err != nil {
		return Wizard{}, err
	}
	if exited {
		w.UpdatedAt = s.now()
		if err := s.repo.Delete(ctx, w.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return Wizard{}, err
		}
		return w, nil
	}
	return w, s.save(ctx, &w)
}

func (s *Service) JumpTo(ctx context.Context, ownerUserID, id string, step Step) (Wizard, error) {
	defer s.locks.lock(id)()

	w, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return Wizard{}, err
	}
	if err := w.JumpTo(step); err != nil {
		return Wizard{}, err
	}
	return w, s.save(ctx, &w)
}

// Discard: el usuario navegó fuera del wizard.
func (s *Service) Discard(ctx context.Context, ownerUserID, id string) error {
	defer s.locks.lock(id)()

	if _, err := s.load(ctx, ownerUserID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// PurgeIdle borra sesiones sin actividad dentro del TTL.
func (s *Service) PurgeIdle(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteIdleSince(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("purged idle registration sessions", map[string]any{"count": n})
	}
	return n, nil
}

func (s *Service) load(ctx context.Context, ownerUserID, id string) (Wizard, error) {
	if strings.TrimSpace(ownerUserID) == "" || strings.TrimSpace(id) == "" {
		return Wizard{}, ErrInvalidInput
	}
	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return Wizard{}, err
	}
	if w.OwnerUserID != ownerUserID {
		return Wizard{}, ErrForbidden
	}
	if s.now().Sub(w.UpdatedAt) > s.ttl {
		// Sesión abandonada: se pierde todo lo cargado.
		_ = s.repo.Delete(ctx, id)
		return Wizard{}, ErrNotFound
	}
	return w, nil
}

func (s *Service) save(ctx context.Context, w *Wizard) error {
	w.UpdatedAt = s.now()
	return s.repo.Update(ctx, *w)
}

func (s *Service) notify(ctx context.Context, w Wizard, now time.Time) {
	if s.notifier == nil {
		return
	}
	ev := SubmittedEvent{
		SessionID:   w.ID,
		OwnerUserID: w.OwnerUserID,
		SitterID:    w.SitterID,
		City:        w.Draft.City,
		Services:    w.Draft.ActiveServices(),
		Available:   w.Draft.GeneralAvailability,
		SubmittedAt: now,
	}
	// El registro ya existe en el backend; un fallo aquí solo se loguea.
	if err := s.notifier.RegistrationSubmitted(ctx, ev); err != nil {
		s.log.Warn("registration event not published", map[string]any{
			"session_id": w.ID,
			"error":      err,
		})
	}
}
