package registration

import (
	"fmt"
	"sort"
	"time"
)

// transition: a dónde lleva Next/Back desde cada paso.
// last = Next envía el draft; first = Back sale del wizard.
type transition struct {
	next  Step
	back  Step
	first bool
	last  bool
}

var transitions = map[Step]transition{
	StepIdentity:     {next: StepServices, first: true},
	StepServices:     {next: StepPreferences, back: StepIdentity},
	StepPreferences:  {next: StepHousing, back: StepServices},
	StepHousing:      {next: StepExperience, back: StepPreferences},
	StepExperience:   {next: StepAvailability, back: StepHousing},
	StepAvailability: {next: StepBanking, back: StepExperience},
	StepBanking:      {back: StepAvailability, last: true},
}

// Wizard es la sesión de registro de un usuario: paso actual + draft.
type Wizard struct {
	ID          string        `json:"id"`
	OwnerUserID string        `json:"ownerUserId"`
	Current     Step          `json:"currentStep"`
	Completed   map[Step]bool `json:"completed"`
	Draft       Draft         `json:"draft"`
	Error       *StepError    `json:"error,omitempty"`
	Status      Status        `json:"status"`
	SitterID    string        `json:"sitterId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func NewWizard(id, ownerUserID string, now time.Time) Wizard {
	return Wizard{
		ID:          id,
		OwnerUserID: ownerUserID,
		Current:     StepIdentity,
		Completed:   map[Step]bool{},
		Draft:       DefaultDraft(),
		Status:      StatusInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Next valida el paso actual. Si falla, deja el error visible hasta now+errTTL
// y no avanza. Si pasa, marca el paso completo y avanza; en el último paso
// devuelve submit=true y el caller hace el envío.
func (w *Wizard) Next(now time.Time, errTTL time.Duration) (submit bool, err error) {
	if w.Status != StatusInProgress {
		return false, ErrClosed
	}

	if msg := ValidateStep(w.Current, w.Draft); msg != "" {
		w.setError(msg, now, errTTL)
		return false, fmt.Errorf("%w: %s", ErrValidation, msg)
	}

	w.Error = nil
	if w.Completed == nil {
		w.Completed = map[Step]bool{}
	}
	w.Completed[w.Current] = true

	t := transitions[w.Current]
	if t.last {
		// Antes de enviar se revisa todo el draft: un paso completo pudo
		// quedar inválido al editar otro (p.ej. la dirección).
		for _, s := range AllSteps() {
			if msg := ValidateStep(s, w.Draft); msg != "" {
				delete(w.Completed, s)
				w.Current = s
				w.setError(msg, now, errTTL)
				return false, fmt.Errorf("%w: %s", ErrValidation, msg)
			}
		}
		return true, nil
	}
	w.Current = t.next
	return false, nil
}

// revalidate quita la marca de completo a los pasos que el draft ya no cumple.
func (w *Wizard) revalidate() {
	for s := range w.Completed {
		if ValidateStep(s, w.Draft) != "" {
			delete(w.Completed, s)
		}
	}
}

// Back retrocede un paso. En el primero sale del wizard (exited=true).
func (w *Wizard) Back() (exited bool, err error) {
	if w.Status != StatusInProgress {
		return false, ErrClosed
	}
	w.Error = nil

	t := transitions[w.Current]
	if t.first {
		w.Status = StatusExited
		return true, nil
	}
	w.Current = t.back
	return false, nil
}

// JumpTo solo permite ir a pasos anteriores o ya completados.
func (w *Wizard) JumpTo(step Step) error {
	if w.Status != StatusInProgress {
		return ErrClosed
	}
	if !step.Valid() {
		return fmt.Errorf("%w: unknown step %d", ErrInvalidInput, int(step))
	}
	if step >= w.Current && !w.Completed[step] {
		return ErrStepLocked
	}
	w.Error = nil
	w.Current = step
	return nil
}

// Fail deja visible un error de envío. No avanza ni toca el draft.
func (w *Wizard) Fail(msg string, now time.Time, errTTL time.Duration) {
	w.setError(msg, now, errTTL)
}

func (w *Wizard) MarkSubmitted(sitterID string) {
	w.Status = StatusSubmitted
	w.SitterID = sitterID
	w.Error = nil
}

// ActiveError devuelve el mensaje si todavía no expiró.
func (w Wizard) ActiveError(now time.Time) string {
	if w.Error == nil || !now.Before(w.Error.ExpiresAt) {
		return ""
	}
	return w.Error.Message
}

// CompletedSteps en orden.
func (w Wizard) CompletedSteps() []Step {
	out := make([]Step, 0, len(w.Completed))
	for s, ok := range w.Completed {
		if ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanJumpTo es lo que el cliente usa para habilitar la barra de pasos.
func (w Wizard) CanJumpTo(step Step) bool {
	return step.Valid() && (step < w.Current || w.Completed[step])
}

func (w Wizard) Clone() Wizard {
	c := w
	c.Draft = w.Draft.clone()
	c.Completed = make(map[Step]bool, len(w.Completed))
	for k, v := range w.Completed {
		c.Completed[k] = v
	}
	if w.Error != nil {
		e := *w.Error
		c.Error = &e
	}
	return c
}

func (w *Wizard) setError(msg string, now time.Time, ttl time.Duration) {
	w.Error = &StepError{Message: msg, ExpiresAt: now.Add(ttl)}
}
