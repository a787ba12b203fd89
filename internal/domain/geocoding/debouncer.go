package geocoding

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrSuperseded: otra llamada con la misma clave llegó antes de que venciera la espera.
	ErrSuperseded = errors.New("debounced call superseded")
	// ErrStale: la llamada corrió, pero mientras tanto arrancó una más nueva.
	// Su resultado no debe pisar al de la nueva.
	ErrStale = errors.New("debounced result is stale")
)

// Debouncer agrupa llamadas por clave: solo la última dentro de la ventana
// ejecuta fn, y solo el resultado de la generación vigente se entrega.
type Debouncer[T any] struct {
	wait time.Duration

	mu    sync.Mutex
	slots map[string]*debounceSlot
}

type debounceSlot struct {
	gen     uint64
	pending chan struct{} // nil cuando no hay timer esperando
}

func NewDebouncer[T any](wait time.Duration) *Debouncer[T] {
	return &Debouncer[T]{wait: wait, slots: map[string]*debounceSlot{}}
}

func (d *Debouncer[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	d.mu.Lock()
	slot, ok := d.slots[key]
	if !ok {
		slot = &debounceSlot{}
		d.slots[key] = slot
	}
	if slot.pending != nil {
		close(slot.pending)
	}
	slot.gen++
	gen := slot.gen
	pending := make(chan struct{})
	slot.pending = pending
	d.mu.Unlock()

	timer := time.NewTimer(d.wait)
	defer timer.Stop()

	select {
	case <-pending:
		return zero, ErrSuperseded
	case <-ctx.Done():
		d.release(key, slot, gen)
		return zero, ctx.Err()
	case <-timer.C:
	}

	// Ya no hay timer que cancelar; una llamada nueva solo vuelve stale a esta.
	d.mu.Lock()
	if slot.pending == pending {
		slot.pending = nil
	}
	d.mu.Unlock()

	v, err := fn(ctx)

	if !d.release(key, slot, gen) {
		return zero, ErrStale
	}
	return v, err
}

// Pending devuelve cuántas claves tienen una llamada viva.
func (d *Debouncer[T]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.slots)
}

// release borra el slot si gen sigue siendo la vigente. Devuelve false si no.
func (d *Debouncer[T]) release(key string, slot *debounceSlot, gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur, ok := d.slots[key]
	if !ok || cur != slot || cur.gen != gen {
		return false
	}
	delete(d.slots, key)
	return true
}
