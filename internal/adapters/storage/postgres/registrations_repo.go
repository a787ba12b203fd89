package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"double-paws/internal/domain/registration"
)

// DraftColumn guarda el draft completo como JSONB.
type DraftColumn registration.Draft

func (d DraftColumn) Value() (driver.Value, error) {
	return json.Marshal(registration.Draft(d))
}

func (d *DraftColumn) Scan(value any) error {
	b, err := jsonBytes(value)
	if err != nil || b == nil {
		return err
	}
	return json.Unmarshal(b, (*registration.Draft)(d))
}

// StepsColumn: pasos completados como array JSON de nombres.
type StepsColumn []registration.Step

func (s StepsColumn) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]registration.Step(s))
}

func (s *StepsColumn) Scan(value any) error {
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if b == nil {
		*s = nil
		return nil
	}
	return json.Unmarshal(b, (*[]registration.Step)(s))
}

// StepErrorColumn es NULL cuando no hay error visible.
type StepErrorColumn struct {
	Err *registration.StepError
}

func (e StepErrorColumn) Value() (driver.Value, error) {
	if e.Err == nil {
		return nil, nil
	}
	return json.Marshal(e.Err)
}

func (e *StepErrorColumn) Scan(value any) error {
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if b == nil {
		e.Err = nil
		return nil
	}
	var se registration.StepError
	if err := json.Unmarshal(b, &se); err != nil {
		return err
	}
	e.Err = &se
	return nil
}

func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("not a []byte: %T", value)
	}
}

type RegistrationsRepo struct {
	db *sql.DB
}

func NewRegistrationsRepo(db *sql.DB) *RegistrationsRepo {
	return &RegistrationsRepo{db: db}
}

func (r *RegistrationsRepo) Create(ctx context.Context, w registration.Wizard) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registration_sessions (
			id, owner_user_id,
			current_step, status,
			completed, draft, step_error,
			sitter_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		w.ID,
		w.OwnerUserID,
		w.Current.String(),
		string(w.Status),
		StepsColumn(w.CompletedSteps()),
		DraftColumn(w.Draft),
		StepErrorColumn{Err: w.Error},
		w.SitterID,
		w.CreatedAt,
		w.UpdatedAt,
	)
	return err
}

func (r *RegistrationsRepo) Update(ctx context.Context, w registration.Wizard) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE registration_sessions
		SET
			current_step = $2,
			status = $3,
			completed = $4,
			draft = $5,
			step_error = $6,
			sitter_id = $7,
			updated_at = $8
		WHERE id = $1
	`,
		w.ID,
		w.Current.String(),
		string(w.Status),
		StepsColumn(w.CompletedSteps()),
		DraftColumn(w.Draft),
		StepErrorColumn{Err: w.Error},
		w.SitterID,
		w.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return registration.ErrNotFound
	}
	return nil
}

func (r *RegistrationsRepo) Get(ctx context.Context, id string) (registration.Wizard, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			current_step, status,
			completed, draft, step_error,
			sitter_id, created_at, updated_at
		FROM registration_sessions
		WHERE id = $1
	`, id)

	var (
		w         registration.Wizard
		step      string
		status    string
		completed StepsColumn
		draft     DraftColumn
		stepErr   StepErrorColumn
	)
	if err := row.Scan(
		&w.ID,
		&w.OwnerUserID,
		&step,
		&status,
		&completed,
		&draft,
		&stepErr,
		&w.SitterID,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return registration.Wizard{}, registration.ErrNotFound
		}
		return registration.Wizard{}, err
	}

	cur, err := registration.ParseStep(step)
	if err != nil {
		return registration.Wizard{}, fmt.Errorf("registration %s: %w", id, err)
	}
	w.Current = cur
	w.Status = registration.Status(status)
	w.Draft = registration.Draft(draft)
	w.Error = stepErr.Err
	w.Completed = make(map[registration.Step]bool, len(completed))
	for _, s := range completed {
		w.Completed[s] = true
	}
	return w, nil
}

func (r *RegistrationsRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM registration_sessions WHERE id = $1`, id)
	return err
}

func (r *RegistrationsRepo) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registration_sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
