package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/planwise/internal/models"
	"github.com/HammerMeetNail/planwise/internal/services/recommend"
	"github.com/HammerMeetNail/planwise/internal/validation"
)

var (
	ErrVacationNotFound = errors.New("vacation not found")
	ErrInvalidVacation  = errors.New("invalid vacation")
)

const vacationColumns = "id, destination, start_date, end_date, notes, created_at, updated_at"

type VacationService struct {
	db DB
}

func NewVacationService(db DB) *VacationService {
	return &VacationService{db: db}
}

func (s *VacationService) Create(ctx context.Context, params models.CreateVacationParams) (*models.Vacation, error) {
	if err := validation.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVacation, err)
	}
	trip, err := recommend.ParseTrip(params.StartDate, params.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVacation, err)
	}

	v, err := scanVacation(s.db.QueryRow(ctx,
		`INSERT INTO vacations (destination, start_date, end_date, notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+vacationColumns,
		strings.TrimSpace(params.Destination), trip.Start.Time, trip.End.Time, params.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("creating vacation: %w", err)
	}
	return v, nil
}

func (s *VacationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Vacation, error) {
	v, err := scanVacation(s.db.QueryRow(ctx,
		"SELECT "+vacationColumns+" FROM vacations WHERE id = $1",
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVacationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting vacation: %w", err)
	}
	return v, nil
}

// List returns every vacation, soonest first.
func (s *VacationService) List(ctx context.Context) ([]*models.Vacation, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+vacationColumns+" FROM vacations ORDER BY start_date, created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("listing vacations: %w", err)
	}
	defer rows.Close()

	vacations := []*models.Vacation{}
	for rows.Next() {
		v, err := scanVacation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vacation: %w", err)
		}
		vacations = append(vacations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vacations: %w", err)
	}
	return vacations, nil
}

// Update applies the non-nil fields of params. The merged date range must
// still be valid.
func (s *VacationService) Update(ctx context.Context, id uuid.UUID, params models.UpdateVacationParams) (*models.Vacation, error) {
	if err := validation.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVacation, err)
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	destination := current.Destination
	if params.Destination != nil {
		destination = strings.TrimSpace(*params.Destination)
	}
	start := current.StartDate.String()
	if params.StartDate != nil {
		start = *params.StartDate
	}
	end := current.EndDate.String()
	if params.EndDate != nil {
		end = *params.EndDate
	}
	notes := current.Notes
	if params.Notes != nil {
		notes = params.Notes
	}

	trip, err := recommend.ParseTrip(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVacation, err)
	}

	v, err := scanVacation(s.db.QueryRow(ctx,
		`UPDATE vacations
		 SET destination = $2, start_date = $3, end_date = $4, notes = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+vacationColumns,
		id, destination, trip.Start.Time, trip.End.Time, notes,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVacationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating vacation: %w", err)
	}
	return v, nil
}

func (s *VacationService) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Exec(ctx, "DELETE FROM vacations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting vacation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrVacationNotFound
	}
	return nil
}

func scanVacation(row Row) (*models.Vacation, error) {
	v := &models.Vacation{}
	err := row.Scan(
		&v.ID,
		&v.Destination,
		&v.StartDate.Time,
		&v.EndDate.Time,
		&v.Notes,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.StartDate = models.NewDate(v.StartDate.Time)
	v.EndDate = models.NewDate(v.EndDate.Time)
	return v, nil
}
