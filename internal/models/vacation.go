package models

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict ISO calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	*d = parsed
	return nil
}

// DaysUntil returns the inclusive number of days from d to end.
func (d Date) DaysUntil(end Date) int {
	return int(end.Sub(d.Time).Hours()/24) + 1
}

type Vacation struct {
	ID          uuid.UUID `json:"id"`
	Destination string    `json:"destination"`
	StartDate   Date      `json:"start_date"`
	EndDate     Date      `json:"end_date"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateVacationParams struct {
	Destination string  `json:"destination" validate:"max=200"`
	StartDate   string  `json:"start_date" validate:"required,isodate"`
	EndDate     string  `json:"end_date" validate:"required,isodate"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateVacationParams struct {
	Destination *string `json:"destination,omitempty" validate:"omitempty,max=200"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,isodate"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,isodate"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
