package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ParkingLocation stores coordinates as the decimal text the client sent.
type ParkingLocation struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Latitude     string    `json:"latitude"`
	Longitude    string    `json:"longitude"`
	LocationName *string   `json:"locationName"`
	Notes        *string   `json:"notes"`
	ParkedAt     time.Time `json:"parkedAt"`
	IsActive     bool      `json:"isActive"`
}

type ParkingTimer struct {
	ID                uuid.UUID `json:"id"`
	ParkingLocationID uuid.UUID `json:"parkingLocationId"`
	DurationMinutes   int       `json:"durationMinutes"`
	EndTime           time.Time `json:"endTime"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Coordinate accepts either a JSON string or a JSON number and keeps its literal text.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = Coordinate(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = Coordinate(n.String())
	return nil
}

type CreateParkingLocationRequest struct {
	Latitude     Coordinate `json:"latitude" validate:"required,latitude" swaggertype:"string" example:"40.7128"`
	Longitude    Coordinate `json:"longitude" validate:"required,longitude" swaggertype:"string" example:"-74.0060"`
	LocationName *string    `json:"locationName,omitempty" validate:"omitempty,max=255" example:"Level 2, row C"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// NewParkingLocation is the validated input of a create call.
type NewParkingLocation struct {
	Latitude     string
	Longitude    string
	LocationName *string
	Notes        *string
}

type CreateTimerRequest struct {
	ParkingLocationID uuid.UUID `json:"parkingLocationId" validate:"required" swaggertype:"string" format:"uuid"`
	DurationMinutes   int       `json:"durationMinutes" validate:"required,gt=0,max=153722867" example:"90"`
}
