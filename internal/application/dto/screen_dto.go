package dto

import "time"

type CreateScreenRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	SectorID *int64 `json:"sectorId,omitempty"`
}

type UpdateScreenRequest struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	SectorID *int64  `json:"sectorId,omitempty"`
}

type ScreenResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	SectorID  *int64    `json:"sectorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
