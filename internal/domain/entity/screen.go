package entity

import "time"

// Screen pantalla física donde se muestra la cartelera.
type Screen struct {
	ID        int64
	Name      string
	Location  string
	SectorID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
