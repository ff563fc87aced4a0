package entity

import "time"

// Course comisión publicada en la cartelera (materia, aula y horario).
type Course struct {
	ID        int64
	Title     string
	Subject   string
	Classroom string
	Schedule  string
	SectorID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
