package dto

import "time"

// CreateCourseRequest entrada para crear un curso.
type CreateCourseRequest struct {
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Classroom string `json:"classroom"`
	Schedule  string `json:"schedule"`
	SectorID  *int64 `json:"sectorId,omitempty"`
}

// UpdateCourseRequest actualización parcial.
type UpdateCourseRequest struct {
	Title     *string `json:"title,omitempty"`
	Subject   *string `json:"subject,omitempty"`
	Classroom *string `json:"classroom,omitempty"`
	Schedule  *string `json:"schedule,omitempty"`
	SectorID  *int64  `json:"sectorId,omitempty"`
}

type CourseResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Classroom string    `json:"classroom"`
	Schedule  string    `json:"schedule"`
	SectorID  *int64    `json:"sectorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
