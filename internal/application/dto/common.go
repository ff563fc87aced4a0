package dto

// PageResponse listado paginado: {data, page, total, limit, totalPages}.
type PageResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	Total      int `json:"total"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
