// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

// Record is a single user document. Wire names follow the public users API,
// so the same struct travels as JSON to the API and as BSON into Mongo.
type Record struct {
	Key   int64  `json:"Clave_Cliente" bson:"Clave_Cliente" validate:"gt=0"`
	Name  string `json:"Nombre" bson:"Nombre" validate:"required,min=2,max=100"`
	Phone string `json:"Celular" bson:"Celular" validate:"required"`
	Email string `json:"Email" bson:"Email" validate:"required,email"`
}

// PageInfo summarizes where a page sits inside the full record set.
// It is a read-only projection, never persisted.
type PageInfo struct {
	TotalRecords int64 `json:"total_records"`
	TotalPages   int64 `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
}

// NewPageInfo derives navigation fields from a total count and the requested window.
func NewPageInfo(total int64, page, pageSize int) PageInfo {
	var pages int64
	if pageSize > 0 {
		pages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return PageInfo{
		TotalRecords: total,
		TotalPages:   pages,
		CurrentPage:  page,
		PageSize:     pageSize,
		HasNextPage:  int64(page) < pages,
		HasPrevPage:  page > 1,
	}
}
