package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/reference"
)

// ReferenceHandler serves the province, city and country pick lists
type ReferenceHandler struct {
	dataset *reference.Dataset
}

func NewReferenceHandler(dataset *reference.Dataset) *ReferenceHandler {
	return &ReferenceHandler{dataset: dataset}
}

// Provinces godoc
// @Summary List provinces
// @Tags Reference
// @Produce json
// @Success 200 {array} domain.ProvinceDTO
// @Security BearerAuth
// @Router /reference/provinces [get]
func (h *ReferenceHandler) Provinces(w http.ResponseWriter, r *http.Request) {
	provinces := h.dataset.Provinces()
	dtos := make([]domain.ProvinceDTO, len(provinces))
	for i, p := range provinces {
		dtos[i] = domain.ProvinceDTO{Key: p.Key, Name: p.Name, Region: p.Region}
	}
	respondJSON(w, http.StatusOK, dtos)
}

// Cities godoc
// @Summary List the cities of a province
// @Tags Reference
// @Produce json
// @Param key path string true "Province key"
// @Success 200 {array} string
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /reference/provinces/{key}/cities [get]
func (h *ReferenceHandler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, ok := h.dataset.Cities(chi.URLParam(r, "key"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "Province not found")
		return
	}
	respondJSON(w, http.StatusOK, cities)
}

// Countries godoc
// @Summary List countries
// @Tags Reference
// @Produce json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /reference/countries [get]
func (h *ReferenceHandler) Countries(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.dataset.Countries())
}
