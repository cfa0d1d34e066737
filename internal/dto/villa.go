// Package dto holds the request and response shapes of the villa API and
// the functions that copy fields between them and model.Villa.
package dto

import (
	"time"

	"github.com/iliyamo/magic-villa-api/internal/model"
)

// VillaCreate is the body of POST /api/villa.  ID is only read so that a
// client-supplied identity can be rejected; the database assigns it.
// Numeric fields are pointers so an absent value fails "required".
type VillaCreate struct {
	ID              int64    `json:"id"`
	Nombre          string   `json:"nombre" validate:"required,max=30"`
	Detalles        string   `json:"detalles"`
	ImagenUrl       string   `json:"imagenUrl" validate:"required"`
	Amenidad        string   `json:"amenidad"`
	Tarifa          *float64 `json:"tarifa" validate:"required,gte=0"`
	Ocupantes       *int     `json:"ocupantes" validate:"required,gte=0,lte=2147483647"`
	MetrosCuadrados *int     `json:"metrosCuadrados" validate:"required,gte=0,lte=2147483647"`
}

// VillaUpdate is the body of PUT /api/villa/:id and the document that
// PATCH operations are applied to.
type VillaUpdate struct {
	ID              int64    `json:"id"`
	Nombre          string   `json:"nombre" validate:"required,max=30"`
	Detalles        string   `json:"detalles"`
	ImagenUrl       string   `json:"imagenUrl" validate:"required"`
	Amenidad        string   `json:"amenidad"`
	Tarifa          *float64 `json:"tarifa" validate:"required,gte=0"`
	Ocupantes       *int     `json:"ocupantes" validate:"required,gte=0,lte=2147483647"`
	MetrosCuadrados *int     `json:"metrosCuadrados" validate:"required,gte=0,lte=2147483647"`
}

// VillaResponse mirrors the stored villa.
type VillaResponse struct {
	ID                 int64     `json:"id"`
	Nombre             string    `json:"nombre"`
	Detalles           string    `json:"detalles"`
	ImagenUrl          string    `json:"imagenUrl"`
	Amenidad           string    `json:"amenidad"`
	Tarifa             float64   `json:"tarifa"`
	Ocupantes          int       `json:"ocupantes"`
	MetrosCuadrados    int       `json:"metrosCuadrados"`
	FechaCreacion      time.Time `json:"fechaCreacion"`
	FechaActualizacion time.Time `json:"fechaActualizacion"`
}

// ToVilla builds a new, not yet persisted villa from the creation shape.
// Callers validate first; nil numbers become zero.
func (in VillaCreate) ToVilla() model.Villa {
	return model.Villa{
		Nombre:          in.Nombre,
		Detalles:        in.Detalles,
		ImagenUrl:       in.ImagenUrl,
		Amenidad:        in.Amenidad,
		Tarifa:          deref(in.Tarifa),
		Ocupantes:       deref(in.Ocupantes),
		MetrosCuadrados: deref(in.MetrosCuadrados),
	}
}

// ApplyTo replaces every mutable field of v.  ID and timestamps are left
// alone.
func (in VillaUpdate) ApplyTo(v *model.Villa) {
	v.Nombre = in.Nombre
	v.Detalles = in.Detalles
	v.ImagenUrl = in.ImagenUrl
	v.Amenidad = in.Amenidad
	v.Tarifa = deref(in.Tarifa)
	v.Ocupantes = deref(in.Ocupantes)
	v.MetrosCuadrados = deref(in.MetrosCuadrados)
}

// NewVillaUpdate copies a stored villa into the update shape.
func NewVillaUpdate(v model.Villa) VillaUpdate {
	tarifa, ocupantes, metros := v.Tarifa, v.Ocupantes, v.MetrosCuadrados
	return VillaUpdate{
		ID:              v.ID,
		Nombre:          v.Nombre,
		Detalles:        v.Detalles,
		ImagenUrl:       v.ImagenUrl,
		Amenidad:        v.Amenidad,
		Tarifa:          &tarifa,
		Ocupantes:       &ocupantes,
		MetrosCuadrados: &metros,
	}
}

func NewVillaResponse(v model.Villa) VillaResponse {
	return VillaResponse{
		ID:                 v.ID,
		Nombre:             v.Nombre,
		Detalles:           v.Detalles,
		ImagenUrl:          v.ImagenUrl,
		Amenidad:           v.Amenidad,
		Tarifa:             v.Tarifa,
		Ocupantes:          v.Ocupantes,
		MetrosCuadrados:    v.MetrosCuadrados,
		FechaCreacion:      v.FechaCreacion,
		FechaActualizacion: v.FechaActualizacion,
	}
}

// NewVillaResponses maps a list; the result is never nil so it encodes as [].
func NewVillaResponses(vs []model.Villa) []VillaResponse {
	out := make([]VillaResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, NewVillaResponse(v))
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
