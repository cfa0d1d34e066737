package model

import "time"

// Villa represents a rentable property record.  This struct
// corresponds to a row in the `villas` table.
//
// Fields:
//  ID                 – primary key, assigned by the database.
//  Nombre             – display name, unique ignoring case.
//  Detalles           – optional free text description.
//  ImagenUrl          – URL of the main picture.
//  Amenidad           – optional amenity summary.
//  Tarifa             – nightly rate.
//  Ocupantes          – occupant capacity.
//  MetrosCuadrados    – floor area in square metres.
//  FechaCreacion      – set once when the row is inserted.
//  FechaActualizacion – refreshed on every write.
type Villa struct {
	ID                 int64     // villas.id
	Nombre             string    // villas.nombre
	Detalles           string    // villas.detalles
	ImagenUrl          string    // villas.imagen_url
	Amenidad           string    // villas.amenidad
	Tarifa             float64   // villas.tarifa
	Ocupantes          int       // villas.ocupantes
	MetrosCuadrados    int       // villas.metros_cuadrados
	FechaCreacion      time.Time // villas.fecha_creacion
	FechaActualizacion time.Time // villas.fecha_actualizacion
}
