package model

import "strings"

// Field describes one mutable villa attribute and where it lives in each
// representation: the Go struct, the JSON payloads and the villas table.
type Field struct {
	Name   string           // struct field name, also the key of validation errors
	JSON   string           // JSON member name, also the JSON-Patch path segment
	Column string           // villas column
	Ptr    func(*Villa) any // address of the field on a Villa, for scans and args
}

// VillaFields lists the mutable villa attributes in column order.  ID and
// the timestamps are managed by the repository and are not listed.
var VillaFields = []Field{
	{Name: "Nombre", JSON: "nombre", Column: "nombre", Ptr: func(v *Villa) any { return &v.Nombre }},
	{Name: "Detalles", JSON: "detalles", Column: "detalles", Ptr: func(v *Villa) any { return &v.Detalles }},
	{Name: "ImagenUrl", JSON: "imagenUrl", Column: "imagen_url", Ptr: func(v *Villa) any { return &v.ImagenUrl }},
	{Name: "Amenidad", JSON: "amenidad", Column: "amenidad", Ptr: func(v *Villa) any { return &v.Amenidad }},
	{Name: "Tarifa", JSON: "tarifa", Column: "tarifa", Ptr: func(v *Villa) any { return &v.Tarifa }},
	{Name: "Ocupantes", JSON: "ocupantes", Column: "ocupantes", Ptr: func(v *Villa) any { return &v.Ocupantes }},
	{Name: "MetrosCuadrados", JSON: "metrosCuadrados", Column: "metros_cuadrados", Ptr: func(v *Villa) any { return &v.MetrosCuadrados }},
}

var fieldsByJSON = func() map[string]Field {
	m := make(map[string]Field, len(VillaFields))
	for _, f := range VillaFields {
		m[strings.ToLower(f.JSON)] = f
	}
	return m
}()

// LookupField resolves a JSON member name to its Field ignoring case, so
// "/Nombre" and "/nombre" address the same attribute.
func LookupField(name string) (Field, bool) {
	f, ok := fieldsByJSON[strings.ToLower(name)]
	return f, ok
}

// VillaColumns returns the mutable column names in VillaFields order.
func VillaColumns() []string {
	cols := make([]string, len(VillaFields))
	for i, f := range VillaFields {
		cols[i] = f.Column
	}
	return cols
}

// FieldPtrs returns the addresses of v's mutable fields in VillaFields order.
func FieldPtrs(v *Villa) []any {
	out := make([]any, len(VillaFields))
	for i, f := range VillaFields {
		out[i] = f.Ptr(v)
	}
	return out
}
