package model

import "github.com/jackc/pgx/v5/pgtype"

// Ambiente is a physical environment (classroom, lab) laptops are assigned to.
type Ambiente struct {
	IDAmbiente int32  `db:"id_ambiente" json:"id_ambiente"`
	Nombre     string `db:"nombre" json:"nombre"`
	Direccion  string `db:"direccion" json:"direccion"`
}

// Ficha is an enrollment sheet. Its identifier is assigned by the caller.
type Ficha struct {
	IDFicha  string `db:"id_ficha" json:"id_ficha"`
	Programa string `db:"programa" json:"programa"`
	Jornada  string `db:"jornada" json:"jornada"`
}

// Portatil is a laptop. Its identifier is assigned by the caller.
type Portatil struct {
	IDPortatil  string  `db:"id_portatil" json:"id_portatil"`
	Marca       string  `db:"marca" json:"marca"`
	Tipo        string  `db:"tipo" json:"tipo"`
	Modelo      string  `db:"modelo" json:"modelo"`
	Estado      string  `db:"estado" json:"estado"`
	NumSerie    string  `db:"num_serie" json:"num_serie"`
	Ubicacion   *string `db:"ubicacion" json:"ubicacion"`
	Descripcion *string `db:"descripcion" json:"descripcion"`
	Ambiente    *int32  `db:"ambiente" json:"ambiente"`
}

// Reporte is a report about the inventory, with an attached file reference.
type Reporte struct {
	IDReporte     int32       `db:"id_reporte" json:"id_reporte"`
	EstadoReporte string      `db:"estado_reporte" json:"estado_reporte"`
	FechaReporte  pgtype.Date `db:"fecha_reporte" json:"fecha_reporte"`
	Archivo       string      `db:"archivo" json:"archivo"`
	Descripcion   string      `db:"descripcion" json:"descripcion"`
}

var AmbienteResource = Resource{
	Name:     "ambiente",
	Aliases:  []string{"environment"},
	Plural:   "ambientes",
	Noun:     Noun{Singular: "ambiente"},
	Table:    "ambiente",
	IDColumn: "id_ambiente",

	Columns:        []string{"nombre", "direccion"},
	CreateColumns:  []string{"nombre", "direccion"},
	UpdateColumns:  []string{"nombre", "direccion"},
	CreateRequired: []string{"nombre", "direccion"},
	UpdateRequired: []string{"nombre", "direccion"},
}

var FichaResource = Resource{
	Name:     "ficha",
	Aliases:  []string{"sheet"},
	Plural:   "fichas",
	Noun:     Noun{Singular: "ficha", Feminine: true},
	Table:    "ficha",
	IDColumn: "id_ficha",

	ClientID:       true,
	CheckDuplicate: true,

	Columns:        []string{"programa", "jornada"},
	CreateColumns:  []string{"programa", "jornada"},
	UpdateColumns:  []string{"programa", "jornada"},
	CreateRequired: []string{"id_ficha", "programa", "jornada"},
	UpdateRequired: []string{"programa", "jornada"},
}

var PortatilResource = Resource{
	Name:     "portatil",
	Aliases:  []string{"laptop"},
	Plural:   "portátiles",
	Noun:     Noun{Singular: "portátil"},
	Table:    "portatil",
	IDColumn: "id_portatil",

	ClientID:       true,
	CheckDuplicate: true,

	Columns:        []string{"marca", "tipo", "modelo", "estado", "num_serie", "ubicacion", "descripcion", "ambiente"},
	CreateColumns:  []string{"marca", "tipo", "modelo", "estado", "num_serie", "ubicacion", "descripcion", "ambiente"},
	UpdateColumns:  []string{"marca", "tipo", "modelo", "estado", "num_serie", "ubicacion", "descripcion"},
	Optional:       []string{"ubicacion", "descripcion", "ambiente"},
	CreateRequired: []string{"id_portatil", "marca", "tipo", "modelo", "estado", "num_serie"},
	UpdateRequired: []string{"marca", "tipo", "modelo", "estado", "num_serie"},
}

// PortatilAssignmentFields are written by the assignment route, which moves
// a laptop to an environment and records its status in one request.
var PortatilAssignmentFields = []string{"estado", "ambiente"}

var ReporteResource = Resource{
	Name:     "reportes",
	Aliases:  []string{"report"},
	Plural:   "reportes",
	Noun:     Noun{Singular: "reporte"},
	Table:    "reportes",
	IDColumn: "id_reporte",

	Columns:        []string{"estado_reporte", "fecha_reporte", "archivo", "descripcion"},
	CreateColumns:  []string{"estado_reporte", "fecha_reporte", "archivo", "descripcion"},
	UpdateColumns:  []string{"estado_reporte", "fecha_reporte", "archivo", "descripcion"},
	CreateRequired: []string{"estado_reporte", "fecha_reporte", "archivo", "descripcion"},
	UpdateRequired: []string{"estado_reporte", "fecha_reporte", "archivo", "descripcion"},
}

// Resources lists every resource in registration order.
var Resources = []Resource{AmbienteResource, FichaResource, PortatilResource, ReporteResource}

// ResourceByTable returns the resource stored in table.
func ResourceByTable(table string) (Resource, bool) {
	for _, r := range Resources {
		if r.Table == table {
			return r, true
		}
	}
	return Resource{}, false
}
