package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNounMessages(t *testing.T) {
	portatil := PortatilResource.Noun
	assert.Equal(t, "Portátil creado correctamente", portatil.Created())
	assert.Equal(t, "Portátil actualizado correctamente", portatil.Updated())
	assert.Equal(t, "Portátil eliminado correctamente", portatil.Deleted())
	assert.Equal(t, "Portátil no encontrado", portatil.NotFound())
	assert.Equal(t, "El portátil ya se encuentra registrado", portatil.AlreadyExists())
	assert.Equal(t, "Error al crear el portátil", portatil.Failure("crear"))
	assert.Equal(t, "Error al obtener los portátiles", portatil.FailurePlural("obtener", PortatilResource.Plural))

	ficha := FichaResource.Noun
	assert.Equal(t, "Ficha creada correctamente", ficha.Created())
	assert.Equal(t, "Ficha no encontrada", ficha.NotFound())
	assert.Equal(t, "La ficha ya se encuentra registrada", ficha.AlreadyExists())
	assert.Equal(t, "Error al eliminar la ficha", ficha.Failure("eliminar"))
	assert.Equal(t, "Error al obtener las fichas", ficha.FailurePlural("obtener", FichaResource.Plural))
}

func TestResourceColumns(t *testing.T) {
	assert.Equal(t, []string{"id_ficha", "programa", "jornada"}, FichaResource.InsertColumns())
	assert.Equal(t, []string{"nombre", "direccion"}, AmbienteResource.InsertColumns())
	assert.Equal(t, []string{"id_reporte", "estado_reporte", "fecha_reporte", "archivo", "descripcion"}, ReporteResource.SelectColumns())
	assert.Equal(t, []string{"portatil", "laptop"}, PortatilResource.Routes())

	assert.True(t, PortatilResource.IsOptional("ambiente"))
	assert.False(t, PortatilResource.IsOptional("marca"))
}

func TestUpdateRequiredExcludesIdentifier(t *testing.T) {
	for _, r := range []Resource{AmbienteResource, FichaResource, PortatilResource, ReporteResource} {
		assert.NotContains(t, r.UpdateRequired, r.IDColumn, r.Name)
		assert.NotContains(t, r.UpdateColumns, r.IDColumn, r.Name)
	}
}

func TestDuplicatePolicy(t *testing.T) {
	assert.True(t, PortatilResource.CheckDuplicate)
	assert.True(t, FichaResource.CheckDuplicate)
	assert.False(t, AmbienteResource.CheckDuplicate)
	assert.False(t, ReporteResource.CheckDuplicate)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "PORTATIL_ALREADY_EXISTS", PortatilResource.ErrorCode("ALREADY_EXISTS"))
	assert.Equal(t, "REPORTE_NOT_FOUND", ReporteResource.ErrorCode("NOT_FOUND"))
	assert.Equal(t, "una ficha", FichaResource.Noun.Indefinite())
}

func TestResourceByTable(t *testing.T) {
	r, ok := ResourceByTable("reportes")
	assert.True(t, ok)
	assert.Equal(t, "id_reporte", r.IDColumn)

	_, ok = ResourceByTable("usuarios")
	assert.False(t, ok)
}
