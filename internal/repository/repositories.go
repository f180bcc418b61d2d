package repository

import (
	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/server"
)

// Repositories is a container for all repository instances.
//
// Every repository shares the server's pgx pool.
type Repositories struct {
	Ambientes  *Repository[model.Ambiente]
	Fichas     *Repository[model.Ficha]
	Portatiles *Repository[model.Portatil]
	Reportes   *Repository[model.Reporte]
}

// NewRepositories constructs the repository container on top of s.DB.Pool.
func NewRepositories(s *server.Server) *Repositories {
	return NewRepositoriesWithDB(s.DB.Pool)
}

// NewRepositoriesWithDB constructs the container on any DBTX, e.g. a pgx.Tx.
func NewRepositoriesWithDB(db DBTX) *Repositories {
	return &Repositories{
		Ambientes:  NewRepository[model.Ambiente](db, model.AmbienteResource),
		Fichas:     NewRepository[model.Ficha](db, model.FichaResource),
		Portatiles: NewRepository[model.Portatil](db, model.PortatilResource),
		Reportes:   NewRepository[model.Reporte](db, model.ReporteResource),
	}
}
