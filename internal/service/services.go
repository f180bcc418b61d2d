// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives payloads from the handler, applies each resource's
// required-field and duplicate policy, and calls repository methods
// to interact with the data
package service

import (
	"github.com/deppfellow/inventario/internal/lib/job"
	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/repository"
	"github.com/deppfellow/inventario/internal/server"
)

type Services struct {
	Auth       *AuthService
	Job        *job.JobService
	Ambientes  *CRUD[model.Ambiente]
	Fichas     *CRUD[model.Ficha]
	Portatiles *CRUD[model.Portatil]
	Reportes   *CRUD[model.Reporte]
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	services := &Services{
		Job:        s.Job,
		Ambientes:  NewCRUD[model.Ambiente](repos.Ambientes, model.AmbienteResource),
		Fichas:     NewCRUD[model.Ficha](repos.Fichas, model.FichaResource),
		Portatiles: NewCRUD[model.Portatil](repos.Portatiles, model.PortatilResource),
		Reportes:   NewCRUD[model.Reporte](repos.Reportes, model.ReporteResource),
	}

	if s.Config.Auth.Enabled() {
		services.Auth = NewAuthService(s)
	}

	if s.Job != nil && len(s.Config.Integration.ReportRecipients) > 0 {
		services.Reportes.OnCreated(NewReportNotifier(s).Notify)
	}

	return services, nil
}
