package container

import (
	"log/slog"

	app "feature-inspector/internal/application"
	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
	"feature-inspector/internal/matching"
)

// Repositories хранилища, из которых собираются сервисы
type Repositories struct {
	Users       port.UserRepository
	Templates   port.TemplateRepository
	Inspections port.InspectionRepository
}

type Container struct {
	UserService       *app.UserService
	TemplateService   *app.TemplateService
	InspectionService *app.InspectionService
	Log               *slog.Logger
}

func New(repos Repositories, renderer port.ResultRenderer, cfg matching.Config, strategy entity.MatchStrategy, log *slog.Logger) *Container {
	userService := app.NewUserService(repos.Users)
	templateService := app.NewTemplateService(repos.Templates, log)
	inspectionService := app.NewInspectionService(userService, templateService, repos.Inspections, renderer, cfg, strategy, log)

	return &Container{
		UserService:       userService,
		TemplateService:   templateService,
		InspectionService: inspectionService,
		Log:               log,
	}
}
