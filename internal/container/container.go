package container

import (
	"log/slog"

	"github.com/joshua-takyi/evently/internal/config"
	"github.com/joshua-takyi/evently/internal/helpers"
	"github.com/joshua-takyi/evently/internal/models"
	"github.com/joshua-takyi/evently/internal/services"
)

// ImageStore is what the container needs from the media host: server-side
// uploads for event creation and signing for direct uploads.
type ImageStore interface {
	services.ImageHost
	services.UploadSigner
}

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Logger            *slog.Logger
	TokenValidator    *helpers.TokenValidator
	EventService      *services.EventService
	UploadAuthService *services.UploadAuthService
}

// NewContainer creates a new dependency injection container. A nil validator
// leaves write routes open.
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	eventsRepo models.EventsRepo,
	images ImageStore,
	validator *helpers.TokenValidator,
) *Container {
	return &Container{
		Config:            cfg,
		Logger:            logger,
		TokenValidator:    validator,
		EventService:      services.NewEventService(eventsRepo, images, logger),
		UploadAuthService: services.NewUploadAuthService(images, cfg.UploadAuthTTL),
	}
}
