package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/evently/internal/helpers"
	"github.com/joshua-takyi/evently/internal/models"
)

var (
	ErrInvalidEvent = errors.New("invalid event data provided")
	ErrImageUpload  = errors.New("image upload failed")
)

// ImageHost is the external media store event images go to.
type ImageHost interface {
	Upload(ctx context.Context, file io.Reader, fileName string) (*helpers.UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}

// NewEventInput carries the accepted form fields, already decoded.
type NewEventInput struct {
	Title       string
	Slug        string
	Description string
	Overview    string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        string
	Audience    string
	Organizer   string
	Tags        []string
	Agenda      []any

	// Creator and CreatorRole identify the bearer when auth is enabled. They
	// are logged, not stored.
	Creator     string
	CreatorRole string
}

type EventService struct {
	eventsRepo models.EventsRepo
	images     ImageHost
	logger     *slog.Logger
	now        func() time.Time
}

func NewEventService(eventsRepo models.EventsRepo, images ImageHost, logger *slog.Logger) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
		images:     images,
		logger:     logger,
		now:        time.Now,
	}
}

// BuildEvent normalizes and validates the input. The image is checked later,
// once the upload has produced a URL.
func BuildEvent(in NewEventInput) (*models.Event, error) {
	event := &models.Event{
		Title:       strings.TrimSpace(in.Title),
		Slug:        helpers.GenerateSlug(in.Slug),
		Description: strings.TrimSpace(in.Description),
		Overview:    strings.TrimSpace(in.Overview),
		Venue:       strings.TrimSpace(in.Venue),
		Location:    strings.TrimSpace(in.Location),
		Mode:        strings.ToLower(strings.TrimSpace(in.Mode)),
		Audience:    strings.TrimSpace(in.Audience),
		Organizer:   strings.TrimSpace(in.Organizer),
		Tags:        helpers.NormalizeTags(in.Tags),
		Agenda:      in.Agenda,
	}
	if event.Slug == "" {
		event.Slug = helpers.GenerateSlug(event.Title)
	}
	if event.Slug == "" && event.Title != "" {
		// titles in non-Latin scripts have nothing to fold into a slug
		event.Slug = "event-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
	if event.Agenda == nil {
		event.Agenda = []any{}
	}

	var err error
	if event.Date, err = helpers.NormalizeDate(in.Date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if event.Time, err = helpers.NormalizeTime(in.Time); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := models.Validate.StructExcept(event, "Image"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return event, nil
}

// CreateEvent uploads the image and then inserts the event. An upload failure
// aborts before anything is written; an insert failure removes the uploaded
// image again so it is not left orphaned.
func (es *EventService) CreateEvent(ctx context.Context, in NewEventInput, image io.Reader, fileName string) (*models.Event, error) {
	event, err := BuildEvent(in)
	if err != nil {
		es.logger.Info("Rejected event submission", "creator", in.Creator, "error", err)
		return nil, err
	}

	uploaded, err := es.images.Upload(ctx, image, fileName)
	if err != nil {
		es.logger.Error("Image upload failed", "file_name", fileName, "creator", in.Creator, "role", in.CreatorRole, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	es.logger.Info("Image uploaded", "file_name", fileName, "public_id", uploaded.PublicID, "url", uploaded.URL, "creator", in.Creator, "role", in.CreatorRole)

	event.Image = uploaded.URL
	event.ImagePublicID = uploaded.PublicID
	if err := models.Validate.Struct(event); err != nil {
		es.discardImage(ctx, uploaded.PublicID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	event.BeforeCreate(es.now())
	created, err := es.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		es.discardImage(ctx, uploaded.PublicID)
		return nil, err
	}
	es.logger.Info("Event created", "slug", created.Slug, "creator", in.Creator, "role", in.CreatorRole)
	return created, nil
}

func (es *EventService) discardImage(ctx context.Context, publicID string) {
	// the request may already be cancelled; the cleanup still has to reach the host
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := es.images.Delete(cleanupCtx, publicID); err != nil {
		es.logger.Error("Failed to delete orphaned image", "public_id", publicID, "error", err)
	}
}

func (es *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return es.eventsRepo.ListEvents(ctx)
}

func (es *EventService) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	slug = helpers.StringTrim(slug)
	if slug == "" {
		return nil, models.ErrEventNotFound
	}
	return es.eventsRepo.GetEventBySlug(ctx, slug)
}

// FindSimilarEvents returns the events sharing at least one tag with the
// event identified by slug, together with which outcome produced the list.
func (es *EventService) FindSimilarEvents(ctx context.Context, slug string) (models.SimilarEvents, error) {
	ref, err := es.GetEventBySlug(ctx, slug)
	if errors.Is(err, models.ErrEventNotFound) {
		return models.SimilarEvents{Status: models.SimilarReferenceNotFound, Events: []*models.Event{}}, nil
	}
	if err != nil {
		return models.SimilarEvents{Status: models.SimilarError, Events: []*models.Event{}}, err
	}

	events, err := es.eventsRepo.ListSimilarEvents(ctx, ref)
	if err != nil {
		return models.SimilarEvents{Status: models.SimilarError, Events: []*models.Event{}}, err
	}
	if len(events) == 0 {
		return models.SimilarEvents{Status: models.SimilarNoMatches, Events: []*models.Event{}}, nil
	}
	return models.SimilarEvents{Status: models.SimilarFound, Events: events}, nil
}

// GetSimilarEventsBySlug never fails: a missing reference or a database error
// both come back as an empty list.
func (es *EventService) GetSimilarEventsBySlug(ctx context.Context, slug string) []*models.Event {
	res, err := es.FindSimilarEvents(ctx, slug)
	if err != nil {
		es.logger.Warn("Similar events lookup failed", "slug", slug, "error", err)
		return []*models.Event{}
	}
	return res.Events
}
