package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrDuplicateSlug = errors.New("an event with this slug already exists")
)

type Event struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id"`

	Title       string `bson:"title" json:"title" validate:"required,max=100"`
	Slug        string `bson:"slug" json:"slug" validate:"required,max=120,slug"`
	Description string `bson:"description" json:"description" validate:"required,max=1000"`
	Overview    string `bson:"overview,omitempty" json:"overview,omitempty" validate:"max=500"`

	Image         string `bson:"image" json:"image" validate:"required,url"`
	ImagePublicID string `bson:"imagePublicId,omitempty" json:"-"`

	Venue     string `bson:"venue,omitempty" json:"venue,omitempty" validate:"max=200"`
	Location  string `bson:"location,omitempty" json:"location,omitempty" validate:"max=200"`
	Date      string `bson:"date,omitempty" json:"date,omitempty"` // YYYY-MM-DD
	Time      string `bson:"time,omitempty" json:"time,omitempty"` // HH:MM (24h)
	Mode      string `bson:"mode,omitempty" json:"mode,omitempty" validate:"omitempty,oneof=online offline hybrid"`
	Audience  string `bson:"audience,omitempty" json:"audience,omitempty" validate:"max=200"`
	Organizer string `bson:"organizer,omitempty" json:"organizer,omitempty" validate:"max=200"`

	// Tags is a set; order carries no meaning.
	Tags   []string `bson:"tags" json:"tags"`
	Agenda []any    `bson:"agenda" json:"agenda"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (e *Event) BeforeCreate(now time.Time) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.Agenda == nil {
		e.Agenda = []any{}
	}
	e.CreatedAt = now
	e.UpdatedAt = now
}

// SimilarStatus tells apart the outcomes an empty similar-events list can hide.
type SimilarStatus string

const (
	SimilarFound             SimilarStatus = "found-with-matches"
	SimilarNoMatches         SimilarStatus = "found-no-matches"
	SimilarReferenceNotFound SimilarStatus = "reference-not-found"
	SimilarError             SimilarStatus = "error"
)

type SimilarEvents struct {
	Status SimilarStatus `json:"status"`
	Events []*Event      `json:"events"`
}

// UploadAuth is handed to clients uploading straight to the media host.
// It is never persisted.
type UploadAuth struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}
