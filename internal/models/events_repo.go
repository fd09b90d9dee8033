package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EventsColName = "events"

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListSimilarEvents(ctx context.Context, ref *Event) ([]*Event, error)
	EnsureEventIndexes(ctx context.Context) error
}

// EnsureEventIndexes creates the unique slug index and the listing sort index.
func (mdb *MongodbRepo) EnsureEventIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("tags_idx"),
		},
	}

	ctx, cancel := mdb.withTimeout(ctx)
	defer cancel()

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	ctx, cancel := mdb.withTimeout(ctx)
	defer cancel()

	if _, err := col.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("slug %q: %w", event.Slug, ErrDuplicateSlug)
		}
		return nil, fmt.Errorf("failed to insert event into database: %w", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	ctx, cancel := mdb.withTimeout(ctx)
	defer cancel()

	cursor, err := col.Find(ctx, bson.M{}, listOptions())
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events: %w", err)
	}
	return events, nil
}

func (mdb *MongodbRepo) GetEventBySlug(ctx context.Context, slug string) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	ctx, cancel := mdb.withTimeout(ctx)
	defer cancel()

	var event Event
	if err := col.FindOne(ctx, bson.M{"slug": slug}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error finding event by slug: %w", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) ListSimilarEvents(ctx context.Context, ref *Event) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	filter, ok := similarFilter(ref)
	if !ok {
		return []*Event{}, nil
	}

	ctx, cancel := mdb.withTimeout(ctx)
	defer cancel()

	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding similar events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding similar events: %w", err)
	}
	return events, nil
}

// similarFilter matches every other event sharing at least one tag with ref.
// It reports false when ref has no tags, since nothing can intersect them.
func similarFilter(ref *Event) (bson.M, bool) {
	if ref == nil || len(ref.Tags) == 0 {
		return nil, false
	}
	return bson.M{
		"_id":  bson.M{"$ne": ref.ID},
		"tags": bson.M{"$in": ref.Tags},
	}, true
}

// newest first; _id breaks ties between events created in the same instant
func listOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})
}
