package mongodb

import (
	"context"
	"fmt"

	"github.com/adam2504/devevent/internal/db"
	"github.com/adam2504/devevent/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store bundles the repositories of one mongo database behind a shared manager.
type Store struct {
	mgr      *db.Manager[*mongo.Client]
	dbName   string
	Events   *EventsRepo
	Bookings *BookingsRepo
}

func NewStore(mgr *db.Manager[*mongo.Client], dbName string, prom *observability.Prom) *Store {
	return &Store{
		mgr:      mgr,
		dbName:   dbName,
		Events:   NewEventsRepo(mgr, dbName, prom),
		Bookings: NewBookingsRepo(mgr, dbName, prom),
	}
}

// EnsureSchema creates the slug unique index and the bookings lookup index. Creating an index
// that already exists with the same definition is a no-op in mongo.
func (s *Store) EnsureSchema(ctx context.Context) error {
	client, err := s.mgr.Acquire(ctx)
	if err != nil {
		return err
	}

	database := client.Database(s.dbName)

	_, err = database.Collection(eventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(slugIndex),
	})
	if err != nil {
		return fmt.Errorf("ensure events indexes: %w", err)
	}

	_, err = database.Collection(bookingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}},
		Options: options.Index().SetName("bookings_event_id_idx"),
	})
	if err != nil {
		return fmt.Errorf("ensure bookings indexes: %w", err)
	}

	return nil
}

// Ping checks the shared client. A failed ping drops the client so the next caller reconnects.
func (s *Store) Ping(ctx context.Context) error {
	client, err := s.mgr.Acquire(ctx)
	if err != nil {
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		s.mgr.Invalidate(client)
		return fmt.Errorf("%w: %w", db.ErrConnectionFailure, err)
	}

	return nil
}

func (s *Store) Close() {
	s.mgr.Close()
}
