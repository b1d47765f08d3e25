package mongodb

import (
	"context"

	"github.com/adam2504/devevent/internal/domain/booking"
	"github.com/adam2504/devevent/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingsRepo struct {
	src    ClientSource
	dbName string
	prom   *observability.Prom
}

func NewBookingsRepo(src ClientSource, dbName string, prom *observability.Prom) *BookingsRepo {
	return &BookingsRepo{src: src, dbName: dbName, prom: prom}
}

func (r *BookingsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *BookingsRepo) collection(ctx context.Context) (*mongo.Collection, error) {
	client, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	return client.Database(r.dbName).Collection(bookingsCollection), nil
}

func (r *BookingsRepo) Insert(ctx context.Context, b booking.Booking) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	return r.observe("bookings.insert", func() error {
		_, err := coll.InsertOne(ctx, b)
		return err
	})
}

func (r *BookingsRepo) ListByEvent(ctx context.Context, eventID string) ([]booking.Booking, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]booking.Booking, 0)

	err = r.observe("bookings.list_by_event", func() error {
		cur, err := coll.Find(ctx,
			bson.M{"event_id": eventID},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
		)
		if err != nil {
			return err
		}
		return cur.All(ctx, &out)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
