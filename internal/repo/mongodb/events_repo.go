package mongodb

import (
	"context"
	"errors"

	"github.com/adam2504/devevent/internal/domain/event"
	"github.com/adam2504/devevent/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	eventsCollection   = "events"
	bookingsCollection = "bookings"
	slugIndex          = "events_slug_uniq"
)

// ClientSource hands out the shared client. *db.Manager[*mongo.Client] implements it.
type ClientSource interface {
	Acquire(ctx context.Context) (*mongo.Client, error)
}

type EventsRepo struct {
	src    ClientSource
	dbName string
	prom   *observability.Prom
}

func NewEventsRepo(src ClientSource, dbName string, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{src: src, dbName: dbName, prom: prom}
}

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *EventsRepo) collection(ctx context.Context) (*mongo.Collection, error) {
	client, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	return client.Database(r.dbName).Collection(eventsCollection), nil
}

func (r *EventsRepo) Insert(ctx context.Context, e event.Event) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	err = r.observe("events.insert", func() error {
		_, err := coll.InsertOne(ctx, e)
		return err
	})

	if isSlugDuplicate(err) {
		return event.ErrDuplicateSlug
	}

	return err
}

func (r *EventsRepo) Update(ctx context.Context, e event.Event) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	var matched int64

	err = r.observe("events.update", func() error {
		res, err := coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})

	if err != nil {
		if isSlugDuplicate(err) {
			return event.ErrDuplicateSlug
		}
		return err
	}

	if matched == 0 {
		return event.ErrNotFound
	}

	return nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	return r.findOne(ctx, "events.get_by_id", bson.M{"_id": id})
}

func (r *EventsRepo) GetBySlug(ctx context.Context, slug string) (event.Event, error) {
	return r.findOne(ctx, "events.get_by_slug", bson.M{"slug": slug})
}

func (r *EventsRepo) findOne(ctx context.Context, op string, filter bson.M) (event.Event, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return event.Event{}, err
	}

	var e event.Event

	err = r.observe(op, func() error {
		return coll.FindOne(ctx, filter).Decode(&e)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64

	err = r.observe("events.count", func() error {
		total, err = coll.CountDocuments(ctx, bson.M{})
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(max(filter.Offset, 0)))

	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	output := make([]event.Event, 0, max(filter.Limit, 0))

	err = r.observe("events.list", func() error {
		cur, err := coll.Find(ctx, bson.M{}, opts)
		if err != nil {
			return err
		}
		return cur.All(ctx, &output)
	})
	if err != nil {
		return nil, 0, err
	}

	return output, int(total), nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	var deleted int64

	err = r.observe("events.delete", func() error {
		res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})

	if err != nil {
		return err
	}

	if deleted == 0 {
		return event.ErrNotFound
	}

	return nil
}

func (r *EventsRepo) Exists(ctx context.Context, id string) (bool, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return false, err
	}

	var n int64

	err = r.observe("events.exists", func() error {
		n, err = coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
		return err
	})

	return n > 0, err
}
