package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"personal-agenda/internal/domain/events"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	ScheduledAt time.Time `bson:"scheduledAt"`
	Priority    string    `bson:"priority"`
	Completed   bool      `bson:"completed"`
	Notified    bool      `bson:"notified"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func toDoc(e events.Event) eventDoc {
	return eventDoc{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		ScheduledAt: e.ScheduledAt.UTC(),
		Priority:    string(e.Priority),
		Completed:   e.Completed,
		Notified:    e.Notified,
		CreatedAt:   e.CreatedAt.UTC(),
	}
}

func (d eventDoc) toEvent() events.Event {
	return events.Event{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		ScheduledAt: d.ScheduledAt,
		Priority:    events.Priority(d.Priority),
		Completed:   d.Completed,
		Notified:    d.Notified,
		CreatedAt:   d.CreatedAt,
	}
}

type EventsRepo struct {
	coll *mongo.Collection
}

func NewEventsRepo(db *mongo.Database) *EventsRepo {
	return &EventsRepo{coll: db.Collection(eventsCollection)}
}

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	_, err := r.coll.InsertOne(ctx, toDoc(e))
	return err
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.Event{}, events.ErrNotFound
	}

	var d eventDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return events.Event{}, events.ErrNotFound
		}
		return events.Event{}, err
	}
	return d.toEvent(), nil
}

func (r *EventsRepo) Update(ctx context.Context, id string, p events.Patch) error {
	id = strings.TrimSpace(id)

	set := buildSet(p)
	if len(set) == 0 {
		// Nada que cambiar: solo confirmar que existe.
		_, err := r.GetByID(ctx, id)
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return events.ErrNotFound
	}
	return nil
}

// buildSet nunca incluye notified, y completed solo si es true.
func buildSet(p events.Patch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.ScheduledAt != nil {
		set["scheduledAt"] = p.ScheduledAt.UTC()
	}
	if p.Priority != nil {
		set["priority"] = string(*p.Priority)
	}
	if p.Completed != nil && *p.Completed {
		set["completed"] = true
	}
	return set
}

func (r *EventsRepo) Complete(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": strings.TrimSpace(id)},
		bson.M{"$set": bson.M{"completed": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": strings.TrimSpace(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventsRepo) Query(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "scheduledAt", Value: 1},
		{Key: "_id", Value: 1},
	})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]events.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEvent())
	}
	return out, nil
}

func buildFilter(filter events.ListFilter) bson.M {
	conds := bson.A{}

	if w := filter.Window; w != nil {
		endOp := "$lt"
		if w.ClosedEnd {
			endOp = "$lte"
		}
		conds = append(conds, bson.M{"scheduledAt": bson.M{
			"$gte": w.Start.UTC(),
			endOp:  w.End.UTC(),
		}})
	}
	if filter.From != nil {
		conds = append(conds, bson.M{"scheduledAt": bson.M{"$gte": filter.From.UTC()}})
	}
	if filter.Completed != nil {
		conds = append(conds, bson.M{"completed": *filter.Completed})
	}
	if filter.Notified != nil {
		conds = append(conds, bson.M{"notified": *filter.Notified})
	}

	if len(conds) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": conds}
}

func (r *EventsRepo) BulkSetNotified(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "notified": false},
		bson.M{"$set": bson.M{"notified": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
