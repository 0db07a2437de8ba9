package mongodb

import (
	"net/url"
	"testing"
	"time"

	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/platform/config"
	"personal-agenda/internal/platform/timewindow"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter_Empty(t *testing.T) {
	f := buildFilter(events.ListFilter{})
	if len(f) != 0 {
		t.Fatalf("expected empty filter, got %#v", f)
	}
}

func TestBuildFilter_WindowAndFlags(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 50, 0, 0, time.UTC)
	w := timewindow.Behind(now, time.Hour)

	f := buildFilter(events.ListFilter{
		Window:    &w,
		Completed: events.Bool(false),
	})

	conds, ok := f["$and"].(bson.A)
	if !ok || len(conds) != 2 {
		t.Fatalf("expected $and with 2 conditions, got %#v", f)
	}

	sched := conds[0].(bson.M)["scheduledAt"].(bson.M)
	if _, ok := sched["$lt"]; !ok {
		t.Fatalf("half-open window must use $lt, got %#v", sched)
	}
	if _, ok := sched["$lte"]; ok {
		t.Fatalf("half-open window must not use $lte")
	}
	if !sched["$gte"].(time.Time).Equal(now.Add(-time.Hour)) {
		t.Fatalf("unexpected lower bound %#v", sched["$gte"])
	}

	if conds[1].(bson.M)["completed"] != false {
		t.Fatalf("unexpected completed condition %#v", conds[1])
	}
}

func TestBuildSet_SkipsFalseCompleted(t *testing.T) {
	title := "x"
	set := buildSet(events.Patch{Title: &title, Completed: events.Bool(false)})

	if set["title"] != "x" {
		t.Fatalf("expected title in $set, got %#v", set)
	}
	if _, ok := set["completed"]; ok {
		t.Fatalf("completed=false must not be written")
	}
	if _, ok := set["notified"]; ok {
		t.Fatalf("notified must never be written by CRUD")
	}
}

func TestURI(t *testing.T) {
	uri := URI(config.Database{
		Driver:           config.DriverMongo,
		Host:             "mongo",
		User:             "agenda",
		Password:         "secret",
		ConnectTimeoutMS: 2500,
	})

	u, err := url.Parse(uri)
	if err != nil {
		t.Fatalf("invalid uri %q: %v", uri, err)
	}
	if u.Scheme != "mongodb" || u.Host != "mongo:27017" {
		t.Fatalf("unexpected uri %q", uri)
	}
	if u.Query().Get("connectTimeoutMS") != "2500" {
		t.Fatalf("expected connectTimeoutMS=2500 in %q", uri)
	}
}
