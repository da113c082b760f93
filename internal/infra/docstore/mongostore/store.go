// Package mongostore implements the docstore driver on MongoDB. Each
// collection maps to a Mongo collection of {_id, data} documents.
package mongostore

import (
	"context"
	"sync"
	"time"

	"booking-app/internal/infra/docstore"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type row struct {
	ID   primitive.ObjectID `bson:"_id"`
	Data bson.M             `bson:"data"`
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	hub    *docstore.Hub

	changeStreams bool
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
	streams       map[string]bool
}

type Option func(*Store)

// WithChangeStreams makes Watch follow a Mongo change stream, so writes made
// by other processes are delivered too. Requires a replica set.
func WithChangeStreams(enabled bool) Option {
	return func(s *Store) { s.changeStreams = enabled }
}

func Connect(ctx context.Context, uri, database string, opts ...Option) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}
	return New(client, database, opts...), nil
}

func New(client *mongo.Client, database string, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		client:  client,
		db:      client.Database(database),
		hub:     docstore.NewHub(),
		ctx:     ctx,
		cancel:  cancel,
		streams: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Name() string { return "mongo" }

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	oid := primitive.NewObjectID()
	_, err := s.db.Collection(collection).InsertOne(ctx, bson.M{"_id": oid, "data": bson.M(data)})
	if err != nil {
		return "", errors.Wrapf(err, "insert into %s", collection)
	}
	s.hub.Notify(collection)
	return oid.Hex(), nil
}

func (s *Store) find(ctx context.Context, collection, id string) (row, error) {
	var r row
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return r, errors.Wrapf(docstore.ErrNotFound, "%s/%s", collection, id)
	}
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r, errors.Wrapf(docstore.ErrNotFound, "%s/%s", collection, id)
	}
	if err != nil {
		return r, errors.Wrapf(err, "load %s/%s", collection, id)
	}
	return r, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	r, err := s.find(ctx, collection, id)
	if err != nil {
		return docstore.Document{}, err
	}
	return toDocument(r), nil
}

func (s *Store) Replace(ctx context.Context, collection, id string, data map[string]any, preserve ...string) error {
	r, err := s.find(ctx, collection, id)
	if err != nil {
		return err
	}
	merged := docstore.MergePreserved(r.Data, data, preserve)
	res, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": r.ID},
		bson.M{"$set": bson.M{"data": bson.M(merged)}},
	)
	if err != nil {
		return errors.Wrapf(err, "replace %s/%s", collection, id)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(docstore.ErrNotFound, "%s/%s", collection, id)
	}
	s.hub.Notify(collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrapf(err, "delete %s/%s", collection, id)
	}
	if res.DeletedCount > 0 {
		s.hub.Notify(collection)
	}
	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", collection)
	}
	var rows []row
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrapf(err, "decode %s", collection)
	}
	out := make([]docstore.Document, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDocument(r))
	}
	return out, nil
}

func (s *Store) Watch(collection string, notify func()) func() {
	if s.changeStreams {
		s.follow(collection)
	}
	return s.hub.Watch(collection, notify)
}

// follow starts at most one change stream per collection for the lifetime
// of the Store.
func (s *Store) follow(collection string) {
	s.mu.Lock()
	if s.streams[collection] {
		s.mu.Unlock()
		return
	}
	s.streams[collection] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		logCtx := log.WithField("collection", collection)

		cs, err := s.db.Collection(collection).Watch(s.ctx, mongo.Pipeline{})
		if err != nil {
			logCtx.WithError(err).Error("Failed to open change stream")
			return
		}
		defer cs.Close(context.Background())

		for cs.Next(s.ctx) {
			s.hub.Notify(collection)
		}
		if err := cs.Err(); err != nil && s.ctx.Err() == nil {
			logCtx.WithError(err).Error("Change stream closed")
		}
	}()
}

func (s *Store) Close() error {
	s.cancel()
	s.wg.Wait()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toDocument(r row) docstore.Document {
	data := make(map[string]any, len(r.Data))
	for k, v := range r.Data {
		data[k] = normalize(v)
	}
	return docstore.Document{ID: r.ID.Hex(), Data: data}
}

func normalize(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case int32:
		return int64(t)
	default:
		return v
	}
}
