// Package mongo stores the singleton document in MongoDB.
//
// The document lives in one collection under a fixed _id, so every
// operation is a single-document update and relies on MongoDB's
// per-document atomicity. Logs are written with a targeted $set on
// logs.<date>; rules are appended with $push.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/monkmode/monkmode/habit"
)

const (
	documentID     = "monkmode"
	collectionName = "monkmodes"
)

// Store implements habit.DocumentStore on a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// record is the stored shape; the fixed _id pins the singleton.
type record struct {
	ID          string                `bson:"_id"`
	CurrentDate habit.Date            `bson:"currentDate"`
	Today       []habit.Routine       `bson:"today"`
	History     habit.History         `bson:"history"`
	Logs        map[habit.Date]string `bson:"logs,omitempty"`
	Rules       []habit.Rule          `bson:"rules,omitempty"`
}

func (r *record) document() *habit.Document {
	doc := &habit.Document{
		CurrentDate: r.CurrentDate,
		Today:       r.Today,
		History:     r.History,
		Logs:        r.Logs,
		Rules:       r.Rules,
	}
	doc.Normalize()
	return doc
}

// Connect dials uri and returns a store on database. A nil logger uses
// the default one.
func Connect(ctx context.Context, uri, database string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	logger.Info("MongoDB connected", "database", database)
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}, nil
}

func byID() bson.M { return bson.M{"_id": documentID} }

// Load returns the document.
func (s *Store) Load(ctx context.Context) (*habit.Document, error) {
	var rec record
	err := s.coll.FindOne(ctx, byID()).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, habit.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return rec.document(), nil
}

// SaveSnapshot upserts the three snapshot fields.
func (s *Store) SaveSnapshot(ctx context.Context, snap habit.Snapshot) (*habit.Document, error) {
	today := snap.Today
	if today == nil {
		today = []habit.Routine{}
	}
	history := snap.History
	if history == nil {
		history = habit.History{}
	}
	update := bson.M{"$set": bson.M{
		"currentDate": snap.CurrentDate,
		"today":       today,
		"history":     history,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var rec record
	if err := s.coll.FindOneAndUpdate(ctx, byID(), update, opts).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return rec.document(), nil
}

// SetLog sets logs.<date> without touching other dates.
func (s *Store) SetLog(ctx context.Context, date habit.Date, text string) (*habit.Document, error) {
	// A dot or dollar in the key would address a nested or operator field.
	if strings.ContainsAny(string(date), ".$") {
		return nil, fmt.Errorf("%w: log date %q", habit.ErrInvalidInput, date)
	}
	update := bson.M{"$set": bson.M{"logs." + string(date): text}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec record
	err := s.coll.FindOneAndUpdate(ctx, byID(), update, opts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, habit.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save log: %w", err)
	}
	return rec.document(), nil
}

// AppendRule pushes rule onto the rules array.
func (s *Store) AppendRule(ctx context.Context, rule habit.Rule) ([]habit.Rule, error) {
	update := bson.M{"$push": bson.M{"rules": rule}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec record
	err := s.coll.FindOneAndUpdate(ctx, byID(), update, opts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, habit.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append rule: %w", err)
	}
	return rec.document().Rules, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
