package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	templatesCollection = "notion_templates"
	documentsCollection = "user_documents"
)

// MongoStore connects lazily: the first call dials the server and creates the
// indexes. A failed connect is remembered and returned by every later call.
type MongoStore struct {
	uri      string
	database string

	once      sync.Once
	err       error
	client    *mongo.Client
	templates *mongo.Collection
	documents *mongo.Collection
}

func NewMongoStore(uri, database string) *MongoStore {
	return &MongoStore{uri: uri, database: database}
}

func (s *MongoStore) connect(ctx context.Context) error {
	s.once.Do(func() {
		// Nested documents decode as maps so they serialize back to plain JSON objects.
		opts := options.Client().
			ApplyURI(s.uri).
			SetConnectTimeout(10 * time.Second).
			SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			s.err = fmt.Errorf("failed to connect to mongo: %w", err)
			return
		}

		db := client.Database(s.database)
		s.client = client
		s.templates = db.Collection(templatesCollection)
		s.documents = db.Collection(documentsCollection)

		if err := s.ensureIndexes(ctx); err != nil {
			slog.Warn("document store indexes not created", "error", err)
		}
		slog.Info("document store connected", "database", s.database)
	})
	return s.err
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.templates.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "order", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", templatesCollection, err)
	}
	_, err = s.documents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "metadata.updated_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", documentsCollection, err)
	}
	return nil
}

// Close disconnects if a connection was ever made.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ListTemplates(ctx context.Context, q TemplateQuery) ([]NotionTemplate, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	filter := bson.M{}
	if !q.IncludeInactive {
		filter["is_active"] = true
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"metadata.tags": re},
		}
	}

	sort := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "metadata.created_at", Value: -1}})
	cur, err := s.templates.Find(ctx, filter, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	out := []NotionTemplate{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}
	return out, nil
}

func (s *MongoStore) GetTemplate(ctx context.Context, id primitive.ObjectID) (*NotionTemplate, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	var t NotionTemplate
	if err := s.templates.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *MongoStore) InsertTemplate(ctx context.Context, t *NotionTemplate) error {
	if err := s.connect(ctx); err != nil {
		return err
	}
	res, err := s.templates.InsertOne(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return nil
}

func (s *MongoStore) UpdateTemplate(ctx context.Context, id primitive.ObjectID, p TemplatePatch) (*NotionTemplate, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	set := bson.M{"metadata.updated_at": p.UpdatedAt}
	setIf(set, "name", p.Name)
	setIf(set, "type", p.Type)
	setIf(set, "description", p.Description)
	setIf(set, "icon", p.Icon)
	setIf(set, "cover", p.Cover)
	setIf(set, "is_active", p.IsActive)
	setIf(set, "is_default", p.IsDefault)
	setIf(set, "order", p.Order)
	setIf(set, "content", p.Content)
	setIf(set, "metadata.category", p.Category)
	setIf(set, "metadata.tags", p.Tags)

	var t NotionTemplate
	if err := s.templates.FindOneAndUpdate(ctx, bson.M{"_id": id}, update(set, p.BumpVersion), returnAfter()).Decode(&t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *MongoStore) DeleteTemplate(ctx context.Context, id primitive.ObjectID) error {
	if err := s.connect(ctx); err != nil {
		return err
	}
	res, err := s.templates.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) HasTemplateType(ctx context.Context, templateType string) (bool, error) {
	if err := s.connect(ctx); err != nil {
		return false, err
	}
	n, err := s.templates.CountDocuments(ctx, bson.M{"type": templateType}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count templates: %w", err)
	}
	return n > 0, nil
}

func (s *MongoStore) ListDocuments(ctx context.Context, userID string) ([]UserDocument, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	sort := options.Find().SetSort(bson.D{{Key: "metadata.updated_at", Value: -1}})
	cur, err := s.documents.Find(ctx, bson.M{"user_id": userID}, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	out := []UserDocument{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return out, nil
}

func (s *MongoStore) InsertDocument(ctx context.Context, d *UserDocument) error {
	if err := s.connect(ctx); err != nil {
		return err
	}
	res, err := s.documents.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

func (s *MongoStore) UpdateDocument(ctx context.Context, userID string, id primitive.ObjectID, p DocumentPatch) (*UserDocument, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	set := bson.M{"metadata.updated_at": p.UpdatedAt}
	setIf(set, "title", p.Title)
	setIf(set, "content", p.Content)
	setIf(set, "metadata.tags", p.Tags)
	setIf(set, "metadata.is_favorite", p.IsFavorite)
	setIf(set, "metadata.is_archived", p.IsArchived)

	filter := bson.M{"_id": id, "user_id": userID}
	var d UserDocument
	if err := s.documents.FindOneAndUpdate(ctx, filter, update(set, p.BumpVersion), returnAfter()).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *MongoStore) DeleteUserDocuments(ctx context.Context, userID string) error {
	if err := s.connect(ctx); err != nil {
		return err
	}
	if _, err := s.documents.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

func setIf[T any](set bson.M, key string, v *T) {
	if v != nil {
		set[key] = *v
	}
}

func update(set bson.M, bump bool) bson.M {
	u := bson.M{"$set": set}
	if bump {
		u["$inc"] = bson.M{"metadata.version": 1}
	}
	return u
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("mongo: %w", err)
}
