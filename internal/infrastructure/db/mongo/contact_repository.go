package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

const collectionContactMessages = "contact_messages"

type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection(collectionContactMessages)}
}

var _ ports.ContactRepository = (*ContactRepository)(nil)

func (r *ContactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return upstream("insert contact message", err)
	}
	return nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.ContactMessage
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, upstream("find contact message", err)
	}
	return &m, nil
}

// List returns messages newest first.
func (r *ContactRepository) List(ctx context.Context, filter ports.MessageFilter) ([]*domain.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, upstream("list contact messages", err)
	}
	msgs := make([]*domain.ContactMessage, 0)
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, upstream("decode contact messages", err)
	}
	return msgs, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) (*domain.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.ContactMessage
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, upstream("update contact message", err)
	}
	return &m, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return upstream("delete contact message", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *ContactRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return upstream("contact messages indexes", err)
	}
	return nil
}
