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

const (
	collectionCategories        = "categories"
	collectionProjectCategories = "project_categories"
)

// CategoryRepository manages categories and the project_categories join
// collection.
type CategoryRepository struct {
	col   *mongo.Collection
	links *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		col:   db.Collection(collectionCategories),
		links: db.Collection(collectionProjectCategories),
	}
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

type projectCategory struct {
	CategoryID string    `bson:"category_id"`
	ProjectID  string    `bson:"project_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCategoryExists
		}
		return upstream("insert category", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Category
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, upstream("find category", err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, upstream("list categories", err)
	}
	cats := make([]*domain.Category, 0)
	if err := cur.All(ctx, &cats); err != nil {
		return nil, upstream("decode categories", err)
	}
	return cats, nil
}

// Delete removes the category and then its project links.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return upstream("delete category", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	if _, err := r.links.DeleteMany(ctx, bson.M{"category_id": id}); err != nil {
		return upstream("delete category links", err)
	}
	return nil
}

// Link upserts the pair so linking twice is a no-op.
func (r *CategoryRepository) Link(ctx context.Context, categoryID, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"category_id": categoryID, "project_id": projectID}
	update := bson.M{"$setOnInsert": projectCategory{
		CategoryID: categoryID,
		ProjectID:  projectID,
		CreatedAt:  time.Now().UTC(),
	}}
	if _, err := r.links.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return upstream("link project", err)
	}
	return nil
}

func (r *CategoryRepository) UnlinkProject(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.links.DeleteMany(ctx, bson.M{"project_id": projectID}); err != nil {
		return upstream("unlink project", err)
	}
	return nil
}

func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	if _, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return upstream("categories indexes", err)
	}
	if _, err := r.links.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "project_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
	}); err != nil {
		return upstream("project categories indexes", err)
	}
	return nil
}
