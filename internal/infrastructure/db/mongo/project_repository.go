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

const collectionProjects = "projects"

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return upstream("insert project", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Project
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, upstream("find project", err)
	}
	return &p, nil
}

// List returns projects by date, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter ports.ProjectFilter) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, upstream("list projects", err)
	}
	projects := make([]*domain.Project, 0)
	if err := cur.All(ctx, &projects); err != nil {
		return nil, upstream("decode projects", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, patch ports.ProjectPatch) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Project
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": patchFields(patch, time.Now().UTC())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, upstream("update project", err)
	}
	return &p, nil
}

// patchFields turns the non-nil fields of patch into a $set document.
func patchFields(patch ports.ProjectPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	str := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	str("title", patch.Title)
	str("description", patch.Description)
	str("client", patch.Client)
	str("duration", patch.Duration)
	str("url", patch.URL)
	str("image_url", patch.ImageURL)
	if patch.Technologies != nil {
		set["technologies"] = patch.Technologies
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	return set
}

func (r *ProjectRepository) AddImage(ctx context.Context, id, imageID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"image_ids": imageID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return upstream("add project image", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) RemoveImage(ctx context.Context, imageID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"image_ids": imageID},
		bson.M{"$pull": bson.M{"image_ids": imageID}},
	)
	if err != nil {
		return upstream("remove project image", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return upstream("delete project", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the projects collection.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "image_ids", Value: 1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return upstream("projects indexes", err)
	}
	return nil
}
