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

const collectionProjectImages = "project_images"

// ImageRepository stores image bytes as blobs in the project_images
// collection. Documents stay well below the 16 MB BSON limit because uploads
// are capped at 10 MB.
type ImageRepository struct {
	col *mongo.Collection
}

func NewImageRepository(db *mongo.Database) *ImageRepository {
	return &ImageRepository{col: db.Collection(collectionProjectImages)}
}

var _ ports.ImageStore = (*ImageRepository)(nil)

type mongoImage struct {
	ID        string    `bson:"_id"`
	Filename  string    `bson:"filename"`
	MimeType  string    `bson:"mimetype"`
	Size      int64     `bson:"size"`
	ProjectID string    `bson:"project_id,omitempty"`
	Data      []byte    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *ImageRepository) Save(ctx context.Context, img *domain.Image) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoImage{
		ID:        img.ID,
		Filename:  img.Filename,
		MimeType:  img.MimeType,
		Size:      img.Size,
		ProjectID: img.ProjectID,
		Data:      img.Data,
		CreatedAt: img.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return upstream("insert image", err)
	}
	return nil
}

func (r *ImageRepository) Open(ctx context.Context, id string) (*domain.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoImage
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrImageNotFound
		}
		return nil, upstream("find image", err)
	}
	return &domain.Image{
		ID:        doc.ID,
		Filename:  doc.Filename,
		MimeType:  doc.MimeType,
		Size:      doc.Size,
		ProjectID: doc.ProjectID,
		Data:      doc.Data,
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return upstream("delete image", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

func (r *ImageRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, upstream("delete project images", err)
	}
	return res.DeletedCount, nil
}

func (r *ImageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}},
		Options: options.Index().SetSparse(true),
	})
	if err != nil {
		return upstream("project images indexes", err)
	}
	return nil
}
