package postgres

import (
	"context"

	"github.com/google/uuid"

	"realestate/internal/listings/domain"
)

// ImageRepository persists property image records using PostgreSQL.
type ImageRepository struct {
	db Executor
}

// NewImageRepository binds the repository to a database handle (pool or tx).
func NewImageRepository(db Executor) *ImageRepository {
	return &ImageRepository{db: db}
}

// Add inserts a new image record.
func (r *ImageRepository) Add(ctx context.Context, image *domain.PropertyImage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO property_images (id, property_id, file, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(image.ID),
		uuid.UUID(image.PropertyID),
		image.File,
		image.Enabled,
		image.CreatedAt,
	)
	return err
}

// FindEnabledByProperty retrieves the enabled images of a property in
// insertion order.
func (r *ImageRepository) FindEnabledByProperty(ctx context.Context, propertyID domain.PropertyID) ([]*domain.PropertyImage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, property_id, file, enabled, created_at
		FROM property_images
		WHERE property_id = $1 AND enabled
		ORDER BY created_at, id`,
		uuid.UUID(propertyID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*domain.PropertyImage
	for rows.Next() {
		var image domain.PropertyImage
		var id, propID uuid.UUID
		if err := rows.Scan(&id, &propID, &image.File, &image.Enabled, &image.CreatedAt); err != nil {
			return nil, err
		}
		image.ID = domain.ImageID(id)
		image.PropertyID = domain.PropertyID(propID)
		images = append(images, &image)
	}
	return images, rows.Err()
}

// Verify interface implementation.
var _ domain.ImageRepository = (*ImageRepository)(nil)
