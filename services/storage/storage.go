package storage

import (
	"context"
	"fmt"

	"salonbook/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStore keeps salon gallery images.
type ImageStore interface {
	Upload(ctx context.Context, file interface{}, folder string) (models.SalonImage, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryImageStore implements ImageStore on a Cloudinary account.
type CloudinaryImageStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryImageStore(cld *cloudinary.Cloudinary) *CloudinaryImageStore {
	return &CloudinaryImageStore{cld: cld}
}

// Upload sends a file (path, URL or io.Reader) into folder and returns its public id and URL.
func (s *CloudinaryImageStore) Upload(ctx context.Context, file interface{}, folder string) (models.SalonImage, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"salon-gallery"},
	})
	if err != nil {
		return models.SalonImage{}, fmt.Errorf("failed to upload image: %w", err)
	}
	if result.PublicID == "" {
		return models.SalonImage{}, fmt.Errorf("image upload returned no public id: %s", result.Error.Message)
	}
	return models.SalonImage{PublicID: result.PublicID, URL: result.SecureURL}, nil
}

func (s *CloudinaryImageStore) Delete(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	return nil
}
