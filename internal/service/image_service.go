package service

import (
	"context"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/pkg/apperror"
)

const entityImage = "Image"

type ImageInput struct {
	File      string  `json:"file" validate:"notblank,max=255"`
	Title     *string `json:"title" validate:"omitempty,min=1,max=100"`
	IsPrimary bool    `json:"is_primary"`
}

type ImageUpdateInput struct {
	ID        uint    `json:"id" validate:"required,gt=0"`
	File      *string `json:"file" validate:"omitempty,notblank,max=255"`
	Title     *string `json:"title" validate:"omitempty,min=1,max=100"`
	IsPrimary *bool   `json:"is_primary"`
}

// ImageChanges is the image part of an update request.
type ImageChanges struct {
	ImagesToCreate []ImageInput       `json:"images_to_create" validate:"omitempty,dive"`
	ImagesToUpdate []ImageUpdateInput `json:"images_to_update" validate:"omitempty,dive"`
	ImagesToDelete []uint             `json:"images_to_delete" validate:"omitempty,dive,gt=0"`
}

// ImageDetail is an image with the row it is attached to.
type ImageDetail struct {
	model.Image
	Parent model.Imageable `json:"parent"`
}

type ImageService interface {
	Get(ctx context.Context, id uint) (*ImageDetail, error)
	ListByObject(ctx context.Context, contentType string, objectID uint, page repository.Page) ([]model.Image, int64, error)
}

type imageService struct {
	repo repository.ImageRepository
}

func NewImageService(repo repository.ImageRepository) ImageService {
	return &imageService{repo: repo}
}

func (s *imageService) Get(ctx context.Context, id uint) (*ImageDetail, error) {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityImage, id)
	}
	if _, ok := model.NewContentType(img.ContentType); !ok {
		return nil, apperror.BadRequest("Unknown content type '%s'", img.ContentType)
	}
	parent, err := s.repo.ResolveParent(ctx, img.ContentType, img.ObjectID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	return &ImageDetail{Image: *img, Parent: parent}, nil
}

func (s *imageService) ListByObject(ctx context.Context, contentType string, objectID uint, page repository.Page) ([]model.Image, int64, error) {
	if contentType != "" {
		if _, ok := model.NewContentType(contentType); !ok {
			return nil, 0, apperror.BadRequest("Unknown content type '%s'", contentType)
		}
	}
	filter := repository.ImageFilter{}
	if contentType != "" {
		filter.ContentType = &contentType
	}
	if objectID != 0 {
		filter.ObjectID = &objectID
	}
	return s.repo.List(ctx, filter.Scope(), page)
}

// createImages attaches new images to an object. Callers run it inside their
// transaction with a tx-bound repository.
func createImages(ctx context.Context, repo repository.ImageRepository, contentType string, objectID uint, inputs []ImageInput) error {
	for _, in := range inputs {
		if err := ensureUniqueFile(ctx, repo, in.File, 0); err != nil {
			return err
		}
		img := &model.Image{
			File:        in.File,
			Title:       in.Title,
			IsPrimary:   in.IsPrimary,
			ContentType: contentType,
			ObjectID:    objectID,
		}
		img.IsActive = true
		if err := repo.Create(ctx, img); err != nil {
			return writeError(err, entityImage)
		}
	}
	return nil
}

// applyImageChanges deletes, then updates, then creates images of an object.
func applyImageChanges(ctx context.Context, repo repository.ImageRepository, contentType string, objectID uint, ch ImageChanges) error {
	if len(ch.ImagesToDelete) == 0 && len(ch.ImagesToUpdate) == 0 && len(ch.ImagesToCreate) == 0 {
		return nil
	}
	owned, err := repo.ListByObject(ctx, contentType, objectID)
	if err != nil {
		return err
	}
	byID := make(map[uint]*model.Image, len(owned))
	for i := range owned {
		byID[owned[i].ID] = &owned[i]
	}

	var missing []uint
	for _, id := range ch.ImagesToDelete {
		if byID[id] == nil {
			missing = append(missing, id)
		}
	}
	for _, u := range ch.ImagesToUpdate {
		if byID[u.ID] == nil {
			missing = append(missing, u.ID)
		}
	}
	if len(missing) > 0 {
		return apperror.NotFound("Images with IDs %s not found", formatIDs(uniqueIDs(missing)))
	}

	for _, id := range uniqueIDs(ch.ImagesToDelete) {
		if err := repo.Delete(ctx, byID[id]); err != nil {
			return err
		}
		delete(byID, id)
	}

	for _, u := range ch.ImagesToUpdate {
		img := byID[u.ID]
		if img == nil {
			return apperror.BadRequest("Image with ID %d is scheduled for deletion", u.ID)
		}
		if u.File != nil && *u.File != img.File {
			if err := ensureUniqueFile(ctx, repo, *u.File, img.ID); err != nil {
				return err
			}
			img.File = *u.File
		}
		if u.Title != nil {
			img.Title = u.Title
		}
		if u.IsPrimary != nil {
			img.IsPrimary = *u.IsPrimary
		}
		if err := repo.Save(ctx, img); err != nil {
			return writeError(err, entityImage)
		}
	}

	return createImages(ctx, repo, contentType, objectID, ch.ImagesToCreate)
}

func ensureUniqueFile(ctx context.Context, repo repository.ImageRepository, file string, excludeID uint) error {
	exists, err := repo.Exists(ctx, "file", file, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("Image with file '%s' already exists", file)
	}
	return nil
}
