package repository

import (
	"errors"
	"time"

	bgdomain "quotepush-backend/internal/background/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackgroundRepository defines storage operations for background images.
type BackgroundRepository interface {
	Create(background *bgdomain.Background) error
	FindAllMetadata() ([]bgdomain.Background, error)
	FindByCleanMetadata(clean bool) ([]bgdomain.Background, error)
	FindByID(id string) (*bgdomain.Background, error)
	UpdateClean(id string, clean bool) error
	Delete(id string) error
}

// ErrNotFound is returned by targeted updates when no row matches.
var ErrNotFound = errors.New("background not found")

// backgroundRepository implements BackgroundRepository interface
type backgroundRepository struct {
	db *gorm.DB
}

// NewBackgroundRepository creates a new instance of backgroundRepository
func NewBackgroundRepository(db *gorm.DB) BackgroundRepository {
	return &backgroundRepository{db: db}
}

func (r *backgroundRepository) Create(background *bgdomain.Background) error {
	if background.ID == "" {
		background.ID = uuid.New().String()
	}
	background.CreatedAt = time.Now()
	background.UpdatedAt = time.Now()
	return r.db.Create(background).Error
}

// FindAllMetadata lists backgrounds without loading the image bytes.
func (r *backgroundRepository) FindAllMetadata() ([]bgdomain.Background, error) {
	var backgrounds []bgdomain.Background
	err := r.db.
		Select("id", "filename", "content_type", "clean", "size", "created_at", "updated_at").
		Order("created_at DESC").
		Find(&backgrounds).Error
	return backgrounds, err
}

// FindByCleanMetadata lists backgrounds on one side of the curation flag,
// without loading the image bytes.
func (r *backgroundRepository) FindByCleanMetadata(clean bool) ([]bgdomain.Background, error) {
	var backgrounds []bgdomain.Background
	err := r.db.
		Select("id", "filename", "content_type", "clean", "size", "created_at", "updated_at").
		Where("clean = ?", clean).
		Order("created_at DESC").
		Find(&backgrounds).Error
	return backgrounds, err
}

func (r *backgroundRepository) FindByID(id string) (*bgdomain.Background, error) {
	var background bgdomain.Background
	err := r.db.Where("id = ?", id).First(&background).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &background, nil
}

func (r *backgroundRepository) UpdateClean(id string, clean bool) error {
	result := r.db.Model(&bgdomain.Background{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"clean": clean, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *backgroundRepository) Delete(id string) error {
	return r.db.Delete(&bgdomain.Background{}, "id = ?", id).Error
}
