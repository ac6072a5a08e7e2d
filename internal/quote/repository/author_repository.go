package repository

import (
	"errors"
	"time"

	quotedomain "quotepush-backend/internal/quote/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthorRepository defines storage operations for authors.
type AuthorRepository interface {
	Create(author *quotedomain.Author) error
	FindAll() ([]quotedomain.Author, error)
	FindByID(id string) (*quotedomain.Author, error)
	Update(author *quotedomain.Author) error
	Delete(id string) error
	Exists(id string) (bool, error)
}

// authorRepository implements AuthorRepository interface
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new instance of authorRepository
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(author *quotedomain.Author) error {
	if author.ID == "" {
		author.ID = uuid.New().String()
	}
	author.CreatedAt = time.Now()
	author.UpdatedAt = time.Now()
	return r.db.Create(author).Error
}

func (r *authorRepository) FindAll() ([]quotedomain.Author, error) {
	var authors []quotedomain.Author
	err := r.db.Order("name ASC").Find(&authors).Error
	return authors, err
}

func (r *authorRepository) FindByID(id string) (*quotedomain.Author, error) {
	var author quotedomain.Author
	err := r.db.Where("id = ?", id).First(&author).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) Update(author *quotedomain.Author) error {
	author.UpdatedAt = time.Now()
	return r.db.Save(author).Error
}

func (r *authorRepository) Delete(id string) error {
	return r.db.Delete(&quotedomain.Author{}, "id = ?", id).Error
}

func (r *authorRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&quotedomain.Author{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
