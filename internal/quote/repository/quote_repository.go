package repository

import (
	"errors"
	"math/rand"
	"time"

	quotedomain "quotepush-backend/internal/quote/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteRepository defines storage operations for quotes.
type QuoteRepository interface {
	Create(quote *quotedomain.Quote) error
	FindAll() ([]quotedomain.Quote, error)
	FindByID(id string) (*quotedomain.Quote, error)
	FindByAuthorID(authorID string) ([]quotedomain.Quote, error)
	FindRandom() (*quotedomain.Quote, error)
	Update(quote *quotedomain.Quote) error
	Delete(id string) error
}

// quoteRepository implements QuoteRepository interface
type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new instance of quoteRepository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(quote *quotedomain.Quote) error {
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}
	quote.CreatedAt = time.Now()
	quote.UpdatedAt = time.Now()
	return r.db.Create(quote).Error
}

func (r *quoteRepository) FindAll() ([]quotedomain.Quote, error) {
	var quotes []quotedomain.Quote
	err := r.db.Preload("Author").Order("created_at DESC").Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepository) FindByID(id string) (*quotedomain.Quote, error) {
	var quote quotedomain.Quote
	err := r.db.Preload("Author").Where("id = ?", id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) FindByAuthorID(authorID string) ([]quotedomain.Quote, error) {
	var quotes []quotedomain.Quote
	err := r.db.Preload("Author").Where("author_id = ?", authorID).Find(&quotes).Error
	return quotes, err
}

// FindRandom returns one quote picked uniformly over the full set, with the
// author preloaded. Returns (nil, nil) when no quotes are stored.
func (r *quoteRepository) FindRandom() (*quotedomain.Quote, error) {
	var total int64
	if err := r.db.Model(&quotedomain.Quote{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	var quote quotedomain.Quote
	offset := rand.Intn(int(total))
	err := r.db.Preload("Author").Order("id").Offset(offset).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) Update(quote *quotedomain.Quote) error {
	quote.UpdatedAt = time.Now()
	return r.db.Save(quote).Error
}

func (r *quoteRepository) Delete(id string) error {
	return r.db.Delete(&quotedomain.Quote{}, "id = ?", id).Error
}
