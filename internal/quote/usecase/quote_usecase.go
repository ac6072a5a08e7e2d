package usecase

import (
	"errors"
	"fmt"

	quotedomain "quotepush-backend/internal/quote/domain"
	"quotepush-backend/internal/quote/repository"
)

// ErrNotFound reports a missing quote or author.
var ErrNotFound = errors.New("not found")

// CreateQuoteInput carries the fields accepted when creating or updating a quote.
type CreateQuoteInput struct {
	Text        string `json:"quote" binding:"required"`
	Description string `json:"description"`
	AuthorID    string `json:"author" binding:"required"`
}

// UpdateQuoteInput carries optional quote fields; empty values are left untouched.
type UpdateQuoteInput struct {
	Text        string `json:"quote"`
	Description string `json:"description"`
	AuthorID    string `json:"author"`
}

// QuoteUsecase exposes quote operations to the HTTP layer and the scheduler.
type QuoteUsecase interface {
	Create(input *CreateQuoteInput) (*quotedomain.Quote, error)
	GetAll() ([]quotedomain.Quote, error)
	GetByID(id string) (*quotedomain.Quote, error)
	GetByAuthor(authorID string) ([]quotedomain.Quote, error)
	GetRandom() (*quotedomain.Quote, error)
	Update(id string, input *UpdateQuoteInput) (*quotedomain.Quote, error)
	Delete(id string) error
}

// quoteUsecase implements QuoteUsecase interface
type quoteUsecase struct {
	quoteRepo  repository.QuoteRepository
	authorRepo repository.AuthorRepository
}

// NewQuoteUsecase creates a new instance of quoteUsecase
func NewQuoteUsecase(quoteRepo repository.QuoteRepository, authorRepo repository.AuthorRepository) QuoteUsecase {
	return &quoteUsecase{
		quoteRepo:  quoteRepo,
		authorRepo: authorRepo,
	}
}

func (u *quoteUsecase) ensureAuthorExists(authorID string) error {
	exists, err := u.authorRepo.Exists(authorID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("author with ID %s: %w", authorID, ErrNotFound)
	}
	return nil
}

func (u *quoteUsecase) Create(input *CreateQuoteInput) (*quotedomain.Quote, error) {
	if err := u.ensureAuthorExists(input.AuthorID); err != nil {
		return nil, err
	}

	quote := &quotedomain.Quote{
		Text:        input.Text,
		Description: input.Description,
		AuthorID:    input.AuthorID,
	}
	if err := u.quoteRepo.Create(quote); err != nil {
		return nil, err
	}
	return u.quoteRepo.FindByID(quote.ID)
}

func (u *quoteUsecase) GetAll() ([]quotedomain.Quote, error) {
	return u.quoteRepo.FindAll()
}

func (u *quoteUsecase) GetByID(id string) (*quotedomain.Quote, error) {
	quote, err := u.quoteRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, fmt.Errorf("quote with ID %s: %w", id, ErrNotFound)
	}
	return quote, nil
}

func (u *quoteUsecase) GetByAuthor(authorID string) ([]quotedomain.Quote, error) {
	return u.quoteRepo.FindByAuthorID(authorID)
}

// GetRandom returns one uniformly random quote, or nil when none are stored.
func (u *quoteUsecase) GetRandom() (*quotedomain.Quote, error) {
	return u.quoteRepo.FindRandom()
}

func (u *quoteUsecase) Update(id string, input *UpdateQuoteInput) (*quotedomain.Quote, error) {
	quote, err := u.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.AuthorID != "" {
		if err := u.ensureAuthorExists(input.AuthorID); err != nil {
			return nil, err
		}
		quote.AuthorID = input.AuthorID
		quote.Author = nil
	}
	if input.Text != "" {
		quote.Text = input.Text
	}
	if input.Description != "" {
		quote.Description = input.Description
	}

	if err := u.quoteRepo.Update(quote); err != nil {
		return nil, err
	}
	return u.quoteRepo.FindByID(id)
}

func (u *quoteUsecase) Delete(id string) error {
	quote, err := u.quoteRepo.FindByID(id)
	if err != nil {
		return err
	}
	if quote == nil {
		return fmt.Errorf("quote with ID %s: %w", id, ErrNotFound)
	}
	return u.quoteRepo.Delete(id)
}
