package usecase

import (
	"fmt"

	quotedomain "quotepush-backend/internal/quote/domain"
	"quotepush-backend/internal/quote/repository"
)

// AuthorInput carries the fields accepted when creating or updating an author.
type AuthorInput struct {
	Name string `json:"name" binding:"required"`
}

// AuthorUsecase exposes author operations to the HTTP layer.
type AuthorUsecase interface {
	Create(input *AuthorInput) (*quotedomain.Author, error)
	GetAll() ([]quotedomain.Author, error)
	GetByID(id string) (*quotedomain.Author, error)
	Update(id string, input *AuthorInput) (*quotedomain.Author, error)
	Delete(id string) error
}

// authorUsecase implements AuthorUsecase interface
type authorUsecase struct {
	authorRepo repository.AuthorRepository
}

// NewAuthorUsecase creates a new instance of authorUsecase
func NewAuthorUsecase(authorRepo repository.AuthorRepository) AuthorUsecase {
	return &authorUsecase{authorRepo: authorRepo}
}

func (u *authorUsecase) Create(input *AuthorInput) (*quotedomain.Author, error) {
	author := &quotedomain.Author{Name: input.Name}
	if err := u.authorRepo.Create(author); err != nil {
		return nil, err
	}
	return author, nil
}

func (u *authorUsecase) GetAll() ([]quotedomain.Author, error) {
	return u.authorRepo.FindAll()
}

func (u *authorUsecase) GetByID(id string) (*quotedomain.Author, error) {
	author, err := u.authorRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("author with ID %s: %w", id, ErrNotFound)
	}
	return author, nil
}

func (u *authorUsecase) Update(id string, input *AuthorInput) (*quotedomain.Author, error) {
	author, err := u.GetByID(id)
	if err != nil {
		return nil, err
	}
	author.Name = input.Name
	if err := u.authorRepo.Update(author); err != nil {
		return nil, err
	}
	return author, nil
}

func (u *authorUsecase) Delete(id string) error {
	if _, err := u.GetByID(id); err != nil {
		return err
	}
	return u.authorRepo.Delete(id)
}
