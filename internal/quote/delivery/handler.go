package delivery

import (
	"errors"
	"net/http"

	"quotepush-backend/internal/quote/usecase"

	"github.com/gin-gonic/gin"
)

// QuoteHandler serves the quote and author REST routes.
type QuoteHandler struct {
	quoteUsecase  usecase.QuoteUsecase
	authorUsecase usecase.AuthorUsecase
}

// NewQuoteHandler creates a new instance of QuoteHandler
func NewQuoteHandler(quoteUsecase usecase.QuoteUsecase, authorUsecase usecase.AuthorUsecase) *QuoteHandler {
	return &QuoteHandler{
		quoteUsecase:  quoteUsecase,
		authorUsecase: authorUsecase,
	}
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// CreateQuote handles POST /api/quotes
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var input usecase.CreateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.quoteUsecase.Create(&input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

// GetQuotes handles GET /api/quotes
func (h *QuoteHandler) GetQuotes(c *gin.Context) {
	quotes, err := h.quoteUsecase.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// GetRandomQuote handles GET /api/quotes/random
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	quote, err := h.quoteUsecase.GetRandom()
	if err != nil {
		respondError(c, err)
		return
	}
	if quote == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no quotes found"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetQuote handles GET /api/quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.quoteUsecase.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// UpdateQuote handles PUT /api/quotes/:id
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	var input usecase.UpdateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.quoteUsecase.Update(c.Param("id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// DeleteQuote handles DELETE /api/quotes/:id
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	if err := h.quoteUsecase.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quote deleted"})
}

// CreateAuthor handles POST /api/authors
func (h *QuoteHandler) CreateAuthor(c *gin.Context) {
	var input usecase.AuthorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, err := h.authorUsecase.Create(&input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

// GetAuthors handles GET /api/authors
func (h *QuoteHandler) GetAuthors(c *gin.Context) {
	authors, err := h.authorUsecase.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

// GetAuthor handles GET /api/authors/:id
func (h *QuoteHandler) GetAuthor(c *gin.Context) {
	author, err := h.authorUsecase.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// GetAuthorQuotes handles GET /api/authors/:id/quotes
func (h *QuoteHandler) GetAuthorQuotes(c *gin.Context) {
	quotes, err := h.quoteUsecase.GetByAuthor(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// UpdateAuthor handles PUT /api/authors/:id
func (h *QuoteHandler) UpdateAuthor(c *gin.Context) {
	var input usecase.AuthorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, err := h.authorUsecase.Update(c.Param("id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// DeleteAuthor handles DELETE /api/authors/:id
func (h *QuoteHandler) DeleteAuthor(c *gin.Context) {
	if err := h.authorUsecase.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "author deleted"})
}
