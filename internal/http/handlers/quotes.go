package handlers

import (
	"net/http"
	"strings"

	intconfig "charterdesk/internal/config"
	"charterdesk/internal/domain"
	"charterdesk/internal/http/middleware"
	"charterdesk/internal/repositories"
	"charterdesk/internal/services"

	"github.com/gin-gonic/gin"
)

func quoteRepo() repositories.QuoteRepository {
	return repositories.QuoteRepository{DB: intconfig.DB}
}

func quoteService(c *gin.Context) services.QuoteService {
	return services.QuoteService{
		Repo:      quoteRepo(),
		RequestID: middleware.GetRequestID(c),
	}
}

type quotePayload struct {
	ContactID        int64                `json:"contactId" binding:"required"`
	Legs             []domain.Leg         `json:"legs"`
	Options          []domain.QuoteOption `json:"options"`
	Services         []domain.ServiceLine `json:"services"`
	Taxes            []domain.TaxLine     `json:"taxes"`
	SelectedOptionID string               `json:"selectedOptionId"`
	FetEnabled       bool                 `json:"fetEnabled"`
	ServiceTaxOn     bool                 `json:"serviceTaxEnabled"`
	Notes            string               `json:"notes"`
}

func (p quotePayload) toQuote() domain.Quote {
	return domain.Quote{
		ContactID:        p.ContactID,
		Status:           domain.QuoteStatusDraft,
		Legs:             p.Legs,
		Options:          p.Options,
		Services:         p.Services,
		Taxes:            p.Taxes,
		SelectedOptionID: p.SelectedOptionID,
		FetEnabled:       p.FetEnabled,
		ServiceTaxOn:     p.ServiceTaxOn,
		Notes:            p.Notes,
	}
}

// GET /api/quotes?q=&page=&limit=
func GetQuotes(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	page, limit := pageParams(c)

	list, err := quoteRepo().List(q, page, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load quotes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": list, "pagination": domain.Pagination{Page: page, PageSize: limit, Total: len(list)}})
}

// GET /api/quotes/:id
func GetQuoteByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	q, err := quoteRepo().GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q})
}

// POST /api/quotes. A new quote always starts as a draft; system tax lines
// are reconciled right after the insert.
func CreateQuote(c *gin.Context) {
	var req quotePayload
	if !BindJSONOrError(c, &req) {
		return
	}

	id, err := quoteRepo().Create(req.toQuote())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	q, err := quoteService(c).Reconcile(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"quote": q})
}

// PUT /api/quotes/:id. Published quotes are read-only.
func UpdateQuote(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req quotePayload
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := quoteRepo()
	current, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if current.Published() {
		respondError(c, http.StatusConflict, "conflict", "published quotes are read-only", nil)
		return
	}

	if err := repo.Update(id, req.toQuote()); err != nil {
		RespondDomainError(c, err)
		return
	}

	q, err := quoteService(c).Reconcile(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q})
}

// DELETE /api/quotes/:id
func DeleteQuote(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := quoteRepo().Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quote deleted"})
}

// GET /api/quotes/:id/totals
func GetQuoteTotals(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	totals, err := quoteService(c).Totals(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

type toggleFeesRequest struct {
	Enabled bool `json:"enabled"`
}

// PUT /api/quotes/:id/options/:optionId/fees flips the option's fee list.
// Turning fees on recomputes the auto-calculated FET fee from the operator
// cost; hand-edited fees keep their amounts.
func ToggleQuoteOptionFees(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	optionID := strings.TrimSpace(c.Param("optionId"))
	if optionID == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "option id is required", nil)
		return
	}
	var req toggleFeesRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	q, err := quoteService(c).ToggleFees(id, optionID, req.Enabled)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q})
}

type publishRequest struct {
	ExpiresAt string `json:"expiresAt"`
}

// POST /api/quotes/:id/publish
func PublishQuote(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req publishRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	q, err := quoteService(c).Publish(id, req.ExpiresAt)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q})
}

// GET /api/quotes/shared/:token is the read-only view of a published quote.
func GetSharedQuote(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "token is required", nil)
		return
	}
	q, err := quoteRepo().GetByToken(token)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	totals, err := quoteService(c).Totals(q.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q, "totals": totals})
}

func docsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		QuoteRepo:    quoteRepo(),
		AircraftRepo: repositories.AircraftRepository{DB: intconfig.DB},
		RequestID:    middleware.GetRequestID(c),
	}
}

// GET /api/quotes/:id/proposal returns the proposal PDF (inline).
func GetQuoteProposalPDF(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	pdfBytes, filename, err := docsService(c).GenerateProposal(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/quotes/:id/invoice returns the invoice PDF, published quotes only.
func GetQuoteInvoicePDF(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	pdfBytes, filename, err := docsService(c).GenerateInvoice(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
