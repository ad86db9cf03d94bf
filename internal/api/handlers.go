package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"proposal_ai_server/internal/export"
	"proposal_ai_server/internal/orchestrator"
	"proposal_ai_server/internal/proposal"
	"proposal_ai_server/internal/render"
	"proposal_ai_server/internal/session"
	"proposal_ai_server/internal/types"
	"proposal_ai_server/internal/utils"

	"github.com/gin-gonic/gin"
)

// ProposalGenerator turns project notes into a finished proposal.
type ProposalGenerator interface {
	Generate(ctx context.Context, notes string) (*proposal.Document, orchestrator.Report, error)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator ProposalGenerator
	store     *session.Store
	exporter  *export.Exporter
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(generator ProposalGenerator, store *session.Store, exporter *export.Exporter) *APIHandler {
	return &APIHandler{
		generator: generator,
		store:     store,
		exporter:  exporter,
	}
}

// --- API Handlers ---

// GET /
func (h *APIHandler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, render.IndexData{SessionID: c.Query("session")})
}

// POST /proposal/generate
func (h *APIHandler) GenerateProposal(c *gin.Context) {
	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	id, doc, report, err := h.generate(c.Request.Context(), req)
	if err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg, "sessionId": id})
		return
	}

	c.JSON(http.StatusCreated, types.GenerateResponse{SessionID: id, Proposal: doc, Images: report})
}

// POST /generate
func (h *APIHandler) GenerateForm(c *gin.Context) {
	var req types.GenerateRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderIndex(c, http.StatusBadRequest, render.IndexData{Notes: req.Notes, Error: "Invalid form: " + err.Error()})
		return
	}

	id, _, _, err := h.generate(c.Request.Context(), req)
	if err != nil {
		status, msg := errorStatus(err)
		h.renderIndex(c, status, render.IndexData{SessionID: id, Notes: req.Notes, Error: msg})
		return
	}

	c.Redirect(http.StatusSeeOther, "/proposal/"+id+"/preview")
}

// generate owns the session for the length of one generation. Blank notes
// are rejected before the session is touched so its current document
// survives.
func (h *APIHandler) generate(ctx context.Context, req types.GenerateRequest) (string, *proposal.Document, orchestrator.Report, error) {
	if strings.TrimSpace(req.Notes) == "" {
		return req.SessionID, nil, orchestrator.Report{}, orchestrator.ErrEmptyInput
	}

	ticket, err := h.store.Begin(req.SessionID)
	if err != nil {
		return req.SessionID, nil, orchestrator.Report{}, err
	}
	log.Printf("Received generation request for session %s", ticket.ID)

	doc, report, err := h.generator.Generate(ctx, req.Notes)
	if err != nil {
		log.Printf("Error generating proposal for session %s: %v", ticket.ID, err)
		_, msg := errorStatus(err)
		if failErr := h.store.Fail(ticket, msg); failErr != nil {
			log.Printf("WARN: Session %s was reset during generation", ticket.ID)
		}
		return ticket.ID, nil, report, err
	}
	if err := h.store.Complete(ticket, doc); err != nil {
		log.Printf("WARN: Session %s was reset during generation; dropping result", ticket.ID)
		return ticket.ID, nil, report, err
	}

	log.Printf("Proposal generation successful for session %s: %d sections, %d/%d images",
		ticket.ID, len(doc.Sections), report.ImagesGenerated, report.ImagesRequested)
	return ticket.ID, doc, report, nil
}

// GET /proposal/:id
func (h *APIHandler) GetProposal(c *gin.Context) {
	doc, ok := h.document(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /proposal/:id/status
func (h *APIHandler) GetStatus(c *gin.Context) {
	snap, err := h.store.Get(c.Param("id"))
	if err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	resp := types.StatusResponse{
		SessionID: snap.ID,
		State:     string(snap.State),
		Error:     snap.Error,
		UpdatedAt: snap.UpdatedAt,
	}
	if snap.Document != nil {
		resp.Pages = snap.Document.PageCount()
	}
	c.JSON(http.StatusOK, resp)
}

// GET /proposal/:id/preview
func (h *APIHandler) Preview(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.store.Document(id)
	if err != nil {
		status, msg := errorStatus(err)
		h.renderIndex(c, status, render.IndexData{SessionID: id, Error: msg})
		return
	}

	page, err := render.Page(id, doc)
	if err != nil {
		log.Printf("Error rendering preview for session %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render proposal"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// GET /proposal/:id/export
func (h *APIHandler) ExportHTML(c *gin.Context) {
	h.download(c, h.exporter.ExportDocument)
}

// GET /proposal/:id/pdf
func (h *APIHandler) ExportPDF(c *gin.Context) {
	h.download(c, h.exporter.PDF)
}

func (h *APIHandler) download(c *gin.Context, build func(context.Context, *proposal.Document) (*export.Result, error)) {
	doc, ok := h.document(c)
	if !ok {
		return
	}

	res, err := build(c.Request.Context(), doc)
	if err != nil {
		log.Printf("Error exporting proposal %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export proposal"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

// DELETE /proposal/:id
func (h *APIHandler) ResetProposal(c *gin.Context) {
	if err := h.store.Reset(c.Param("id")); err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.Status(http.StatusNoContent)
}

// document writes the error response itself when the session has no proposal.
func (h *APIHandler) document(c *gin.Context) (*proposal.Document, bool) {
	doc, err := h.store.Document(c.Param("id"))
	if err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return nil, false
	}
	return doc, true
}

func (h *APIHandler) renderIndex(c *gin.Context, status int, data render.IndexData) {
	page, err := render.Index(data)
	if err != nil {
		log.Printf("Error rendering index: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render page"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", page)
}

// errorStatus maps an error to its HTTP status and the message shown to the user.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, orchestrator.ErrEmptyInput):
		return http.StatusBadRequest, "Please enter some project notes first."
	case errors.Is(err, session.ErrGenerationInFlight):
		return http.StatusConflict, "A proposal is already being generated for this session."
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "Proposal session not found."
	case errors.Is(err, session.ErrNoDocument):
		return http.StatusNotFound, "No proposal has been generated for this session yet."
	case utils.IsTransient(err):
		return http.StatusServiceUnavailable, "The AI service is temporarily unavailable. Please try again."
	default:
		return http.StatusBadGateway, "Failed to generate proposal: " + err.Error()
	}
}
