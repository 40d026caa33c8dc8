package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/herbolab/submission-workflow/internal/application/service"
	appworkflow "github.com/herbolab/submission-workflow/internal/application/workflow"
	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
	"github.com/herbolab/submission-workflow/internal/domain/workflow"
	"github.com/herbolab/submission-workflow/internal/infrastructure/settings"
	"github.com/herbolab/submission-workflow/pkg/utils"
)

// actorRoleHeader carries the caller's workflow role on mutating requests
const actorRoleHeader = "X-Actor-Role"

// Handlers contains all HTTP request handlers
type Handlers struct {
	submissionService   service.SubmissionService
	documentService     service.DocumentService
	notificationService service.NotificationService
	orchestrator        *appworkflow.Orchestrator
	contentRouter       *workflow.Router
	settingsService     *settings.Service
	logger              Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	submissionService service.SubmissionService,
	documentService service.DocumentService,
	notificationService service.NotificationService,
	orchestrator *appworkflow.Orchestrator,
	contentRouter *workflow.Router,
	settingsService *settings.Service,
	logger Logger,
) *Handlers {
	return &Handlers{
		submissionService:   submissionService,
		documentService:     documentService,
		notificationService: notificationService,
		orchestrator:        orchestrator,
		contentRouter:       contentRouter,
		settingsService:     settingsService,
		logger:              logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// PhaseStepResponse describes one phase in the workflow stepper
type PhaseStepResponse struct {
	Name            string `json:"name"`
	Label           string `json:"label"`
	Icon            string `json:"icon"`
	Description     string `json:"description,omitempty"`
	ProgressPercent int    `json:"progress_percent"`
	Current         bool   `json:"current"`
	Completed       bool   `json:"completed"`
}

// WorkflowResponse is the full workflow view for a submission
type WorkflowResponse struct {
	SubmissionID    int64                `json:"submission_id"`
	CurrentPhase    string               `json:"current_phase"`
	ProgressPercent int                  `json:"progress_percent"`
	Terminal        bool                 `json:"terminal"`
	CanAdvance      bool                 `json:"can_advance"`
	Blockers        []string             `json:"blockers"`
	Phases          []PhaseStepResponse  `json:"phases"`
	Content         workflow.ContentView `json:"content"`
}

// AdvanceResponse reports the outcome of an advancement attempt
type AdvanceResponse struct {
	Outcome string   `json:"outcome"`
	Phase   string   `json:"phase,omitempty"`
	Reasons []string `json:"reasons,omitempty"`
	Message string   `json:"message,omitempty"`
}

// CreateSubmissionRequest is the payload for registering a new submission
type CreateSubmissionRequest struct {
	CaseNumber    string             `json:"case_number" binding:"required"`
	PoliceOfficer string             `json:"police_officer"`
	PoliceStation string             `json:"police_station"`
	Defendants    []entity.Defendant `json:"defendants"`
	ReceivedAt    time.Time          `json:"received_at"`
}

// AssignPersonnelRequest assigns the botanist and finance officer
type AssignPersonnelRequest struct {
	ApprovedBotanistID *int64 `json:"approved_botanist_id"`
	FinanceOfficerID   *int64 `json:"finance_officer_id"`
}

// AddBagRequest is the payload for adding an evidence bag
type AddBagRequest struct {
	LabNumber    string  `json:"lab_number" binding:"required"`
	GrossWeightG float64 `json:"gross_weight_g"`
	NetWeightG   float64 `json:"net_weight_g"`
}

// AssessmentRequest records a botanist's determination for a bag
type AssessmentRequest struct {
	Determination string `json:"determination" binding:"required"`
	Notes         string `json:"notes"`
	AssessedBy    *int64 `json:"assessed_by"`
}

// AdvanceRequest carries the confirmation flag for a phase advancement
type AdvanceRequest struct {
	Confirmed bool `json:"confirmed"`
}

// SendBackRequest names the earlier phase to return to and why
type SendBackRequest struct {
	Target string `json:"target" binding:"required"`
	Reason string `json:"reason"`
}

// DispatchRequest names the recipients for the submission's outbound emails
type DispatchRequest struct {
	CertificateRecipient string `json:"certificate_recipient" binding:"required"`
	InvoiceRecipient     string `json:"invoice_recipient" binding:"required"`
}

// ListSubmissionsRequest represents query parameters for listing submissions
type ListSubmissionsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateSubmission handles POST /api/submissions
func (h *Handlers) CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	if err := utils.ValidateCaseNumber(req.CaseNumber); err != nil {
		h.badRequest(c, err.Error(), err)
		return
	}

	receivedAt := req.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	sub, err := h.submissionService.Create(c.Request.Context(), service.CreateSubmissionInput{
		CaseNumber:    req.CaseNumber,
		PoliceOfficer: utils.SanitizeString(req.PoliceOfficer),
		PoliceStation: utils.SanitizeString(req.PoliceStation),
		Defendants:    req.Defendants,
		ReceivedAt:    receivedAt,
	})
	if err != nil {
		h.logger.Error("Failed to create submission", "case_number", req.CaseNumber, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to create submission",
		})
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    sub,
	})
}

// ListSubmissions handles GET /api/submissions
func (h *Handlers) ListSubmissions(c *gin.Context) {
	var req ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters", err)
		return
	}

	// Set defaults
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	submissions, err := h.submissionService.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.logger.Error("Failed to list submissions", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve submissions",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    submissions,
	})
}

// GetSubmission handles GET /api/submissions/:id
func (h *Handlers) GetSubmission(c *gin.Context) {
	sub, ok := h.loadSubmission(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    sub,
	})
}

// AssignPersonnel handles PUT /api/submissions/:id/personnel
func (h *Handlers) AssignPersonnel(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req AssignPersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	err := h.submissionService.AssignPersonnel(c.Request.Context(), id, req.ApprovedBotanistID, req.FinanceOfficerID)
	if h.serviceError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// FinalizeDraft handles POST /api/submissions/:id/finalize
func (h *Handlers) FinalizeDraft(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	err := h.submissionService.FinalizeDraft(c.Request.Context(), id)
	if h.serviceError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// AddBag handles POST /api/submissions/:id/bags
func (h *Handlers) AddBag(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req AddBagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	bag := &entity.DrugBag{
		SubmissionID: id,
		LabNumber:    req.LabNumber,
		GrossWeightG: req.GrossWeightG,
		NetWeightG:   req.NetWeightG,
	}

	err := h.submissionService.AddBag(c.Request.Context(), id, bag)
	if h.serviceError(c, id, err) {
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    bag,
	})
}

// RemoveBag handles DELETE /api/submissions/:id/bags/:bagID
func (h *Handlers) RemoveBag(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	bagID, ok := h.parseID(c, "bagID")
	if !ok {
		return
	}

	err := h.submissionService.RemoveBag(c.Request.Context(), id, bagID)
	if h.serviceError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// RecordAssessment handles PUT /api/submissions/:id/bags/:bagID/assessment
func (h *Handlers) RecordAssessment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	bagID, ok := h.parseID(c, "bagID")
	if !ok {
		return
	}

	var req AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	now := time.Now().UTC()
	assessment := &entity.Assessment{
		Determination: req.Determination,
		Notes:         utils.SanitizeString(req.Notes),
		AssessedBy:    req.AssessedBy,
		AssessedAt:    &now,
	}

	err := h.submissionService.RecordAssessment(c.Request.Context(), id, bagID, assessment)
	if errors.Is(err, service.ErrInvalidDetermination) {
		h.badRequest(c, err.Error(), err)
		return
	}
	if h.serviceError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// GetWorkflow handles GET /api/submissions/:id/workflow. The optional
// "phase" query parameter selects which phase's content to render; it
// defaults to the submission's current phase.
func (h *Handlers) GetWorkflow(c *gin.Context) {
	sub, ok := h.loadSubmission(c)
	if !ok {
		return
	}

	role := h.actorRole(c)
	canEdit := phase.CanAdvance(sub.Phase, role)

	phaseViewed := sub.Phase
	if raw := c.Query("phase"); raw != "" {
		phaseViewed = phase.Phase(raw)
		if !phaseViewed.IsValid() {
			h.badRequest(c, "unknown phase: "+raw, nil)
			return
		}
	}

	content, err := h.contentRouter.Render(sub, phaseViewed, canEdit)
	if err != nil {
		// Recoverable schema drift: serve a bare view rather than failing
		// the whole workflow screen.
		h.logger.Warn("No content handler for phase, serving fallback",
			"submission_id", sub.ID, "phase", phaseViewed.String(), "error", err)
		content = workflow.ContentView{
			Phase: phaseViewed,
			Mode:  workflow.ViewHistorical,
		}
	}

	steps := make([]PhaseStepResponse, 0, phase.Count())
	for _, p := range phase.Ordered() {
		steps = append(steps, PhaseStepResponse{
			Name:            p.String(),
			Label:           p.DisplayName(),
			Icon:            p.Icon(),
			Description:     p.Description(),
			ProgressPercent: p.ProgressPercent(),
			Current:         p == sub.Phase,
			Completed:       p.Before(sub.Phase),
		})
	}

	blockers := workflow.Blockers(sub, sub.Phase)

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: WorkflowResponse{
			SubmissionID:    sub.ID,
			CurrentPhase:    sub.Phase.String(),
			ProgressPercent: sub.Phase.ProgressPercent(),
			Terminal:        sub.Phase.IsTerminal(),
			CanAdvance:      canEdit && len(blockers) == 0,
			Blockers:        blockers,
			Phases:          steps,
			Content:         content,
		},
	})
}

// AdvancePhase handles POST /api/submissions/:id/advance. The caller's role
// comes from the X-Actor-Role header; the request body's confirmed flag is
// the confirmation gate.
func (h *Handlers) AdvancePhase(c *gin.Context) {
	sub, ok := h.loadSubmission(c)
	if !ok {
		return
	}

	var req AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	role := h.actorRole(c)
	if !phase.CanAdvance(sub.Phase, role) {
		h.logger.Warn("Advancement denied by phase policy",
			"submission_id", sub.ID, "phase", sub.Phase.String(), "role", role.String())
		c.JSON(http.StatusForbidden, Response{
			Success: false,
			Error:   "role " + role.String() + " may not advance from " + sub.Phase.String(),
		})
		return
	}

	target, hasNext := sub.Phase.Next()
	if !hasNext {
		c.JSON(http.StatusConflict, Response{
			Success: false,
			Error:   "submission is already complete",
		})
		return
	}

	outcome := h.orchestrator.Advance(c.Request.Context(), sub, target,
		func(ctx context.Context) (bool, error) {
			return req.Confirmed, nil
		},
		func(ctx context.Context, submissionID int64, to phase.Phase) error {
			return h.submissionService.AdvancePhase(ctx, submissionID, to, role.String())
		},
	)

	h.writeOutcome(c, sub.ID, outcome)
}

// SendBack handles POST /api/submissions/:id/send-back
func (h *Handlers) SendBack(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req SendBackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	target := phase.Phase(req.Target)
	if !target.IsValid() {
		h.badRequest(c, "unknown phase: "+req.Target, nil)
		return
	}

	role := h.actorRole(c)
	err := h.submissionService.SendBack(c.Request.Context(), id, target, role.String(), utils.SanitizeString(req.Reason))
	if errors.Is(err, service.ErrNotEarlierPhase) || errors.Is(err, service.ErrReasonRequired) {
		h.badRequest(c, err.Error(), err)
		return
	}
	if h.serviceError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// GetHistory handles GET /api/submissions/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	transitions, err := h.submissionService.History(c.Request.Context(), id)
	if h.serviceError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    transitions,
	})
}

// GenerateCertificate handles POST /api/submissions/:id/documents/certificate
func (h *Handlers) GenerateCertificate(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.GenerateCertificate(c.Request.Context(), id)
	if h.documentError(c, id, err) {
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    doc,
	})
}

// GenerateInvoice handles POST /api/submissions/:id/documents/invoice
func (h *Handlers) GenerateInvoice(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.GenerateInvoice(c.Request.Context(), id)
	if h.documentError(c, id, err) {
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    doc,
	})
}

// ListDocuments handles GET /api/submissions/:id/documents
func (h *Handlers) ListDocuments(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	docs, err := h.documentService.ListDocuments(c.Request.Context(), id)
	if h.serviceError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    docs,
	})
}

// DispatchNotifications handles POST /api/submissions/:id/notifications
func (h *Handlers) DispatchNotifications(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	for _, recipient := range []string{req.CertificateRecipient, req.InvoiceRecipient} {
		if err := utils.ValidateEmail(recipient); err != nil {
			h.badRequest(c, err.Error(), err)
			return
		}
	}

	err := h.notificationService.Dispatch(c.Request.Context(), id, service.DispatchInput{
		CertificateRecipient: req.CertificateRecipient,
		InvoiceRecipient:     req.InvoiceRecipient,
	})
	if h.documentError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// RetryNotifications handles POST /api/submissions/:id/notifications/retry
func (h *Handlers) RetryNotifications(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	err := h.notificationService.RetryPending(c.Request.Context(), id)
	if h.documentError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ListNotifications handles GET /api/submissions/:id/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), id)
	if h.serviceError(c, id, err) {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    notifications,
	})
}

// GetSettings handles GET /api/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	result, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		var rateLimited *settings.RateLimitedError
		if errors.As(err, &rateLimited) {
			c.Header("Retry-After", strconv.Itoa(int(rateLimited.RetryAfter.Seconds())))
			c.JSON(http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   rateLimited.Error(),
			})
			return
		}

		h.logger.Error("Failed to fetch settings", "error", err)
		c.JSON(http.StatusBadGateway, Response{
			Success: false,
			Error:   "failed to fetch laboratory settings",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"settings": result,
			"state":    h.settingsService.State(),
		},
	})
}

// ResetSettings handles POST /api/settings/reset
func (h *Handlers) ResetSettings(c *gin.Context) {
	h.settingsService.Reset()
	c.JSON(http.StatusOK, Response{Success: true})
}

// writeOutcome maps an advancement outcome to an HTTP response
func (h *Handlers) writeOutcome(c *gin.Context, submissionID int64, outcome appworkflow.Outcome) {
	resp := AdvanceResponse{
		Outcome: string(outcome.Kind),
		Phase:   outcome.Phase.String(),
		Reasons: outcome.Reasons,
		Message: outcome.Message,
	}

	switch outcome.Kind {
	case appworkflow.OutcomeAdvanced:
		c.JSON(http.StatusOK, Response{Success: true, Data: resp})
	case appworkflow.OutcomeCancelled:
		// Declined confirmation is a successful no-op
		c.JSON(http.StatusOK, Response{Success: true, Data: resp})
	case appworkflow.OutcomeBlocked:
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Data:    resp,
			Error:   "advancement blocked",
		})
	case appworkflow.OutcomeAlreadyInProgress:
		c.JSON(http.StatusConflict, Response{
			Success: false,
			Data:    resp,
			Error:   "advancement already in progress",
		})
	case appworkflow.OutcomeFailed:
		h.logger.Error("Advancement failed", "submission_id", submissionID, "message", outcome.Message)
		c.JSON(http.StatusBadGateway, Response{
			Success: false,
			Data:    resp,
			Error:   "advancement failed",
		})
	default:
		h.logger.Warn("Unknown advancement outcome", "submission_id", submissionID, "kind", string(outcome.Kind))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Data:    resp,
			Error:   "unknown advancement outcome",
		})
	}
}

// actorRole reads the caller's role from the request header
func (h *Handlers) actorRole(c *gin.Context) phase.Role {
	role := phase.Role(c.GetHeader(actorRoleHeader))
	if !role.IsValid() {
		return phase.RoleNone
	}
	return role
}

// loadSubmission parses the id parameter and fetches the submission,
// writing the error response itself when either step fails
func (h *Handlers) loadSubmission(c *gin.Context) (*entity.Submission, bool) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return nil, false
	}

	sub, err := h.submissionService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, Response{
				Success: false,
				Error:   "submission not found",
			})
			return nil, false
		}
		h.logger.Error("Failed to get submission", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve submission",
		})
		return nil, false
	}

	return sub, true
}

// parseID parses a path parameter as an int64 id
func (h *Handlers) parseID(c *gin.Context, param string) (int64, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.badRequest(c, "invalid "+param, err)
		return 0, false
	}
	return id, true
}

// badRequest writes a 400 response with the given message
func (h *Handlers) badRequest(c *gin.Context, msg string, err error) {
	if err != nil {
		h.logger.Error("Bad request", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
	})
}

// serviceError maps common service errors to HTTP responses; returns true
// when a response was written
func (h *Handlers) serviceError(c *gin.Context, id int64, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "submission not found",
		})
		return true
	}
	h.logger.Error("Service call failed", "id", id, "error", err)
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error:   err.Error(),
	})
	return true
}

// documentError extends serviceError with the wrong-phase mapping used by
// document and notification operations
func (h *Handlers) documentError(c *gin.Context, id int64, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, service.ErrWrongPhase) {
		c.JSON(http.StatusConflict, Response{
			Success: false,
			Error:   err.Error(),
		})
		return true
	}
	return h.serviceError(c, id, err)
}
