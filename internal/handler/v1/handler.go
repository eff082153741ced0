package v1

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/report"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/scoring"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/service"
)

type calculator interface {
	Calculate(ctx context.Context, tool domain.Tool, payload []byte) (service.Outcome, error)
}

type sessionStore interface {
	Create() (uuid.UUID, *report.Report)
	Get(id uuid.UUID) (*report.Report, error)
	Delete(id uuid.UUID) error
}

type historyReader interface {
	Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error)
	BySession(ctx context.Context, sessionID uuid.UUID) ([]domain.CalculationRecord, error)
}

type authenticator interface {
	tokenAuthenticator
	Login(ctx context.Context, station, passphrase, ip string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

type Handler struct {
	calc     calculator
	sessions sessionStore
	history  historyReader
	auth     authenticator
}

func NewHandler(calc calculator, sessions sessionStore, history historyReader, auth authenticator) *Handler {
	return &Handler{calc: calc, sessions: sessions, history: history, auth: auth}
}

type loginRequest struct {
	Station    string `json:"station"`
	Passphrase string `json:"passphrase" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Station, req.Passphrase, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, pair)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, pair)
}

func (h *Handler) ListTools(c *gin.Context) {
	respondOK(c, service.Menu())
}

func (h *Handler) Score(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "unable to read request body")
		return
	}

	ctx := c.Request.Context()
	if claims := claimsFrom(c); claims != nil {
		ctx = service.WithOperator(ctx, claims.Subject)
	}

	out, err := h.calc.Calculate(ctx, domain.Tool(c.Param("tool")), payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

func (h *Handler) AllReferenceRanges(c *gin.Context) {
	all := make(map[scoring.Category][]scoring.RangeEntry)
	for _, cat := range scoring.Categories() {
		entries, err := scoring.ReferenceRanges(cat)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		all[cat] = entries
	}
	respondOK(c, all)
}

func (h *Handler) ReferenceRanges(c *gin.Context) {
	entries, err := scoring.ReferenceRanges(scoring.Category(c.Param("category")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entries)
}

func (h *Handler) CreateSession(c *gin.Context) {
	id, _ := h.sessions.Create()
	respondCreated(c, gin.H{"session_id": id})
}

func (h *Handler) SessionReport(c *gin.Context) {
	rep, ok := h.loadSession(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := rep.WriteText(&buf); err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to render report")
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (h *Handler) SessionReportXLSX(c *gin.Context) {
	rep, ok := h.loadSession(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := rep.WriteXLSX(&buf); err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to render report")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="nexus-report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *Handler) DeleteSession(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.sessions.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) History(c *gin.Context) {
	records, err := h.history.Recent(c.Request.Context(), parseQueryInt(c, "limit", 50))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, records)
}

// SessionHistory lists the persisted records of a session. It reads the
// store, so it still answers after the session itself was closed.
func (h *Handler) SessionHistory(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	records, err := h.history.BySession(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, records)
}

func (h *Handler) loadSession(c *gin.Context) (*report.Report, bool) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return nil, false
	}
	rep, err := h.sessions.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return rep, true
}
