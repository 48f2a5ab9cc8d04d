package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.caltib.dev/caltib/internal/api"
	"go.caltib.dev/caltib/internal/engine"
)

// Handler handles HTTP requests for calendar conversions.
type Handler struct {
	api *api.API
}

// NewHandler creates a new HTTP handler.
func NewHandler(a *api.API) *Handler {
	return &Handler{api: a}
}

// ListEngines handles GET /v1/engines.
func (h *Handler) ListEngines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"engines": h.api.ListEngines()})
}

// parseGregorianQuery reads required `engine` and `date` (YYYY-MM-DD) query
// parameters shared by several handlers.
func parseGregorianQuery(c *gin.Context) (string, engine.GregorianDate, bool) {
	name := c.Query("engine")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "engine parameter is required"})
		return "", engine.GregorianDate{}, false
	}
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter is required"})
		return "", engine.GregorianDate{}, false
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date (expected YYYY-MM-DD): %v", err)})
		return "", engine.GregorianDate{}, false
	}
	return name, engine.GregorianDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true
}

// tibetanDateResponse is the wire representation of a resolved DayInfo.
type tibetanDateResponse struct {
	Year      int64  `json:"year"`
	Month     int64  `json:"month"`
	IsLeap    bool   `json:"is_leap"`
	Tithi     int64  `json:"tithi"`
	Occ       int    `json:"occurrence"`
	Status    string `json:"status"`
	Gregorian string `json:"gregorian"`
	JDN       int64  `json:"jdn"`
}

func toResponse(info engine.DayInfo) tibetanDateResponse {
	g := info.Gregorian
	return tibetanDateResponse{
		Year:      info.Tibetan.Year,
		Month:     info.Tibetan.MonthNo,
		IsLeap:    info.Tibetan.IsLeapMonth,
		Tithi:     info.Tibetan.Tithi,
		Occ:       info.Tibetan.Occ,
		Status:    info.Status.String(),
		Gregorian: fmt.Sprintf("%04d-%02d-%02d", g.Year, g.Month, g.Day),
		JDN:       info.JDN,
	}
}

// GetDay handles GET /v1/day?engine=NAME&date=YYYY-MM-DD.
func (h *Handler) GetDay(c *gin.Context) {
	name, g, ok := parseGregorianQuery(c)
	if !ok {
		return
	}
	info, err := h.api.DayInfo(name, g)
	if err != nil {
		writeCalError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(info))
}

// GetGregorian handles GET /v1/gregorian?engine=NAME&year=Y&month=M&leap=BOOL&tithi=D&policy=POLICY.
func (h *Handler) GetGregorian(c *gin.Context) {
	name := c.Query("engine")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "engine parameter is required"})
		return
	}
	year, err := strconv.ParseInt(c.Query("year"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.ParseInt(c.Query("month"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}
	tithi, err := strconv.ParseInt(c.Query("tithi"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tithi"})
		return
	}
	isLeap := c.Query("leap") == "true"
	occ := 1
	if o := c.Query("occurrence"); o != "" {
		occ, _ = strconv.Atoi(o)
	}

	policy, err := parsePolicy(c.DefaultQuery("policy", "raise"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	td := engine.TibetanDate{Year: year, MonthNo: month, IsLeapMonth: isLeap, Tithi: tithi, Occ: occ}
	dates, err := h.api.ToGregorian(name, td, policy)
	if err != nil {
		writeCalError(c, err)
		return
	}

	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	c.JSON(http.StatusOK, gin.H{"dates": out})
}

func parsePolicy(s string) (engine.ToGregorianPolicy, error) {
	switch s {
	case "all":
		return engine.PolicyAll, nil
	case "occ":
		return engine.PolicyOcc, nil
	case "first":
		return engine.PolicyFirst, nil
	case "second":
		return engine.PolicySecond, nil
	case "raise":
		return engine.PolicyRaise, nil
	}
	return 0, fmt.Errorf("unknown policy %q", s)
}

// GetNewYearDay handles GET /v1/new-year?engine=NAME&year=Y.
func (h *Handler) GetNewYearDay(c *gin.Context) {
	name := c.Query("engine")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "engine parameter is required"})
		return
	}
	year, err := strconv.ParseInt(c.Query("year"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	g, err := h.api.NewYearDay(name, year)
	if err != nil {
		writeCalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gregorian": fmt.Sprintf("%04d-%02d-%02d", g.Year, g.Month, g.Day)})
}

// GetMonthBounds handles GET /v1/month?engine=NAME&year=Y&month=M&leap=BOOL.
func (h *Handler) GetMonthBounds(c *gin.Context) {
	name := c.Query("engine")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "engine parameter is required"})
		return
	}
	year, err := strconv.ParseInt(c.Query("year"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.ParseInt(c.Query("month"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}
	isLeap := c.Query("leap") == "true"

	first, last, err := h.api.MonthBounds(name, year, month, isLeap)
	if err != nil {
		writeCalError(c, err)
		return
	}
	entries, err := h.api.DaysInMonth(name, year, month, isLeap)
	if err != nil {
		writeCalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"first": fmt.Sprintf("%04d-%02d-%02d", first.Year, first.Month, first.Day),
		"last":  fmt.Sprintf("%04d-%02d-%02d", last.Year, last.Month, last.Day),
		"days":  len(entries),
	})
}

// GetExplain handles GET /v1/explain?engine=NAME&date=YYYY-MM-DD.
func (h *Handler) GetExplain(c *gin.Context) {
	name, g, ok := parseGregorianQuery(c)
	if !ok {
		return
	}
	explanation, err := h.api.Explain(name, g)
	if err != nil {
		writeCalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":             toResponse(explanation.Info),
		"delta_k":            explanation.DeltaK,
		"lunation_day_index": explanation.LunationDayIndex,
		"true_date_j2000":    explanation.TrueDate.RatString(),
	})
}

// HealthCheck handles GET /healthz.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeCalError maps a typed engine.CalError to an HTTP status and JSON
// body; any other error is a 500.
func writeCalError(c *gin.Context, err error) {
	calErr, ok := err.(*engine.CalError)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status := http.StatusBadRequest
	switch calErr.Kind {
	case engine.ErrUnknownEngine:
		status = http.StatusNotFound
	case engine.ErrOutOfRange, engine.ErrAmbiguousOrMissingMatch, engine.ErrInvalidLabel:
		status = http.StatusBadRequest
	case engine.ErrEngineLacksCapability, engine.ErrRegistryNotInitialized:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": calErr.Error(), "kind": calErr.Kind.String()})
}
