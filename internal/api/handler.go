package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockperf/internal/domain/dto"
	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/middleware"
	"github.com/guttosm/stockperf/internal/performance"
	"github.com/guttosm/stockperf/internal/service"
)

const dateLayout = "2006-01-02"

var now = time.Now

// Handler provides HTTP handlers for the portfolio performance endpoints.
//
// Responsibilities:
//   - Validate incoming query parameters and request bodies
//   - Delegate the calculations to the service layer
//   - Translate results into response DTOs
type Handler struct {
	svc service.PerformanceService
}

// NewHandler constructs a new Handler backed by svc.
func NewHandler(svc service.PerformanceService) *Handler {
	return &Handler{svc: svc}
}

// GetPerformance godoc
// @Summary      Performance over a period
// @Description  Annualized internal rate of return between start and end, in percent rounded to two places
// @Tags         performance
// @Produce      json
// @Param        start     query     string  true   "Period start in YYYY-MM-DD" example(2024-01-01)
// @Param        end       query     string  true   "Period end in YYYY-MM-DD" example(2024-12-31)
// @Param        tag       query     string  false  "Only transactions with this tag"
// @Param        stock_id  query     []string  false  "Only these stocks" collectionFormat(multi)
// @Success      200       {object}  dto.PerformanceResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      500       {object}  dto.ErrorResponse
// @Router       /api/v1/performance [get]
func (h *Handler) GetPerformance(c *gin.Context) {
	start, err := requiredDate(c, "start")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	end, err := requiredDate(c, "end")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	f := service.Filter{StockIDs: stockIDs(c), Tag: strings.TrimSpace(c.Query("tag"))}
	pct, err := h.svc.Performance(c.Request.Context(), f, start, end)
	if err != nil {
		abortWithServiceError(c, "failed to calculate performance", err)
		return
	}

	c.JSON(http.StatusOK, dto.PerformanceResponse{
		Start:      start.Format(dateLayout),
		End:        end.Format(dateLayout),
		Tag:        f.Tag,
		StockIDs:   f.StockIDs,
		Percentage: pct,
	})
}

// GetCapital godoc
// @Summary      Portfolio capital
// @Description  Value of the open positions on a date, priced with the last quote before it
// @Tags         performance
// @Produce      json
// @Param        date      query     string  false  "Valuation date in YYYY-MM-DD, defaults to today" example(2024-12-31)
// @Param        tag       query     string  false  "Only transactions with this tag"
// @Param        stock_id  query     []string  false  "Only these stocks" collectionFormat(multi)
// @Success      200       {object}  dto.CapitalResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      500       {object}  dto.ErrorResponse
// @Router       /api/v1/capital [get]
func (h *Handler) GetCapital(c *gin.Context) {
	date, err := optionalDate(c, "date")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	today := now().UTC()
	asOf := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if date != nil {
		asOf = *date
	}

	f := service.Filter{StockIDs: stockIDs(c), Tag: strings.TrimSpace(c.Query("tag"))}
	positions, err := h.svc.Positions(c.Request.Context(), f, asOf)
	if err != nil {
		abortWithServiceError(c, "failed to calculate capital", err)
		return
	}

	resp := dto.CapitalResponse{Date: asOf.Format(dateLayout), Positions: make([]dto.PositionResponse, 0, len(positions))}
	for _, p := range positions {
		resp.Capital = resp.Capital.Add(p.Value)
		resp.Positions = append(resp.Positions, dto.PositionResponse{
			Stock:       p.Stock,
			Shares:      p.Shares,
			Price:       p.Price,
			PriceSource: string(p.PriceSource),
			Value:       p.Value,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GetTags godoc
// @Summary      Figures per tag
// @Description  Inpayments, dividends and capital up to end, and performance between start and end, for every tag in use
// @Tags         performance
// @Produce      json
// @Param        start  query     string  false  "Period start in YYYY-MM-DD, defaults to January 1 of the end year"
// @Param        end    query     string  false  "Period end in YYYY-MM-DD, defaults to today"
// @Success      200    {object}  dto.TagsResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/v1/tags [get]
func (h *Handler) GetTags(c *gin.Context) {
	start, err := optionalDate(c, "start")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	endDate, err := optionalDate(c, "end")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	today := now().UTC()
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if endDate != nil {
		end = *endDate
	}
	if start == nil {
		jan1 := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		start = &jan1
	}

	summaries, err := h.svc.TagSummaries(c.Request.Context(), *start, end)
	if err != nil {
		abortWithServiceError(c, "failed to summarize tags", err)
		return
	}

	resp := dto.TagsResponse{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
		Tags:  make([]dto.TagSummaryResponse, 0, len(summaries)),
	}
	for _, s := range summaries {
		resp.Tags = append(resp.Tags, dto.TagSummaryResponse{
			Tag:         s.Tag,
			Inpayments:  s.Inpayments,
			Dividends:   s.Dividends,
			Capital:     s.Capital,
			Performance: s.Performance,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GetInpayments godoc
// @Summary      Sum of inpayments
// @Description  Money put into the portfolio: purchase volumes net of order costs
// @Tags         performance
// @Produce      json
// @Param        start     query     string  false  "Earliest order date in YYYY-MM-DD"
// @Param        end       query     string  false  "Latest order date in YYYY-MM-DD"
// @Param        tag       query     string  false  "Only transactions with this tag"
// @Param        stock_id  query     []string  false  "Only these stocks" collectionFormat(multi)
// @Success      200       {object}  dto.SumResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      500       {object}  dto.ErrorResponse
// @Router       /api/v1/inpayments [get]
func (h *Handler) GetInpayments(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	sum, err := h.svc.Inpayments(c.Request.Context(), f)
	if err != nil {
		abortWithServiceError(c, "failed to sum inpayments", err)
		return
	}
	c.JSON(http.StatusOK, dto.SumResponse{Sum: sum})
}

// GetDividends godoc
// @Summary      Sum of dividends
// @Description  Dividend payouts net of taxes
// @Tags         performance
// @Produce      json
// @Param        start     query     string  false  "Earliest order date in YYYY-MM-DD"
// @Param        end       query     string  false  "Latest order date in YYYY-MM-DD"
// @Param        tag       query     string  false  "Only transactions with this tag"
// @Param        stock_id  query     []string  false  "Only these stocks" collectionFormat(multi)
// @Success      200       {object}  dto.SumResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      500       {object}  dto.ErrorResponse
// @Router       /api/v1/dividends [get]
func (h *Handler) GetDividends(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	sum, err := h.svc.Dividends(c.Request.Context(), f)
	if err != nil {
		abortWithServiceError(c, "failed to sum dividends", err)
		return
	}
	c.JSON(http.StatusOK, dto.SumResponse{Sum: sum})
}

// PostXIRR godoc
// @Summary      Solve an XIRR
// @Description  Annualized rate at which the present value of the dated cash flows is zero
// @Tags         xirr
// @Accept       json
// @Produce      json
// @Param        request  body      dto.XIRRRequest  true  "Dated cash flows"
// @Success      200      {object}  dto.XIRRResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/v1/xirr [post]
func (h *Handler) PostXIRR(c *gin.Context) {
	var req dto.XIRRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	flows := make([]models.CashFlow, 0, len(req.CashFlows))
	for _, cf := range req.CashFlows {
		d, err := time.Parse(dateLayout, cf.Date)
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid cash flow date, expected YYYY-MM-DD", err)
			return
		}
		flows = append(flows, models.NewCashFlow(cf.Amount, d))
	}

	out, err := h.svc.Solve(c.Request.Context(), flows)
	if err != nil {
		abortWithServiceError(c, "failed to solve xirr", err)
		return
	}

	c.JSON(http.StatusOK, dto.XIRRResponse{
		Kind:       out.Kind.String(),
		Rate:       out.Rate,
		Percentage: performance.Percentage(out.Rate),
	})
}

func filterFromQuery(c *gin.Context) (service.Filter, bool) {
	start, err := optionalDate(c, "start")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return service.Filter{}, false
	}
	end, err := optionalDate(c, "end")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return service.Filter{}, false
	}
	return service.Filter{
		StockIDs: stockIDs(c),
		Tag:      strings.TrimSpace(c.Query("tag")),
		Start:    start,
		End:      end,
	}, true
}

// stockIDs accepts both repeated and comma separated stock_id parameters.
func stockIDs(c *gin.Context) []string {
	var ids []string
	for _, raw := range c.QueryArray("stock_id") {
		for _, id := range strings.Split(raw, ",") {
			if id = models.NormalizeStockID(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func requiredDate(c *gin.Context, name string) (time.Time, error) {
	d, err := optionalDate(c, name)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, errors.New(name + " is required")
	}
	return *d, nil
}

func optionalDate(c *gin.Context, name string) (*time.Time, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, errors.New("invalid " + name + " format, expected YYYY-MM-DD")
	}
	return &d, nil
}

func abortWithServiceError(c *gin.Context, message string, err error) {
	if errors.Is(err, service.ErrInvalidPeriod) {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	middleware.AbortWithError(c, http.StatusInternalServerError, message, err)
}
