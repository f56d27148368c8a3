package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/eventfold/bids-go/internal/lifecycle"
	redisrepo "github.com/eventfold/bids-go/internal/repository/redis"
	"github.com/eventfold/bids-go/internal/service"
	"github.com/eventfold/bids-go/internal/service/bids"
	"github.com/eventfold/bids-go/internal/service/query"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Read side
	r.GET("/events/:id", handleGetEvent(svcs))
	r.GET("/events/:id/bids", handleListBids(svcs))
	r.GET("/events/:id/bids/:bidId", handleGetBid(svcs))
	r.GET("/events/:id/comparison", handleGetComparison(svcs))

	// Lifecycle transitions are throttled per IP.
	rl := RateLimitMiddleware(limiter, logger)

	r.POST("/events/:id/bids/:bidId/shortlist", rl, handleShortlist(svcs))
	r.DELETE("/events/:id/bids/:bidId/shortlist", rl, handleUnshortlist(svcs))
	r.POST("/events/:id/bids/:bidId/reject", rl, handleReject(svcs))
	r.POST("/events/:id/select-winner", rl, handleSelectWinner(svcs, idem))
	r.POST("/events/:id/auto-shortlist", rl, handleAutoShortlist(svcs))

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Get event with bid summaries
// @Param    id  path  string  true  "Event ID"
// @Success  200  {object}  query.EventView
// @Failure  404  {object}  ErrorResponse
// @Router   /events/{id} [get]
func handleGetEvent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Query.GetEvent(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, view, "private, max-age=60", true)
	}
}

// @Summary  List bids for an event
// @Param    id      path   string  true   "Event ID"
// @Param    status  query  string  false  "all|pending|shortlisted|selected|rejected"
// @Param    sort    query  string  false  "price_asc|price_desc|date_desc|date_asc"
// @Success  200  {array}   query.BidSummary
// @Failure  404  {object}  ErrorResponse
// @Router   /events/{id}/bids [get]
func handleListBids(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := parseStatusFilter(c)
		if !ok {
			return
		}

		summaries, err := svcs.Query.ListBids(
			c.Request.Context(),
			c.Param("id"),
			filter,
			query.SortOrder(c.Query("sort")),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, summaries, "private, max-age=15", true)
	}
}

// @Summary  Get bid detail
// @Param    id     path  string  true  "Event ID"
// @Param    bidId  path  string  true  "Bid ID"
// @Success  200  {object}  query.BidDetail
// @Failure  404  {object}  ErrorResponse
// @Router   /events/{id}/bids/{bidId} [get]
func handleGetBid(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svcs.Query.GetBid(
			c.Request.Context(),
			c.Param("id"),
			c.Param("bidId"),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, detail, "private, max-age=15", true)
	}
}

// @Summary  Side-by-side bid comparison
// @Param    id      path   string  true   "Event ID"
// @Param    status  query  string  false  "all|pending|shortlisted|selected|rejected"
// @Param    limit   query  int     false  "bids to display (max 3)"
// @Success  200  {object}  pricing.Comparison
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "fewer than two bids"
// @Router   /events/{id}/comparison [get]
func handleGetComparison(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := parseStatusFilter(c)
		if !ok {
			return
		}

		cmp, err := svcs.Query.Comparison(
			c.Request.Context(),
			c.Param("id"),
			filter,
			parseIntDefault(c.Query("limit"), 0),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, cmp, "private, max-age=15", true)
	}
}

// @Summary  Shortlist a bid
// @Param    id     path  string  true  "Event ID"
// @Param    bidId  path  string  true  "Bid ID"
// @Success  200  {object}  BidStatusResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "shortlist full / bid finalized"
// @Router   /events/{id}/bids/{bidId}/shortlist [post]
func handleShortlist(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, bidID := c.Param("id"), c.Param("bidId")

		event, err := svcs.Bids.Shortlist(c.Request.Context(), eventID, bidID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, BidStatusResponse{
			EventID: event.EventID,
			BidID:   bidID,
			Status:  bidStatus(event, bidID),
		})
	}
}

// @Summary  Remove a bid from the shortlist
// @Param    id     path  string  true  "Event ID"
// @Param    bidId  path  string  true  "Bid ID"
// @Success  200  {object}  BidStatusResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /events/{id}/bids/{bidId}/shortlist [delete]
func handleUnshortlist(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, bidID := c.Param("id"), c.Param("bidId")

		event, err := svcs.Bids.Unshortlist(c.Request.Context(), eventID, bidID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, BidStatusResponse{
			EventID: event.EventID,
			BidID:   bidID,
			Status:  bidStatus(event, bidID),
		})
	}
}

// @Summary  Reject a bid
// @Param    id     path  string  true  "Event ID"
// @Param    bidId  path  string  true  "Bid ID"
// @Param    req    body  RejectBidRequest  true  "confirmation"
// @Success  200  {object}  BidStatusResponse
// @Failure  400  {object}  ErrorResponse "missing confirmation"
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /events/{id}/bids/{bidId}/reject [post]
func handleReject(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RejectBidRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
			badRequest(c, "confirmation required")
			return
		}

		eventID, bidID := c.Param("id"), c.Param("bidId")

		event, err := svcs.Bids.Reject(c.Request.Context(), eventID, bidID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, BidStatusResponse{
			EventID: event.EventID,
			BidID:   bidID,
			Status:  bidStatus(event, bidID),
		})
	}
}

// @Summary  Select the winning bid (idempotent)
// @Param    id   path  string  true  "Event ID"
// @Param    req  body  SelectWinnerRequest  true  "payload"
// @Header   200  {string}  Idempotency-Key  "echo"
// @Success  200  {object}  SelectWinnerResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "not shortlisted / winner exists / idem in progress"
// @Router   /events/{id}/select-winner [post]
func handleSelectWinner(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID := c.Param("id")

		var req SelectWinnerRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
			badRequest(c, "bid_id and confirmation required")
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemSelectWinner(eventID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusOK,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusOK,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		event, err := svcs.Bids.SelectWinner(c.Request.Context(), eventID, req.BidID)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := SelectWinnerResponse{
			EventID:     event.EventID,
			WinnerBidID: req.BidID,
			EventStatus: string(event.Status),
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Auto-shortlist the lowest pending bids
// @Param    id  path  string  true  "Event ID"
// @Success  200  {object}  AutoShortlistResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "no pending bids / winner exists"
// @Router   /events/{id}/auto-shortlist [post]
func handleAutoShortlist(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := svcs.Bids.AutoShortlist(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := AutoShortlistResponse{EventID: event.EventID}
		for _, b := range event.Bids {
			switch b.Status {
			case domain.BidShortlisted:
				resp.Shortlisted++
			case domain.BidRejected:
				resp.Rejected++
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

// --- Helpers ---

func parseStatusFilter(c *gin.Context) (query.StatusFilter, bool) {
	s := c.Query("status")
	switch query.StatusFilter(s) {
	case "", query.FilterAll, query.FilterPending, query.FilterShortlisted,
		query.FilterSelected, query.FilterRejected:
		return query.StatusFilter(s), true
	default:
		badRequest(c, "invalid status")
		return "", false
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func bidStatus(event *domain.Event, bidID string) string {
	if i := event.FindBid(bidID); i >= 0 {
		return string(event.Bids[i].Status)
	}
	return ""
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// not found
	case errors.Is(err, bids.ErrEventNotFound),
		errors.Is(err, query.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
		return
	case errors.Is(err, query.ErrBidNotFound),
		errors.Is(err, lifecycle.ErrBidNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "bid not found"})
		return
	// lifecycle guards: refused, nothing mutated
	case errors.Is(err, lifecycle.ErrShortlistFull),
		errors.Is(err, lifecycle.ErrAlreadyShortlisted),
		errors.Is(err, lifecycle.ErrNotShortlisted),
		errors.Is(err, lifecycle.ErrBidFinalized),
		errors.Is(err, lifecycle.ErrWinnerAlreadySelected),
		errors.Is(err, lifecycle.ErrNoPendingBids),
		errors.Is(err, query.ErrNotEnoughBids):
		c.JSON(http.StatusConflict, ErrorResponse{Error: guardMessage(err)})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func guardMessage(err error) string {
	for _, g := range []error{
		lifecycle.ErrShortlistFull,
		lifecycle.ErrAlreadyShortlisted,
		lifecycle.ErrNotShortlisted,
		lifecycle.ErrBidFinalized,
		lifecycle.ErrWinnerAlreadySelected,
		lifecycle.ErrNoPendingBids,
		query.ErrNotEnoughBids,
	} {
		if errors.Is(err, g) {
			return g.Error()
		}
	}
	return "conflict"
}
