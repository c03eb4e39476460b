package review

import (
	rs "booklend/service/review"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/loans/:id/reviews
// @Summary      Submit a review
// @Description  Rate the other participant of a completed loan, once per loan
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int  true  "Loan id"
// @Param        payload  body  SubmitReviewReq  true  "Review payload"
// @Success      201  {object}  model.Review
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any "loan already reviewed"
// @Router       /v1/loans/{id}/reviews [post]
func (h *Controller) Submit(c echo.Context) error {
	loanID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || loanID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SubmitReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	rv, err := h.Svc.Submit(c.Request().Context(), uid, loanID, req.Rating, req.Comment)
	if err != nil {
		switch rs.Code(err) {
		case rs.ErrReviewExists:
			return c.JSON(http.StatusConflict, echo.Map{"message": "loan already reviewed"})
		case rs.ErrLoanNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "loan not found"})
		case rs.ErrLoanNotDone:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "loan not completed"})
		case rs.ErrNotParticipant:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case rs.ErrBadRating:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "rating must be 1-5"})
		case rs.ErrCommentTooLong:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "comment too long"})
		default:
			h.Log.Error("review submit", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, rv)
}

// GET /v1/users/:id/reviews
func (h *Controller) ForUser(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rows, err := h.Svc.ForUser(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("reviews for user", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/:id/reviews/stats
func (h *Controller) Stats(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	stats, err := h.Svc.StatsFor(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("review stats", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, stats)
}
