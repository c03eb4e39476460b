package loan

import (
	ls "booklend/service/loan"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ls.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/loans
// @Summary      Request a loan
// @Description  Ask to borrow a book; the new loan starts pending
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  RequestLoanReq  true  "Loan request"
// @Success      201  {object}  model.Loan
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/loans [post]
func (h *Controller) Request(c echo.Context) error {
	var req RequestLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	l, err := h.Svc.Request(c.Request().Context(), uid, ls.RequestInput{
		BookID:    req.BookID,
		StartDate: req.StartDate,
		DueDate:   req.DueDate,
		Message:   req.Message,
	})
	if err != nil {
		switch ls.Code(err) {
		case ls.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case ls.ErrSelfBorrow:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot borrow your own book"})
		case ls.ErrBadDates:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "due date before start date"})
		case ls.ErrMessageTooLong:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "message too long"})
		default:
			h.Log.Error("loan request", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, l)
}

// POST /v1/loans/:id/approve
func (h *Controller) Approve(c echo.Context) error {
	return h.transition(c, ls.ActionApprove, "approved")
}

// POST /v1/loans/:id/decline
func (h *Controller) Decline(c echo.Context) error {
	return h.transition(c, ls.ActionDecline, "declined")
}

// POST /v1/loans/:id/complete
func (h *Controller) Complete(c echo.Context) error {
	return h.transition(c, ls.ActionComplete, "completed")
}

func (h *Controller) transition(c echo.Context, action ls.Action, done string) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Transition(c.Request().Context(), id, uid, action); err != nil {
		switch ls.Code(err) {
		case ls.ErrLoanNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "loan not found"})
		case ls.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case ls.ErrInvalidTransition:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid transition"})
		default:
			h.Log.Error("loan transition", "action", string(action), "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": done})
}

// GET /v1/loans/received
func (h *Controller) Received(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Received(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("loans received", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/loans/borrowed
func (h *Controller) Borrowed(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Borrowed(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("loans borrowed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
