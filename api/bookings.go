package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/checkout"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BookingHandler struct {
	service  booking.BookingUseCase
	checkout checkout.CheckoutUseCase
}

type createBookingRequest struct {
	FlightID string `json:"flight_id" binding:"required"`
	SeatID   string `json:"seat_id" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type payRequest struct {
	Method string          `json:"method" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type bookingResponse struct {
	ID            string `json:"id"`
	FlightID      string `json:"flight_id"`
	SeatID        string `json:"seat_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Price         string `json:"price"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status,omitempty"`
	TxnID         string `json:"txn_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type payResponse struct {
	Booking      bookingResponse `json:"booking"`
	Method       string          `json:"method"`
	TxnID        string          `json:"txn_id"`
	GatewayTxnID string          `json:"gateway_txn_id"`
	Change       string          `json:"change"`
}

func NewBookingHandler(service booking.BookingUseCase, checkout checkout.CheckoutUseCase) *BookingHandler {
	return &BookingHandler{service: service, checkout: checkout}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.listActive)
	router.GET("/all", h.listAll)
	router.GET("/:id", h.get)
	router.POST("/:id/pay", h.pay)
	router.PUT("/:id/confirm", h.confirm)
	router.DELETE("/:id", h.cancel)
}

func toResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		FlightID:      b.FlightID,
		SeatID:        b.SeatID,
		Name:          b.Passenger.Name,
		Email:         b.Passenger.Email,
		Price:         b.Price.String(),
		Status:        string(b.Status),
		PaymentStatus: string(b.LastPaymentStatus),
		TxnID:         b.LastTxnID,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}

func toResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toResponse(&bookings[i]))
	}
	return out
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		FlightID:  req.FlightID,
		SeatID:    req.SeatID,
		Passenger: domain.Passenger{Name: req.Name, Email: req.Email},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(b))
}

func (h *BookingHandler) listActive(c *gin.Context) {
	bookings, err := h.service.ListActive(c.Request.Context(), c.Query("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(bookings))
}

func (h *BookingHandler) listAll(c *gin.Context) {
	bookings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(bookings))
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(b))
}

func (h *BookingHandler) pay(c *gin.Context) {
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.checkout.Pay(c.Request.Context(), checkout.PayInput{
		BookingID: c.Param("id"),
		Method:    req.Method,
		Amount:    req.Amount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payResponse{
		Booking:      toResponse(receipt.Booking),
		Method:       receipt.Method,
		TxnID:        receipt.Payment.TxnID,
		GatewayTxnID: receipt.GatewayTxnID,
		Change:       receipt.Change.String(),
	})
}

// confirm marks the booking paid without going through a payment channel.
func (h *BookingHandler) confirm(c *gin.Context) {
	result, err := h.service.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": result.Status, "txn_id": result.TxnID})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	refund, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.BookingStatusCancelled, "refund": refund.String()})
}
