package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/checkout"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ConfirmPayment(ctx context.Context, id string) (*domain.PaymentResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentResult), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id string) (decimal.Decimal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListActive(ctx context.Context, email string) ([]domain.Booking, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListAll(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockCheckoutUseCase struct {
	mock.Mock
}

func (m *MockCheckoutUseCase) Pay(ctx context.Context, input checkout.PayInput) (*checkout.Receipt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Receipt), args.Error(1)
}

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:        "BK000001",
		FlightID:  "AI101",
		Passenger: domain.Passenger{Name: "Asha", Email: "asha@example.com"},
		SeatID:    "1A",
		Price:     decimal.NewFromInt(11700),
		Status:    status,
		CreatedAt: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	}
}

func newRouter(svc *MockBookingUseCase, pay *MockCheckoutUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(svc, pay).Register(router.Group("/bookings"))
	return router
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{
		FlightID: "AI101",
		SeatID:   "1a",
		Name:     "Asha",
		Email:    "asha@example.com",
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	input := booking.CreateBookingInput{
		FlightID:  "AI101",
		SeatID:    "1a",
		Passenger: domain.Passenger{Name: "Asha", Email: "asha@example.com"},
	}
	mockService.On("CreateBooking", c.Request.Context(), input).Return(testBooking(domain.BookingStatusPendingPayment), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "BK000001", response.ID)
	assert.Equal(t, "11700", response.Price)
	assert.Equal(t, string(domain.BookingStatusPendingPayment), response.Status)
	assert.Equal(t, "2026-10-14T12:00:00Z", response.CreatedAt)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_BadRequest(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newRouter(mockService, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/bookings/", bytes.NewBufferString(`{"seat_id":"1A"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_create_Errors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrSeatUnavailable, http.StatusConflict},
		{domain.ErrFlightNotFound, http.StatusNotFound},
		{domain.ErrInvalidPassenger, http.StatusBadRequest},
		{domain.ErrInvalidSeat, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			router := newRouter(mockService, nil)
			mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/bookings/", bytes.NewBufferString(`{"flight_id":"AI101","seat_id":"1A","name":"A","email":"a@b.c"}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestBookingHandler_confirm(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id := "BK000001"
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Request = httptest.NewRequest("PUT", "/bookings/"+id+"/confirm", nil)

	result := &domain.PaymentResult{Status: domain.PaymentStatusSuccess, TxnID: "USER1791979200000"}
	mockService.On("ConfirmPayment", c.Request.Context(), id).Return(result, nil)

	handler.confirm(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "SUCCESS", response["status"])
	assert.Equal(t, "USER1791979200000", response["txn_id"])

	mockService.AssertExpectations(t)
}

func TestBookingHandler_confirm_AlreadyConfirmed(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newRouter(mockService, nil)
	mockService.On("ConfirmPayment", mock.Anything, "BK000001").Return(nil, domain.ErrAlreadyConfirmed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("PUT", "/bookings/BK000001/confirm", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id := "BK000001"
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/"+id, nil)

	mockService.On("CancelBooking", c.Request.Context(), id).Return(decimal.NewFromInt(4680), nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "4680", response["refund"])
	assert.Equal(t, string(domain.BookingStatusCancelled), response["status"])

	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_NotRefundable(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newRouter(mockService, nil)
	mockService.On("CancelBooking", mock.Anything, "BK000001").Return(decimal.Zero, domain.ErrNotRefundable)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/bookings/BK000001", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_lists(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newRouter(mockService, nil)

	active := []domain.Booking{*testBooking(domain.BookingStatusConfirmed)}
	all := append(active, *testBooking(domain.BookingStatusCancelled))
	mockService.On("ListActive", mock.Anything, "asha@example.com").Return(active, nil)
	mockService.On("ListAll", mock.Anything).Return(all, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/bookings/?email=asha@example.com", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var got []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/bookings/all", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "CANCELLED", got[1].Status)

	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "GetBooking", mock.Anything, "all")
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newRouter(mockService, nil)
	mockService.On("GetBooking", mock.Anything, "BK000001").Return(testBooking(domain.BookingStatusPendingPayment), nil)
	mockService.On("GetBooking", mock.Anything, "MISSING1").Return(nil, domain.ErrBookingNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/bookings/BK000001", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"seat_id":"1A"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/bookings/MISSING1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_pay(t *testing.T) {
	mockService := &MockBookingUseCase{}
	mockCheckout := &MockCheckoutUseCase{}
	router := newRouter(mockService, mockCheckout)

	confirmed := testBooking(domain.BookingStatusConfirmed)
	confirmed.LastTxnID = "USER1791979200000"
	receipt := &checkout.Receipt{
		Booking:      confirmed,
		Payment:      &domain.PaymentResult{Status: domain.PaymentStatusSuccess, TxnID: "USER1791979200000"},
		Method:       "upi",
		GatewayTxnID: "UPI1A2B3C4D",
		Change:       decimal.NewFromInt(300),
	}
	mockCheckout.On("Pay", mock.Anything, mock.MatchedBy(func(in checkout.PayInput) bool {
		return in.BookingID == "BK000001" && in.Method == "upi" && in.Amount.Equal(decimal.NewFromInt(12000))
	})).Return(receipt, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/bookings/BK000001/pay", bytes.NewBufferString(`{"method":"upi","amount":12000}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response payResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "300", response.Change)
	assert.Equal(t, "UPI1A2B3C4D", response.GatewayTxnID)
	assert.Equal(t, "USER1791979200000", response.TxnID)
	assert.Equal(t, "CONFIRMED", response.Booking.Status)
	mockCheckout.AssertExpectations(t)
}

func TestBookingHandler_pay_Errors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("Card: %w", domain.ErrPaymentFailed), http.StatusPaymentRequired},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrUnknownMethod, http.StatusBadRequest},
		{domain.ErrAlreadyCancelled, http.StatusConflict},
		{domain.ErrBookingNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			mockCheckout := &MockCheckoutUseCase{}
			router := newRouter(&MockBookingUseCase{}, mockCheckout)
			mockCheckout.On("Pay", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/bookings/BK000001/pay", bytes.NewBufferString(`{"method":"card","amount":"100"}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}
