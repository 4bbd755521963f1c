package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"travel-backoffice/internal/adaptor"
	"travel-backoffice/internal/dto/request"
	"travel-backoffice/internal/dto/response"
	"travel-backoffice/internal/usecase"
	"travel-backoffice/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPackages struct {
	usecase.PackageService
	err      error
	lastID   string
	lastPage *request.PaginatedRequest
	status   *string
}

func (s *stubPackages) GetPackages(_ context.Context, req *request.PaginatedRequest, status *string) (*response.PaginatedResponse[response.PackageResponse], error) {
	s.lastPage, s.status = req, status
	return response.NewPaginatedResponse([]response.PackageResponse{{ID: "p1"}}, req.Page, req.PerPage, 1), s.err
}

func (s *stubPackages) GetAvailability(_ context.Context, id string) (*response.AvailabilityResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &response.AvailabilityResponse{PackageID: id, Stock: 10, RemainingStock: 7}, nil
}

func (s *stubPackages) DeletePackage(_ context.Context, id string) error {
	s.lastID = id
	return s.err
}

type stubBookings struct {
	usecase.BookingService
	err    error
	lastID string
	draft  *request.BookingDraft
	amount float64
}

func (s *stubBookings) CreateBooking(_ context.Context, draft *request.BookingDraft) (*response.BookingResponse, error) {
	s.draft = draft
	if s.err != nil {
		return nil, s.err
	}
	return &response.BookingResponse{ID: "b1", PaxTotal: 2}, nil
}

func (s *stubBookings) RecordPayment(_ context.Context, id string, req *request.RecordPaymentRequest) (*response.BookingResponse, error) {
	s.lastID, s.amount = id, req.Amount
	return &response.BookingResponse{ID: id}, s.err
}

func (s *stubBookings) ConfirmBooking(_ context.Context, id string) (*response.BookingResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &response.BookingResponse{ID: id}, nil
}

func newTestRouter(pkgs *stubPackages, bookings *stubBookings) http.Handler {
	log := zap.NewNop()
	handler := &adaptor.Handler{
		Package: adaptor.NewPackageHandler(pkgs, log),
		Booking: adaptor.NewBookingHandler(bookings, log),
	}
	config := &utils.Config{App: utils.AppConfig{Name: "travel-backoffice"}}
	return setupRouter(handler, config, log)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var envelope utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return rec, envelope
}

const validDraft = `{
	"package_id": "6f1c3a52-8d2e-4b7a-9c1d-2e3f4a5b6c7d",
	"booking_type": "En option",
	"rooms": [{"room_type": "Double", "occupants": [{"type": "ADL"}, {"type": "CHD", "name": "Lina"}]}],
	"payment": {"payment_method": "transfer", "paid_amount": 0}
}`

func TestHealth(t *testing.T) {
	rec, envelope := do(t, newTestRouter(&stubPackages{}, &stubBookings{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Status)
}

func TestCORSOnRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://backoffice.example")
	rec := httptest.NewRecorder()
	newTestRouter(&stubPackages{}, &stubBookings{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://backoffice.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListPackages_QueryParams(t *testing.T) {
	pkgs := &stubPackages{}
	rec, envelope := do(t, newTestRouter(pkgs, &stubBookings{}), http.MethodGet, "/api/packages?page=2&per_page=5&status=published", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Status)
	assert.Equal(t, 2, pkgs.lastPage.Page)
	assert.Equal(t, 5, pkgs.lastPage.PerPage)
	require.NotNil(t, pkgs.status)
	assert.Equal(t, "published", *pkgs.status)
}

func TestAvailabilityRoute(t *testing.T) {
	pkgs := &stubPackages{}
	rec, envelope := do(t, newTestRouter(pkgs, &stubBookings{}), http.MethodGet, "/api/packages/abc/availability", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", pkgs.lastID)
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), data["remaining_stock"])
}

func TestCreateBooking_Route(t *testing.T) {
	bookings := &stubBookings{}
	rec, envelope := do(t, newTestRouter(&stubPackages{}, bookings), http.MethodPost, "/api/bookings", validDraft)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, envelope.Status)
	require.NotNil(t, bookings.draft)
	require.Len(t, bookings.draft.Rooms, 1)
	assert.Len(t, bookings.draft.Rooms[0].Occupants, 2)
}

func TestCreateBooking_BadRequests(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "malformed json", body: `{"rooms":`},
		{name: "missing rooms", body: `{"package_id":"6f1c3a52-8d2e-4b7a-9c1d-2e3f4a5b6c7d","booking_type":"En option"}`, wantField: "Rooms"},
		{name: "unknown booking type", body: strings.Replace(validDraft, "En option", "Maybe", 1), wantField: "BookingType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &stubBookings{}
			rec, envelope := do(t, newTestRouter(&stubPackages{}, bookings), http.MethodPost, "/api/bookings", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, envelope.Status)
			assert.Nil(t, bookings.draft)
			if tt.wantField != "" {
				fields, ok := envelope.Errors.(map[string]any)
				require.True(t, ok)
				assert.Contains(t, fields, tt.wantField)
			}
		})
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: fmt.Errorf("booking x: %w", usecase.ErrNotFound), want: http.StatusNotFound},
		{name: "validation", err: fmt.Errorf("%w: bad id", usecase.ErrValidation), want: http.StatusBadRequest},
		{name: "insufficient stock", err: fmt.Errorf("%w: 3 pax requested, 2 remaining", usecase.ErrInsufficientStock), want: http.StatusConflict},
		{name: "invalid state", err: fmt.Errorf("%w: already confirmed", usecase.ErrInvalidState), want: http.StatusConflict},
		{name: "unexpected", err: fmt.Errorf("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &stubBookings{err: tt.err}
			rec, envelope := do(t, newTestRouter(&stubPackages{}, bookings), http.MethodPost, "/api/bookings/b9/confirm", "")

			assert.Equal(t, tt.want, rec.Code)
			assert.False(t, envelope.Status)
			assert.Equal(t, "b9", bookings.lastID)
			if tt.want == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", envelope.Message)
			} else {
				assert.Equal(t, tt.err.Error(), envelope.Message)
			}
		})
	}
}

func TestRecordPayment_Route(t *testing.T) {
	bookings := &stubBookings{}
	rec, _ := do(t, newTestRouter(&stubPackages{}, bookings), http.MethodPost, "/api/bookings/b7/payments", `{"amount": 250.5, "payment_method": "card"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "b7", bookings.lastID)
	assert.Equal(t, 250.5, bookings.amount)

	rec, _ = do(t, newTestRouter(&stubPackages{}, bookings), http.MethodPost, "/api/bookings/b7/payments", `{"amount": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePackage_Conflict(t *testing.T) {
	pkgs := &stubPackages{err: fmt.Errorf("%w: package p1 still has 2 bookings", usecase.ErrInvalidState)}
	rec, _ := do(t, newTestRouter(pkgs, &stubBookings{}), http.MethodDelete, "/api/packages/p1", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "p1", pkgs.lastID)
}

func TestUnknownRoute(t *testing.T) {
	rec, envelope := do(t, newTestRouter(&stubPackages{}, &stubBookings{}), http.MethodGet, "/api/unknown", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, envelope.Status)
}
