package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/invoicebox/invoicebox/internal/http/middlewarectx"
	"github.com/invoicebox/invoicebox/internal/models"
	invoiceservice "github.com/invoicebox/invoicebox/internal/services/invoice"
	"github.com/invoicebox/invoicebox/internal/storage/repository"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateStatus(ctx context.Context, user *models.User, invoiceID int64,
	req models.DummyStatusUpdate) (*models.InvoiceView, error) {
	args := m.Called(ctx, user, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceView), args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	purchaser := &models.User{ID: 20, Username: "buyer", Role: models.RolePurchaser}
	provider := &models.User{ID: 10, Username: "acme", Role: models.RoleProvider}
	submitBody := models.DummyStatusUpdate{Status: models.StatusPaymentSubmitted, PaymentReference: "TXN-9"}

	tests := []struct {
		name           string
		id             string
		requestBody    interface{}
		user           *models.User
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "purchaser submits payment",
			id:          "7",
			requestBody: submitBody,
			user:        purchaser,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, purchaser, int64(7), submitBody).
					Return(&models.InvoiceView{ID: 7, Status: models.StatusPaymentSubmitted}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"Payment Submitted"`,
		},
		{
			name:           "no authenticated user",
			id:             "7",
			requestBody:    submitBody,
			user:           nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:           "non-numeric id",
			id:             "abc",
			requestBody:    submitBody,
			user:           purchaser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode id from url"}`,
		},
		{
			name:           "malformed JSON",
			id:             "7",
			requestBody:    "not a json",
			user:           purchaser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "missing status",
			id:             "7",
			requestBody:    models.DummyStatusUpdate{},
			user:           purchaser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Status is a required field`,
		},
		{
			name:        "unknown invoice",
			id:          "404",
			requestBody: submitBody,
			user:        purchaser,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, purchaser, int64(404), submitBody).
					Return(nil, repository.ErrInvoiceNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"invoice not found"}`,
		},
		{
			name:        "outsider is forbidden",
			id:          "7",
			requestBody: submitBody,
			user:        purchaser,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, purchaser, int64(7), submitBody).
					Return(nil, invoiceservice.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"not authorized"}`,
		},
		{
			name:        "submission without payment reference",
			id:          "7",
			requestBody: models.DummyStatusUpdate{Status: models.StatusPaymentSubmitted},
			user:        purchaser,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, purchaser, int64(7),
					models.DummyStatusUpdate{Status: models.StatusPaymentSubmitted}).
					Return(nil, invoiceservice.ErrPaymentReferenceRequired)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"payment reference required"}`,
		},
		{
			name:        "confirming an unsubmitted payment",
			id:          "7",
			requestBody: models.DummyStatusUpdate{Status: models.StatusPaid},
			user:        provider,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, provider, int64(7),
					models.DummyStatusUpdate{Status: models.StatusPaid}).
					Return(nil, invoiceservice.ErrPaymentNotSubmitted)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"payment must be submitted first"}`,
		},
		{
			name:        "status outside the caller's moves",
			id:          "7",
			requestBody: models.DummyStatusUpdate{Status: models.StatusPending},
			user:        purchaser,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, purchaser, int64(7),
					models.DummyStatusUpdate{Status: models.StatusPending}).
					Return(nil, invoiceservice.ErrStatusNotAllowed)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"requested status not allowed"}`,
		},
		{
			name:        "storage failure",
			id:          "7",
			requestBody: submitBody,
			user:        purchaser,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, purchaser, int64(7), submitBody).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to update invoice"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPut, "/invoices/"+tt.id, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			if tt.user != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserKey, tt.user))
			}

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
