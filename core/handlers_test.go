package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockService is a mock of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Upcoming(ctx context.Context, sourceURL string, cacheTTL time.Duration, count int) ([]ResolvedEvent, error) {
	args := m.Called(ctx, sourceURL, cacheTTL, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]ResolvedEvent), args.Error(1)
}

func testDefaults() Defaults {
	return Defaults{
		Count:     5,
		CacheTTL:  6 * time.Hour,
		SourceURL: "https://example.com/default.csv",
	}
}

func TestHandlers_GetCalendar(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	loc := time.UTC
	sample := []ResolvedEvent{
		{
			RawEvent: RawEvent{
				StartTime:    "10:00",
				EndTime:      "12:00",
				TitlePrimary: "Title",
				Location:     "Room A",
			},
			Start: time.Date(2099, 1, 1, 10, 0, 0, 0, loc),
		},
	}

	tests := []struct {
		name           string
		query          string
		mockSetup      func(m *MockService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:  "defaults applied",
			query: "",
			mockSetup: func(m *MockService) {
				m.On("Upcoming", mock.Anything, "https://example.com/default.csv", 6*time.Hour, 5).
					Return(sample, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{"gsec-event-list", "Title", "10:00 - 12:00", "Room A", "jan"},
		},
		{
			name:  "explicit parameters",
			query: "?count=2&csv_url=https%3A%2F%2Fexample.com%2Fsheet.csv&cache_hours=1",
			mockSetup: func(m *MockService) {
				m.On("Upcoming", mock.Anything, "https://example.com/sheet.csv", time.Hour, 2).
					Return(sample, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{"Title"},
		},
		{
			name:  "invalid count falls back to default",
			query: "?count=-4",
			mockSetup: func(m *MockService) {
				m.On("Upcoming", mock.Anything, mock.Anything, mock.Anything, 5).
					Return(sample, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{"Title"},
		},
		{
			name:  "zero cache hours disables caching",
			query: "?cache_hours=0",
			mockSetup: func(m *MockService) {
				m.On("Upcoming", mock.Anything, mock.Anything, time.Duration(0), 5).
					Return(sample, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{"Title"},
		},
		{
			name:  "invalid url renders in-band error",
			query: "?csv_url=not%20a%20url",
			mockSetup: func(m *MockService) {
				m.On("Upcoming", mock.Anything, "not a url", mock.Anything, mock.Anything).
					Return(nil, ErrInvalidURL)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{"color: red", "valid public Google Sheet CSV URL"},
		},
		{
			name:  "upstream status error renders in-band error",
			query: "",
			mockSetup: func(m *MockService) {
				m.On("Upcoming", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, &StatusError{Code: 500})
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   []string{"color: red", "HTTP 500"},
		},
		{
			name:  "header-only csv renders no-data error",
			query: "",
			mockSetup: func(m *MockService) {
				m.On("Upcoming", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, ErrNoDataRows)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   []string{"does not contain any data rows"},
		},
		{
			name:  "no upcoming events renders the empty paragraph",
			query: "",
			mockSetup: func(m *MockService) {
				m.On("Upcoming", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return([]ResolvedEvent{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{"No upcoming events found."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockService)
			tt.mockSetup(mockService)

			renderer, err := NewRenderer(DefaultMonthAbbreviations)
			require.NoError(t, err)

			h := NewHandlers(mockService, renderer, testDefaults())

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/calendar"+tt.query, nil)

			h.GetCalendar(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

			for _, want := range tt.expectedBody {
				assert.Contains(t, w.Body.String(), want)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestHandlers_GetHealth(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)

	renderer, err := NewRenderer(DefaultMonthAbbreviations)
	require.NoError(t, err)

	h := NewHandlers(new(MockService), renderer, testDefaults())
	h.GetHealth(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
