package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Beclomethason/url-shortner-api/internal/entity"
)

const testBaseURL = "https://sho.rt"

type MockURLUseCase struct {
	mock.Mock
}

func (uc *MockURLUseCase) ShortenURL(ctx context.Context, originalURL, customCode string) (*entity.URL, error) {
	args := uc.Called(ctx, originalURL, customCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (uc *MockURLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := uc.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (uc *MockURLUseCase) GetURLStats(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := uc.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (p *MockPinger) Ping(ctx context.Context) error {
	return p.Called(ctx).Error(0)
}

type HandlersTestSuite struct {
	suite.Suite
	logger         *httplog.Logger
	urlUseCaseMock *MockURLUseCase
	pingerMock     *MockPinger
	server         *httptest.Server
	e              *httpexpect.Expect
}

func (suite *HandlersTestSuite) SetupSuite() {
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}

func (suite *HandlersTestSuite) SetupSubTest() {
	suite.urlUseCaseMock = new(MockURLUseCase)
	suite.pingerMock = new(MockPinger)

	router := NewRouter(suite.logger, suite.urlUseCaseMock, suite.pingerMock, testBaseURL)
	suite.server = httptest.NewServer(router)
	suite.T().Cleanup(func() {
		suite.server.Close()
	})

	suite.e = httpexpect.Default(suite.T(), suite.server.URL)
}

func (suite *HandlersTestSuite) TearDownSubTest() {
	suite.urlUseCaseMock.AssertExpectations(suite.T())
	suite.pingerMock.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestPing() {
	const path = "/api/ping"

	suite.Run("storage unavailable", func() {
		suite.pingerMock.On("Ping", mock.Anything).Once().Return(errors.New("connection refused"))

		resp := suite.e.GET(path).
			Expect().
			Status(http.StatusServiceUnavailable).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", storageUnavailableResponse.Message)
	})

	suite.Run("success", func() {
		suite.pingerMock.On("Ping", mock.Anything).Once().Return(nil)

		suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			Text().IsEqual("pong")
	})
}

func (suite *HandlersTestSuite) TestShortenURL() {
	const path = "/api/shorten"

	suite.Run("empty request body", func() {
		resp := suite.e.POST(path).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", emptyRequestBodyResponse.Message)
	})

	suite.Run("invalid request body", func() {
		resp := suite.e.POST(path).
			WithJSON("invalid body").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", invalidRequestBodyResponse.Message)
	})

	suite.Run("missing url", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.Value("errors").Array().Value(0).Object().
			HasValue("field", "url").
			HasValue("message", "this field is required")
	})

	suite.Run("invalid url", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "invalid url"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
		resp.Value("errors").Array().Value(0).Object().
			HasValue("field", "url").
			HasValue("message", "invalid url")
	})

	suite.Run("invalid custom code", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com", "customCode": "my link!"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.Value("errors").Array().Value(0).Object().
			HasValue("field", "customCode").
			ContainsKey("message")
	})

	suite.Run("custom code too long", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com", "customCode": strings.Repeat("a", 256)}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.Value("errors").Array().Value(0).Object().
			HasValue("field", "customCode").
			HasValue("message", "must be at most 255 characters long")
	})

	suite.Run("long custom code", func() {
		code := strings.Repeat("a", 40)

		suite.urlUseCaseMock.
			On("ShortenURL", mock.Anything, "https://example.com", code).
			Once().
			Return(&entity.URL{
				ShortCode:   code,
				OriginalURL: "https://example.com",
			}, nil)

		suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com", "customCode": code}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			HasValue("shortUrl", testBaseURL+"/r/"+code)
	})

	for _, rawURL := range []string{"javascript:alert(1)", "mailto:a@b.c", "file:///etc/passwd", "https://"} {
		suite.Run("non web url "+rawURL, func() {
			resp := suite.e.POST(path).
				WithJSON(map[string]string{"url": rawURL}).
				Expect().
				Status(http.StatusBadRequest).
				JSON().Object()

			resp.Value("errors").Array().Value(0).Object().
				HasValue("field", "url").
				HasValue("message", "invalid url")
		})
	}

	suite.Run("custom code in use", func() {
		suite.urlUseCaseMock.
			On("ShortenURL", mock.Anything, "https://example.com", "my-link").
			Once().
			Return(nil, fmt.Errorf("usecase: %w", entity.ErrShortCodeExists))

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com", "customCode": "my-link"}).
			Expect().
			Status(http.StatusConflict).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", customCodeInUseResponse.Message)
	})

	suite.Run("server error", func() {
		suite.urlUseCaseMock.
			On("ShortenURL", mock.Anything, "https://example.com", "").
			Once().
			Return(nil, errors.New("pq: connection reset by peer"))

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", serverErrorResponse.Message)
	})

	suite.Run("success with custom code", func() {
		suite.urlUseCaseMock.
			On("ShortenURL", mock.Anything, "https://example.com", "my-link").
			Once().
			Return(&entity.URL{
				ShortCode:   "my-link",
				OriginalURL: "https://example.com",
			}, nil)

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com", "customCode": "my-link"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object()

		resp.HasValue("originalUrl", "https://example.com")
		resp.HasValue("shortUrl", testBaseURL+"/r/my-link")
	})

	suite.Run("success", func() {
		suite.urlUseCaseMock.
			On("ShortenURL", mock.Anything, "https://example.com", "").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc123",
				OriginalURL: "https://example.com",
			}, nil)

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object()

		resp.HasValue("originalUrl", "https://example.com")
		resp.HasValue("shortUrl", testBaseURL+"/r/abc123")
		resp.NotContainsKey("clicks")
	})
}

func (suite *HandlersTestSuite) TestRedirect() {
	path := "/r/%s"

	suite.Run("url not found", func() {
		suite.urlUseCaseMock.
			On("ResolveShortCode", mock.Anything, "abc123").
			Once().
			Return(nil, entity.ErrURLNotFound)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", urlNotFoundResponse.Message)
	})

	suite.Run("server error", func() {
		suite.urlUseCaseMock.
			On("ResolveShortCode", mock.Anything, "abc123").
			Once().
			Return(nil, errors.New("unknown error"))

		suite.e.GET(fmt.Sprintf(path, "abc123")).
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("message", serverErrorResponse.Message)
	})

	suite.Run("success", func() {
		suite.urlUseCaseMock.
			On("ResolveShortCode", mock.Anything, "abc123").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc123",
				OriginalURL: "https://example.com/page",
				URLStats:    entity.URLStats{Clicks: 1},
			}, nil)

		suite.e.GET(fmt.Sprintf(path, "abc123")).
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("https://example.com/page")
	})
}

func (suite *HandlersTestSuite) TestGetURLStats() {
	path := "/api/stats/%s"

	suite.Run("url not found", func() {
		suite.urlUseCaseMock.
			On("GetURLStats", mock.Anything, "abc123").
			Once().
			Return(nil, entity.ErrURLNotFound)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
	})

	suite.Run("server error", func() {
		suite.urlUseCaseMock.
			On("GetURLStats", mock.Anything, "abc123").
			Once().
			Return(nil, errors.New("unknown error"))

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
	})

	suite.Run("success", func() {
		suite.urlUseCaseMock.
			On("GetURLStats", mock.Anything, "abc123").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc123",
				OriginalURL: "https://example.com",
				URLStats:    entity.URLStats{Clicks: 15},
			}, nil)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("originalUrl", "https://example.com")
		resp.HasValue("shortUrl", testBaseURL+"/r/abc123")
		resp.HasValue("clicks", 15)
	})
}

func (suite *HandlersTestSuite) TestDocs() {
	suite.Run("openapi document", func() {
		suite.e.GET("/docs/swagger.yml").
			Expect().
			Status(http.StatusOK).
			Body().Contains("/api/shorten")
	})
}

func TestIsWebURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "https://example.com/page?q=1", want: true},
		{raw: "http://localhost:8080", want: true},
		{raw: "ftp://files.example.com/a.txt", want: true},
		{raw: "HTTPS://EXAMPLE.COM", want: true},
		{raw: "javascript:alert(1)", want: false},
		{raw: "mailto:a@b.c", want: false},
		{raw: "data:text/html,hi", want: false},
		{raw: "//example.com", want: false},
		{raw: "example.com", want: false},
		{raw: "https://", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, isWebURL(tt.raw))
		})
	}
}

func TestURLHandler(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
