package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string, maxAttempts int) *Client {
	return NewClient(Options{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		DeviceType:  "mobile",
		CountryCode: "us",
		Render:      true,
		Timeout:     time.Second,
		MaxAttempts: maxAttempts,
		RetryDelay:  time.Millisecond,
	}, zap.NewNop())
}

func fetchKind(t *testing.T, err error) domain.FetchErrorKind {
	t.Helper()
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	return fetchErr.Kind
}

func TestFetchPassesProxyParameters(t *testing.T) {
	var query map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte("<html>ok</html>"))
	}))
	defer ts.Close()

	body, err := newTestClient(ts.URL, 1).Fetch(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(body))

	assert.Equal(t, []string{"test-key"}, query["api_key"])
	assert.Equal(t, []string{"https://www.amazon.com/dp/B08N5WRWNW"}, query["url"])
	assert.Equal(t, []string{"mobile"}, query["device_type"])
	assert.Equal(t, []string{"us"}, query["country_code"])
	assert.Equal(t, []string{"true"}, query["render"])
}

func TestFetchClassifiesNotFoundWithoutRetry(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 3).Fetch(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW")
	assert.Equal(t, domain.FetchNotFound, fetchKind(t, err))
	assert.Equal(t, 1, hits)
}

func TestFetchClassifiesQuotaExhaustionAsBlocked(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("You have exhausted your API credits."))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 3).Fetch(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW")
	assert.Equal(t, domain.FetchBlocked, fetchKind(t, err))
}

func TestFetchClassifiesRateLimitAsBlocked(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 3).Fetch(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW")
	assert.Equal(t, domain.FetchBlocked, fetchKind(t, err))
	assert.Equal(t, 1, hits)
}

func TestFetchRetriesTransientUntilSuccess(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("<html>recovered</html>"))
	}))
	defer ts.Close()

	body, err := newTestClient(ts.URL, 3).Fetch(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW")
	require.NoError(t, err)
	assert.Equal(t, "<html>recovered</html>", string(body))
	assert.Equal(t, 3, hits)
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 2).Fetch(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW")
	assert.Equal(t, domain.FetchTransient, fetchKind(t, err))
	assert.Equal(t, 2, hits)
}

func TestFetchClassifiesUnexpectedStatusAsUnknown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 3).Fetch(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW")
	assert.Equal(t, domain.FetchUnknown, fetchKind(t, err))
}
