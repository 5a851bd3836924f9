package icons

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherURL(t *testing.T) {
	t.Parallel()

	f := NewFetcher("https://cdn.example.com/icons/", 0)
	assert.Equal(t, "https://cdn.example.com/icons/IconLoadout.png", f.URL("IconLoadout"))
}

func TestFetch(t *testing.T) {
	t.Parallel()

	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/IconLoadout.png" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer cdn.Close()

	f := NewFetcher(cdn.URL, time.Second)

	data, err := f.Fetch("IconLoadout")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	_, err = f.Fetch("Missing")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, cdn.URL+"/Missing.png", fetchErr.URL)
}

func TestFetchNonOKStatus(t *testing.T) {
	t.Parallel()

	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer cdn.Close()

	_, err := NewFetcher(cdn.URL, time.Second).Fetch("Icon")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNoContent, fetchErr.StatusCode)
}

func TestFetchUnreachable(t *testing.T) {
	t.Parallel()

	cdn := httptest.NewServer(http.NotFoundHandler())
	url := cdn.URL
	cdn.Close()

	_, err := NewFetcher(url, time.Second).Fetch("Icon")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
	assert.Error(t, fetchErr.Err)
}

func TestFetchTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer cdn.Close()
	defer close(release)

	start := time.Now()
	_, err := NewFetcher(cdn.URL, 50*time.Millisecond).Fetch("Slow")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Less(t, time.Since(start), 5*time.Second)
}
