package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := NewClient(filepath.Join(t.TempDir(), "cache.json"))
	c.baseURL = baseURL
	return c
}

func catalogTestServer(t *testing.T, requestCount *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/exerciseinfo/", func(w http.ResponseWriter, r *http.Request) {
		*requestCount++
		page := wgerPage{
			Results: []wgerExerciseInfo{
				{
					ID:       101,
					Category: wgerNamed{Name: "Cardio"},
					Equip:    []wgerNamed{{Name: "none"}},
					Trans: []wgerTransln{
						{Language: englishLanguageID, Name: "Mountain Climber", Description: "Core cardio move."},
					},
				},
				{
					// No usable name in any translation; must be skipped.
					ID:       102,
					Category: wgerNamed{Name: "Cardio"},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	})
	mux.HandleFunc("/exerciseimage/", func(w http.ResponseWriter, r *http.Request) {
		page := wgerImagePage{
			Results: []wgerImage{{Exercise: 101, Image: "https://example.org/mc.png"}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	})
	return httptest.NewServer(mux)
}

func TestHydrateFetchesAndCaches(t *testing.T) {
	requests := 0
	srv := catalogTestServer(t, &requests)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	exercises, err := client.Hydrate(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	require.Equal(t, "Mountain Climber", exercises[0].Name)
	require.Equal(t, "Cardio", exercises[0].Category)
	require.Equal(t, "https://example.org/mc.png", exercises[0].ImageURL)
	require.Equal(t, 1, requests)

	// Second hydration must come from the cache file.
	again, err := client.Hydrate(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, again, 1)
	require.Equal(t, 1, requests)
}

func TestHydrateForceRefreshBypassesCache(t *testing.T) {
	requests := 0
	srv := catalogTestServer(t, &requests)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Hydrate(context.Background(), false)
	require.NoError(t, err)
	_, err = client.Hydrate(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, 2, requests)
}

func TestHydrateLegacyCacheSchema(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	legacy := []Exercise{{ID: "7", Name: "Lunges", Category: "strength"}}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cacheFile, raw, 0o644))

	client := NewClient(cacheFile)
	exercises, err := client.Hydrate(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	require.Equal(t, "Lunges", exercises[0].Name)
}

func TestHydrateAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Hydrate(context.Background(), false)
	require.Error(t, err)
}

func TestSearchImage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/exercise/search/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "squat", r.URL.Query().Get("term"))
		_, _ = w.Write([]byte(`{"suggestions":[{"data":{"image":""}},{"data":{"image":"https://example.org/squat.png"}}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	url, err := client.SearchImage(context.Background(), "squat")
	require.NoError(t, err)
	require.Equal(t, "https://example.org/squat.png", url)

	url, err = client.SearchImage(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, url)
}
