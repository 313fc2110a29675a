package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL = "https://wger.de/api/v2"
	clientTimeout  = 10 * time.Second
	pageSize       = 100

	// englishLanguageID is wger's identifier for English content.
	englishLanguageID = 2
)

// Client is the hybrid caching provider for the exercise catalog: it
// serves the local JSON cache when present and falls back to the remote
// wger.de API, persisting what it fetched for the next start.
type Client struct {
	baseURL    string
	cacheFile  string
	httpClient *http.Client
	userAgent  string
}

// NewClient builds a client writing its cache to cacheFile.
func NewClient(cacheFile string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		cacheFile:  cacheFile,
		httpClient: &http.Client{Timeout: clientTimeout},
		userAgent:  "HealthButler/1.0",
	}
}

// cachePayload is the on-disk cache schema. Older cache files were a bare
// JSON array; Hydrate accepts both.
type cachePayload struct {
	LastUpdated string     `json:"last_updated"`
	Data        []Exercise `json:"data"`
}

// Hydrate loads the cache from disk, or fetches the full catalog from the
// API when the cache is missing or forceRefresh is set. It never raises a
// hard failure into the filtering core: on total failure it returns an
// empty list and a non-nil error the caller may log and ignore.
func (c *Client) Hydrate(ctx context.Context, forceRefresh bool) ([]Exercise, error) {
	if !forceRefresh {
		if cached, err := c.loadCache(); err == nil && len(cached) > 0 {
			log.Info().Int("exercises", len(cached)).Msg("Loaded exercise catalog from local cache")
			return cached, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("Failed to load local catalog cache, falling back to API")
		}
	}

	log.Info().Msg("Fetching exercise catalog from wger.de API")
	exercises, err := c.fetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog hydration: %w", err)
	}
	if len(exercises) > 0 {
		if err := c.saveCache(exercises); err != nil {
			log.Error().Err(err).Msg("Failed to persist catalog cache")
		}
	}
	return exercises, nil
}

func (c *Client) loadCache() ([]Exercise, error) {
	raw, err := os.ReadFile(c.cacheFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var payload cachePayload
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Data) > 0 {
		return payload.Data, nil
	}

	// Legacy schema: a raw exercise array.
	var legacy []Exercise
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("unreadable cache file %s: %w", c.cacheFile, err)
	}
	return legacy, nil
}

func (c *Client) saveCache(exercises []Exercise) error {
	if err := os.MkdirAll(filepath.Dir(c.cacheFile), 0o755); err != nil {
		return err
	}
	payload := cachePayload{
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Data:        exercises,
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.cacheFile, raw, 0o644)
}

/* =================================================================================
							WGER API RESPONSE MAPPING
=================================================================================*/

type wgerPage struct {
	Next    string             `json:"next"`
	Results []wgerExerciseInfo `json:"results"`
}

type wgerExerciseInfo struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Category wgerNamed     `json:"category"`
	Muscles  []wgerNamed   `json:"muscles"`
	Equip    []wgerNamed   `json:"equipment"`
	Trans    []wgerTransln `json:"translations"`
}

type wgerNamed struct {
	Name string `json:"name"`
}

type wgerTransln struct {
	Language    int    `json:"language"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type wgerImagePage struct {
	Next    string      `json:"next"`
	Results []wgerImage `json:"results"`
}

type wgerImage struct {
	Exercise int    `json:"exercise"`
	Image    string `json:"image"`
}

func (c *Client) fetchAll(ctx context.Context) ([]Exercise, error) {
	var exercises []Exercise

	pageURL := fmt.Sprintf("%s/exerciseinfo/?language=%d&limit=%d", c.baseURL, englishLanguageID, pageSize)
	for pageURL != "" {
		var page wgerPage
		if err := c.getJSON(ctx, pageURL, &page); err != nil {
			// Return whatever was collected so far; partial data still
			// beats an empty catalog.
			log.Error().Err(err).Str("url", pageURL).Msg("Failed to fetch exercise page")
			break
		}

		for _, item := range page.Results {
			ex, ok := mapWgerExercise(item)
			if ok {
				exercises = append(exercises, ex)
			}
		}
		pageURL = page.Next
	}

	if len(exercises) == 0 {
		return nil, fmt.Errorf("no exercises returned from %s", c.baseURL)
	}

	c.attachBulkImages(ctx, exercises)
	return exercises, nil
}

// mapWgerExercise converts a wger payload entry into a catalog Exercise,
// preferring the English translation when the top-level name is empty.
func mapWgerExercise(item wgerExerciseInfo) (Exercise, bool) {
	name := item.Name
	description := ""

	for _, tr := range item.Trans {
		if tr.Language == englishLanguageID {
			if name == "" {
				name = tr.Name
			}
			description = tr.Description
			break
		}
	}
	if name == "" && len(item.Trans) > 0 {
		name = item.Trans[0].Name
	}
	if name == "" {
		return Exercise{}, false
	}

	category := item.Category.Name
	if category == "" {
		category = "Other"
	}

	tags := make([]string, 0, len(item.Equip)+len(item.Muscles))
	for _, eq := range item.Equip {
		if eq.Name != "" {
			tags = append(tags, eq.Name)
		}
	}
	for _, mu := range item.Muscles {
		if mu.Name != "" {
			tags = append(tags, mu.Name)
		}
	}

	return Exercise{
		ID:                strconv.Itoa(item.ID),
		Name:              name,
		Category:          category,
		Tags:              tags,
		Description:       description,
		Contraindications: []string{},
	}, true
}

// attachBulkImages fetches the image listing in pages and maps each image
// back onto its exercise. Image failures only cost us thumbnails, never
// the catalog itself.
func (c *Client) attachBulkImages(ctx context.Context, exercises []Exercise) {
	imageByID := make(map[string]string)

	pageURL := fmt.Sprintf("%s/exerciseimage/?limit=500", c.baseURL)
	for pageURL != "" {
		var page wgerImagePage
		if err := c.getJSON(ctx, pageURL, &page); err != nil {
			log.Warn().Err(err).Str("url", pageURL).Msg("Failed to fetch exercise images")
			return
		}
		for _, img := range page.Results {
			if img.Image != "" {
				imageByID[strconv.Itoa(img.Exercise)] = img.Image
			}
		}
		pageURL = page.Next
	}

	for i := range exercises {
		if u, ok := imageByID[exercises[i].ID]; ok {
			exercises[i].ImageURL = u
		}
	}
}

// SearchImage resolves an image URL for a single exercise name via the
// wger search endpoint. Used for on-the-fly lookups when an LLM suggests
// an exercise the hydrated snapshot has no thumbnail for.
func (c *Client) SearchImage(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	searchURL := fmt.Sprintf("%s/exercise/search/?format=json&language=english&term=%s", c.baseURL, url.QueryEscape(name))

	var payload struct {
		Suggestions []struct {
			Data struct {
				Image string `json:"image"`
			} `json:"data"`
		} `json:"suggestions"`
	}
	if err := c.getJSON(ctx, searchURL, &payload); err != nil {
		return "", err
	}
	for _, s := range payload.Suggestions {
		if s.Data.Image != "" {
			return s.Data.Image, nil
		}
	}
	return "", nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned non-200 status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
