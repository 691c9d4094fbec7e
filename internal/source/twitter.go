package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTwitterAPIURL = "https://api.twitter.com/2"

// TwitterFetcher pulls a user's recent tweets. Most v2 endpoints need paid
// access; with no bearer token configured it fetches nothing.
type TwitterFetcher struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewTwitterFetcher(token string) *TwitterFetcher {
	return &TwitterFetcher{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultTwitterAPIURL,
		token:   token,
	}
}

func (f *TwitterFetcher) Fetch(ctx context.Context, identifier string) ([]ContentItem, error) {
	if f.token == "" {
		log.Println("Twitter bearer token not configured, skipping tweet fetch")
		return nil, nil
	}

	username := strings.TrimPrefix(strings.TrimSpace(identifier), "@")
	if username == "" {
		return nil, nil
	}

	userID, err := f.lookupUserID(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user %s: %w", username, err)
	}
	if userID == "" {
		return nil, nil
	}

	var payload struct {
		Data []struct {
			ID        string    `json:"id"`
			Text      string    `json:"text"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/users/%s/tweets?max_results=20&tweet.fields=created_at,text", f.baseURL, url.PathEscape(userID))
	if err := f.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch tweets for %s: %w", username, err)
	}

	items := make([]ContentItem, 0, len(payload.Data))
	for _, tweet := range payload.Data {
		items = append(items, ContentItem{
			Type:      "tweet",
			Text:      tweet.Text,
			URL:       fmt.Sprintf("https://twitter.com/%s/status/%s", username, tweet.ID),
			CreatedAt: tweet.CreatedAt,
		})
	}
	return items, nil
}

func (f *TwitterFetcher) lookupUserID(ctx context.Context, username string) (string, error) {
	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/users/by/username/%s", f.baseURL, url.PathEscape(username))
	if err := f.getJSON(ctx, endpoint, &payload); err != nil {
		return "", err
	}
	return payload.Data.ID, nil
}

func (f *TwitterFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("twitter api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
