package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultGitHubAPIURL = "https://api.github.com"

var githubURLPattern = regexp.MustCompile(`github\.com/([^/]+)`)

// GitHubFetcher pulls a user's recent public activity: push events, authored
// issues, and authored pull requests.
type GitHubFetcher struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewGitHubFetcher(token string) *GitHubFetcher {
	return &GitHubFetcher{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultGitHubAPIURL,
		token:   token,
	}
}

func (f *GitHubFetcher) Fetch(ctx context.Context, identifier string) ([]ContentItem, error) {
	if f.token == "" {
		log.Println("GitHub token not configured, skipping activity fetch")
		return nil, nil
	}

	username := extractGitHubUsername(identifier)
	if username == "" {
		return nil, nil
	}

	items := make([]ContentItem, 0, 50)

	commits, err := f.fetchCommits(ctx, username)
	if err != nil {
		log.Printf("github commits fetch error for %s: %v", username, err)
	}
	items = append(items, commits...)

	issues, err := f.fetchSearchIssues(ctx, username, "issue")
	if err != nil {
		log.Printf("github issues fetch error for %s: %v", username, err)
	}
	items = append(items, issues...)

	prs, err := f.fetchSearchIssues(ctx, username, "pr")
	if err != nil {
		log.Printf("github pull requests fetch error for %s: %v", username, err)
	}
	items = append(items, prs...)

	return items, nil
}

// extractGitHubUsername resolves a username from a github.com URL or a bare
// handle. Dotted strings that are not GitHub URLs look like unrelated domains
// and resolve to nothing.
func extractGitHubUsername(input string) string {
	if m := githubURLPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	if strings.Contains(input, ".") {
		return ""
	}
	return input
}

type githubEvent struct {
	Type string `json:"type"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload struct {
		Commits []struct {
			Message string `json:"message"`
		} `json:"commits"`
	} `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *GitHubFetcher) fetchCommits(ctx context.Context, username string) ([]ContentItem, error) {
	var events []githubEvent
	endpoint := fmt.Sprintf("%s/users/%s/events?per_page=30", f.baseURL, url.PathEscape(username))
	if err := f.getJSON(ctx, endpoint, &events); err != nil {
		return nil, err
	}

	items := make([]ContentItem, 0, len(events))
	for _, ev := range events {
		if ev.Type != "PushEvent" {
			continue
		}
		message := "Commit"
		if len(ev.Payload.Commits) > 0 && ev.Payload.Commits[0].Message != "" {
			message = ev.Payload.Commits[0].Message
		}
		items = append(items, ContentItem{
			Type:      "commit",
			Message:   message,
			URL:       "https://github.com/" + ev.Repo.Name,
			CreatedAt: ev.CreatedAt,
		})
	}
	return items, nil
}

type githubSearchResult struct {
	Items []struct {
		Title     string    `json:"title"`
		Body      string    `json:"body"`
		HTMLURL   string    `json:"html_url"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"items"`
}

func (f *GitHubFetcher) fetchSearchIssues(ctx context.Context, username, kind string) ([]ContentItem, error) {
	query := url.QueryEscape(fmt.Sprintf("author:%s is:%s", username, kind))
	endpoint := fmt.Sprintf("%s/search/issues?q=%s&sort=created&order=desc&per_page=10", f.baseURL, query)

	var result githubSearchResult
	if err := f.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	itemType := "issue"
	if kind == "pr" {
		itemType = "pull_request"
	}

	items := make([]ContentItem, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, ContentItem{
			Type:        itemType,
			Message:     it.Title,
			Description: it.Body,
			URL:         it.HTMLURL,
			CreatedAt:   it.CreatedAt,
		})
	}
	return items, nil
}

func (f *GitHubFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
