package source

import (
	"context"
	"time"

	"deal-pulse/internal/domain"
)

// ContentItem is one raw unit of text-bearing content from an external
// channel. Which field carries the scoreable text depends on the channel.
type ContentItem struct {
	Type        string
	Message     string
	Description string
	Text        string
	Content     string
	URL         string
	CreatedAt   time.Time
}

// Fetcher pulls recent content for an identifier (a username, handle, or
// profile URL, depending on the channel).
type Fetcher interface {
	Fetch(ctx context.Context, identifier string) ([]ContentItem, error)
}

// Registry maps source names to their fetchers.
type Registry struct {
	fetchers map[string]Fetcher
}

func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]Fetcher)}
}

func (r *Registry) Register(name string, f Fetcher) {
	r.fetchers[name] = f
}

func (r *Registry) Fetcher(name string) (Fetcher, bool) {
	f, ok := r.fetchers[name]
	return f, ok
}

// ExtractText picks the scoreable text field for a source channel. Code-hosting
// activity carries a message with a description fallback; short-form posts use
// the text body; long-form posts use content. Unknown sources yield nothing.
func ExtractText(item ContentItem, source string) string {
	switch source {
	case domain.SourceGitHub:
		if item.Message != "" {
			return item.Message
		}
		return item.Description
	case domain.SourceTwitter:
		return item.Text
	case domain.SourceLinkedIn:
		return item.Content
	default:
		return ""
	}
}

// Identifier picks the lookup handle a source needs from a deal. Code hosting
// keys off the website (falling back to the company name); social channels key
// off the contact.
func Identifier(deal domain.Deal, source string) string {
	switch source {
	case domain.SourceGitHub:
		if deal.Website != "" {
			return deal.Website
		}
		return deal.Company
	case domain.SourceTwitter, domain.SourceLinkedIn:
		if deal.Contact != "" {
			return deal.Contact
		}
		return deal.Company
	default:
		return ""
	}
}
