package source

import (
	"context"
	"log"
)

// LinkedInFetcher is a placeholder: the LinkedIn API requires an OAuth consent
// flow before posts can be read, so without credentials (and a stored user
// grant) it fetches nothing.
type LinkedInFetcher struct {
	clientID     string
	clientSecret string
}

func NewLinkedInFetcher(clientID, clientSecret string) *LinkedInFetcher {
	return &LinkedInFetcher{clientID: clientID, clientSecret: clientSecret}
}

func (f *LinkedInFetcher) Fetch(ctx context.Context, identifier string) ([]ContentItem, error) {
	if f.clientID == "" || f.clientSecret == "" {
		log.Println("LinkedIn API credentials not configured, skipping post fetch")
		return nil, nil
	}

	// TODO: wire the OAuth flow once a consent UI exists; until then there is
	// no access token to call the API with.
	log.Println("LinkedIn integration pending OAuth consent flow")
	return nil, nil
}
