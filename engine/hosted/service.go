package hosted

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/auth"
	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/network"
)

const defaultServiceBase = "https://edge.api.brightcove.com/playback/v1"

// Service is the HTTP implementation of LookupService. Requests are
// authorized with the account's policy key.
type Service struct {
	BaseURL   string
	AccountID string
	PolicyKey string
	Client    *http.Client
}

// NewService builds a lookup service from the configured account ID and the
// policy key stored in the system keyring.
func NewService() (*Service, error) {
	policyKey, err := auth.GetPolicyKey()
	if err != nil {
		return nil, fmt.Errorf("hosted policy key: %w", err)
	}
	return &Service{
		BaseURL:   defaultServiceBase,
		AccountID: viper.GetString(key.HostedAccountID),
		PolicyKey: policyKey,
		Client:    network.Client,
	}, nil
}

// videoResponse is the service's wire format. Durations come in milliseconds.
type videoResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int64  `json:"duration"`
	Sources  []struct {
		Src  string `json:"src"`
		Type string `json:"type"`
	} `json:"sources"`
}

// FindVideo implements LookupService.
func (s *Service) FindVideo(ctx context.Context, contentID string) (Video, error) {
	endpoint := fmt.Sprintf(
		"%s/accounts/%s/videos/%s",
		strings.TrimRight(s.BaseURL, "/"),
		url.PathEscape(s.AccountID),
		url.PathEscape(contentID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Video{}, fmt.Errorf("hosted lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "BCOV-Policy "+s.PolicyKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return Video{}, fmt.Errorf("hosted lookup %q: %w", contentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Video{}, fmt.Errorf("hosted lookup %q: unexpected status %s", contentID, resp.Status)
	}

	var body videoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Video{}, fmt.Errorf("hosted lookup %q: decode: %w", contentID, err)
	}

	src, err := pickSource(body)
	if err != nil {
		return Video{}, fmt.Errorf("hosted lookup %q: %w", contentID, err)
	}

	return Video{
		ID:        body.ID,
		Title:     body.Name,
		StreamURL: src,
		Duration:  float64(body.Duration) / 1000,
	}, nil
}

// pickSource prefers the first https rendition and falls back to the first
// source of any scheme.
func pickSource(body videoResponse) (string, error) {
	if len(body.Sources) == 0 {
		return "", fmt.Errorf("video %q has no sources", body.ID)
	}
	for _, source := range body.Sources {
		if strings.HasPrefix(source.Src, "https://") {
			return source.Src, nil
		}
	}
	return body.Sources[0].Src, nil
}
