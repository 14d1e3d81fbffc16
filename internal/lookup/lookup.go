package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sendgrid/rest"

	"github.com/cruxstack/find-my-rep-go/internal/types"
)

var (
	ErrNotConfigured     = errors.New("API URL not configured.")
	ErrFetchFailed       = errors.New("Failed to fetch representatives.")
	ErrInvalidResponse   = errors.New("Invalid response from API.")
	ErrNoRepresentatives = errors.New("No representatives found for this postcode.")
	ErrMissingPostcode   = errors.New("Please enter a postcode.")
)

// StatusError is returned when the lookup API answers with a non-200 status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status code: %d", e.StatusCode)
}

// Message returns the visitor facing text for a lookup error.
func Message(err error) string {
	var se *StatusError
	switch {
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, ErrNotConfigured):
		return ErrNotConfigured.Error()
	case errors.Is(err, ErrInvalidResponse):
		return ErrInvalidResponse.Error()
	case errors.Is(err, ErrNoRepresentatives):
		return ErrNoRepresentatives.Error()
	case errors.Is(err, ErrMissingPostcode):
		return ErrMissingPostcode.Error()
	default:
		return ErrFetchFailed.Error()
	}
}

// Client fetches representatives for a postcode from the configured API.
type Client struct {
	HTTP   *rest.Client
	APIURL string
}

// NewClient builds a lookup client. A nil httpClient falls back to one with
// a 10 second timeout.
func NewClient(apiURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		HTTP:   &rest.Client{HTTPClient: httpClient},
		APIURL: strings.TrimRight(apiURL, "/"),
	}
}

// Lookup returns the representatives for postcode, flattened into a single
// list.
func (c *Client) Lookup(ctx context.Context, postcode string) ([]types.Representative, error) {
	if c.APIURL == "" {
		return nil, ErrNotConfigured
	}

	postcode = strings.TrimSpace(postcode)
	if postcode == "" {
		return nil, ErrMissingPostcode
	}

	response, err := c.HTTP.SendWithContext(ctx, rest.Request{
		Method:  rest.Get,
		BaseURL: c.APIURL + "/" + url.QueryEscape(postcode),
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		slog.WarnContext(ctx, "representative lookup failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: response.StatusCode}
	}

	reps, err := Normalize([]byte(response.Body))
	if err != nil {
		return nil, err
	}
	if len(reps) == 0 {
		return nil, ErrNoRepresentatives
	}

	return reps, nil
}
