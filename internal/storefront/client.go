package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	accessTokenHeader = "X-Shopify-Storefront-Access-Token"
	defaultTimeout    = 10 * time.Second
)

// Client posts GraphQL documents to the remote storefront API endpoint.
// Every call is independent and stateless; failures are surfaced
// immediately with no retries.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	log      *logrus.Entry
}

func NewClient(endpoint, token string, logger *logrus.Logger) *Client {
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		token:    token,
		http:     &http.Client{Timeout: defaultTimeout},
		log:      logger.WithField("component", "storefront"),
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// Do executes one named operation and decodes the data payload into out.
// Transport failures and top-level GraphQL errors become a *TransportError;
// user errors are left to the typed operation wrappers to interpret.
func (c *Client) Do(ctx context.Context, op, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return &TransportError{Op: op, Err: errors.Wrap(err, "encode request")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, Err: fmt.Errorf("storefront API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))}
	}

	var decoded graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return &TransportError{Op: op, Err: errors.Wrap(err, "decode response")}
	}
	if len(decoded.Errors) > 0 {
		msgs := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			msgs = append(msgs, e.Message)
		}
		c.log.WithField("op", op).Warnf("graphql errors: %s", strings.Join(msgs, ", "))
		return &TransportError{Op: op, Err: errors.New(strings.Join(msgs, ", "))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return &TransportError{Op: op, Err: errors.Wrap(err, "decode data")}
	}
	return nil
}
