package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/ledger-bot/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseBytes caps how much of a webhook reply is read.
const maxResponseBytes = 1 << 20

// WebhookClient is the HTTP implementation of Gateway. Writes go to one
// endpoint and queries to another; both are plain GET requests with the
// operation encoded in query parameters.
type WebhookClient struct {
	writeURL   string
	queryURL   string
	httpClient *http.Client
}

var _ Gateway = (*WebhookClient)(nil)

type webhookResponse struct {
	Status  json.RawMessage `json:"status"`
	Message json.RawMessage `json:"message"`
	Total   json.RawMessage `json:"total"`
}

// NewWebhookClient creates a webhook client. A zero timeout means requests
// are bounded only by their context.
func NewWebhookClient(writeURL, queryURL string, timeout time.Duration) *WebhookClient {
	if timeout < 0 {
		timeout = 0
	}

	return &WebhookClient{
		writeURL: strings.TrimSpace(writeURL),
		queryURL: strings.TrimSpace(queryURL),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// RecordTransaction appends one transaction to the ledger.
func (c *WebhookClient) RecordTransaction(
	ctx context.Context,
	record models.TransactionRecord,
) (models.WriteResult, error) {
	params := url.Values{}
	params.Add("amount", record.Amount.String())
	params.Add("type", string(record.Direction))
	params.Add("note", record.Note)
	params.Add("timestamp", record.Timestamp)

	payload, err := c.get(ctx, c.writeURL, params)
	if err != nil {
		return models.WriteResult{}, &GatewayError{Op: "record transaction", Err: err}
	}

	status, message, err := decodeStatus(payload)
	if err != nil {
		return models.WriteResult{}, &GatewayError{Op: "record transaction", Err: err}
	}

	return models.WriteResult{Status: status, Message: message}, nil
}

// Query runs a query action. Successful total queries always carry a total.
func (c *WebhookClient) Query(ctx context.Context, action Action) (models.SummaryResult, error) {
	op := "query " + string(action)

	params := url.Values{}
	params.Add("action", string(action))

	payload, err := c.get(ctx, c.queryURL, params)
	if err != nil {
		return models.SummaryResult{}, &GatewayError{Op: op, Err: err}
	}

	status, message, err := decodeStatus(payload)
	if err != nil {
		return models.SummaryResult{}, &GatewayError{Op: op, Err: err}
	}

	result := models.SummaryResult{Status: status, Message: message}

	total, ok, err := decodeTotal(payload.Total)
	if err != nil {
		return models.SummaryResult{}, &GatewayError{Op: op, Err: err}
	}
	result.Total = total
	result.HasTotal = ok

	if result.OK() && action.wantsTotal() && !result.HasTotal {
		return models.SummaryResult{}, &GatewayError{
			Op:  op,
			Err: fmt.Errorf("%w: successful reply without total", ErrMalformedResponse),
		}
	}

	return result, nil
}

// get issues a GET to base with params appended to its existing query.
func (c *WebhookClient) get(ctx context.Context, base string, params url.Values) (*webhookResponse, error) {
	endpoint, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse webhook URL: %w", err)
	}

	query := endpoint.Query()
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	var payload webhookResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return &payload, nil
}

// decodeStatus extracts the required status and the optional message.
func decodeStatus(payload *webhookResponse) (string, string, error) {
	if isAbsent(payload.Status) {
		return "", "", fmt.Errorf("%w: missing status", ErrMalformedResponse)
	}

	var status string
	if err := json.Unmarshal(payload.Status, &status); err != nil {
		return "", "", fmt.Errorf("%w: status is not a string", ErrMalformedResponse)
	}

	return status, decodeMessage(payload.Message), nil
}

// decodeMessage returns string messages verbatim and any other JSON value as its raw text.
func decodeMessage(raw json.RawMessage) string {
	if isAbsent(raw) {
		return ""
	}

	var message string
	if err := json.Unmarshal(raw, &message); err == nil {
		return message
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

// decodeTotal parses an optional numeric total.
func decodeTotal(raw json.RawMessage) (decimal.Decimal, bool, error) {
	if isAbsent(raw) {
		return decimal.Zero, false, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	number, ok := value.(json.Number)
	if !ok {
		return decimal.Zero, false, fmt.Errorf("%w: total is not a number", ErrMalformedResponse)
	}

	total, err := decimal.NewFromString(number.String())
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: failed to parse total: %w", ErrMalformedResponse, err)
	}

	return total, true, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
