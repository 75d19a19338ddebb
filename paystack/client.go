// Package paystack is a minimal client for the Paystack transaction
// verification endpoint. It only knows how to fetch and decode; deciding
// whether a transaction is acceptable belongs to the verify package.
package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Transaction is the gateway's record of a payment attempt. Amount is in the
// smallest currency unit (kobo for NGN), exactly as Paystack reports it.
type Transaction struct {
	Reference     string
	Status        string
	Currency      string
	Amount        int64
	CustomerEmail string
	PaidAt        string
	Channel       string
}

// StatusError is a non-2xx answer from the gateway. Message carries the
// gateway's own message when the body parsed, otherwise "paystack-http-<code>".
type StatusError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("paystack: http %d: %s", e.StatusCode, e.Message)
}

// ContractError means the gateway answered 2xx but the body did not match the
// documented shape (unparseable JSON, missing data object, wrong field types).
type ContractError struct {
	Detail string
	Body   json.RawMessage
}

func (e *ContractError) Error() string {
	return "paystack: " + e.Detail
}

type Client struct {
	Secret     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(secret, baseURL string) *Client {
	return &Client{
		Secret:  secret,
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// envelope is the outer Paystack response. Pointer fields keep "absent"
// distinguishable from zero values.
type envelope struct {
	Status  *bool            `json:"status"`
	Message *string          `json:"message"`
	Data    *json.RawMessage `json:"data"`
}

type txnPayload struct {
	Reference *string `json:"reference"`
	Status    *string `json:"status"`
	Currency  *string `json:"currency"`
	Amount    *int64  `json:"amount"`
	PaidAt    *string `json:"paid_at"`
	Channel   *string `json:"channel"`
	Customer  *struct {
		Email *string `json:"email"`
	} `json:"customer"`
}

// Verify fetches the authoritative transaction record for reference. Transport
// failures are returned as-is; HTTP and decode failures come back as
// *StatusError and *ContractError.
func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s",
		strings.TrimRight(c.BaseURL, "/"), url.PathEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("paystack-http-%d", resp.StatusCode)
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Message != nil && *env.Message != "" {
			msg = *env.Message
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg, Body: body}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ContractError{Detail: "malformed gateway response: " + err.Error(), Body: body}
	}
	if env.Data == nil {
		return nil, &ContractError{Detail: "gateway response missing data object", Body: body}
	}

	var p txnPayload
	if err := json.Unmarshal(*env.Data, &p); err != nil {
		return nil, &ContractError{Detail: "malformed transaction record: " + err.Error(), Body: body}
	}

	txn := &Transaction{
		Reference: deref(p.Reference),
		Status:    deref(p.Status),
		Currency:  deref(p.Currency),
		PaidAt:    deref(p.PaidAt),
		Channel:   deref(p.Channel),
	}
	if p.Amount != nil {
		txn.Amount = *p.Amount
	}
	if p.Customer != nil {
		txn.CustomerEmail = deref(p.Customer.Email)
	}
	return txn, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
