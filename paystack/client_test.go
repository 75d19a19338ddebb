package paystack_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow-backend/paystack"
)

func TestClient_Verify_Success(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"reference": "ref_123",
				"status": "success",
				"currency": "NGN",
				"amount": 5000,
				"paid_at": "2025-08-01T10:00:00.000Z",
				"channel": "card",
				"customer": {"email": "buyer@example.com"}
			}
		}`))
	}))
	defer server.Close()

	client := paystack.NewClient("sk_test_abc", server.URL)
	txn, err := client.Verify(context.Background(), "ref_123")
	require.NoError(t, err)

	assert.Equal(t, "/transaction/verify/ref_123", gotPath)
	assert.Equal(t, "Bearer sk_test_abc", gotAuth)
	assert.Equal(t, "ref_123", txn.Reference)
	assert.Equal(t, "success", txn.Status)
	assert.Equal(t, "NGN", txn.Currency)
	assert.Equal(t, int64(5000), txn.Amount)
	assert.Equal(t, "buyer@example.com", txn.CustomerEmail)
	assert.Equal(t, "2025-08-01T10:00:00.000Z", txn.PaidAt)
	assert.Equal(t, "card", txn.Channel)
}

func TestClient_Verify_EscapesReference(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"status": true, "data": {"status": "success", "amount": 100}}`))
	}))
	defer server.Close()

	client := paystack.NewClient("sk_test_abc", server.URL)
	_, err := client.Verify(context.Background(), "ref/with space")
	require.NoError(t, err)
	assert.Equal(t, "/transaction/verify/ref%2Fwith%20space", gotPath)
}

func TestClient_Verify_GatewayErrors(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		body        string
		wantMessage string
	}{
		{
			name:        "non-2xx with gateway message",
			statusCode:  404,
			body:        `{"status": false, "message": "Transaction reference not found"}`,
			wantMessage: "Transaction reference not found",
		},
		{
			name:        "non-2xx with unparseable body",
			statusCode:  500,
			body:        `<html>Internal Server Error</html>`,
			wantMessage: "paystack-http-500",
		},
		{
			name:        "non-2xx with empty message",
			statusCode:  401,
			body:        `{"status": false, "message": ""}`,
			wantMessage: "paystack-http-401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := paystack.NewClient("sk_test_abc", server.URL)
			txn, err := client.Verify(context.Background(), "ref_x")
			require.Error(t, err)
			assert.Nil(t, txn)

			var statusErr *paystack.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.statusCode, statusErr.StatusCode)
			assert.Equal(t, tt.wantMessage, statusErr.Message)
		})
	}
}

func TestClient_Verify_ContractViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unparseable body", body: `not json at all`},
		{name: "missing data object", body: `{"status": true, "message": "ok"}`},
		{name: "data has wrong field type", body: `{"status": true, "data": {"amount": "five thousand"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := paystack.NewClient("sk_test_abc", server.URL)
			txn, err := client.Verify(context.Background(), "ref_x")
			require.Error(t, err)
			assert.Nil(t, txn)

			var contractErr *paystack.ContractError
			assert.ErrorAs(t, err, &contractErr)
		})
	}
}

func TestClient_Verify_AbsentFieldsDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": true, "data": {"status": "success"}}`))
	}))
	defer server.Close()

	client := paystack.NewClient("sk_test_abc", server.URL)
	txn, err := client.Verify(context.Background(), "ref_x")
	require.NoError(t, err)
	assert.Equal(t, int64(0), txn.Amount)
	assert.Empty(t, txn.Currency)
	assert.Empty(t, txn.CustomerEmail)
	assert.Empty(t, txn.PaidAt)
}
