// Package notify posts failure entries to an operator-configured webhook so
// failed verifications can be followed up manually.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Notifier struct {
	url    string
	client *http.Client
}

// New returns a notifier for url. An empty url yields a no-op notifier.
func New(url string) *Notifier {
	return &Notifier{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (n *Notifier) Post(entry any) error {
	if n.url == "" {
		return nil
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
