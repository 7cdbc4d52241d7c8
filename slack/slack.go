// Package slack posts recipe announcements to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends messages to one incoming webhook.
type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

type message struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// PostMessage posts text to channel. Any status other than 200 is an error.
func (c *Client) PostMessage(ctx context.Context, channel string, text string) error {
	payload, err := json.Marshal(message{Channel: channel, Text: text})
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}
	return nil
}
