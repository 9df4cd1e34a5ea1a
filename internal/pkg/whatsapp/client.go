package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the WhatsApp gateway bot over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Send posts the message to the gateway. Only HTTP 200 counts as delivered.
func (c *Client) Send(ctx context.Context, recipient string, message string) error {
	target := FormatRecipient(recipient)
	if target == "" {
		return ErrEmptyRecipient
	}

	body, err := json.Marshal(sendMessageRequest{Phone: target, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send/message", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway returned status %d", ErrSendFailed, resp.StatusCode)
	}
	return nil
}

// Status describes the gateway's linked WhatsApp account.
type Status struct {
	Connected bool   `json:"connected"`
	Status    string `json:"status"`
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type userInfoResponse struct {
	Results *struct {
		VerifiedName string `json:"verified_name"`
		PushName     string `json:"push_name"`
		Phone        string `json:"phone"`
	} `json:"results"`
}

// Status asks the gateway whether a WhatsApp account is logged in.
func (c *Client) Status(ctx context.Context) Status {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user/info", nil)
	if err != nil {
		return Status{Status: "error"}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return Status{Status: "timeout"}
		}
		return Status{Status: "error"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Status{Status: "disconnected"}
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Results == nil {
		return Status{Status: "disconnected"}
	}

	name := info.Results.VerifiedName
	if name == "" {
		name = info.Results.PushName
	}
	return Status{Connected: true, Status: "active", Name: name, Phone: info.Results.Phone}
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	t, ok := err.(timeout)
	return ok && t.Timeout()
}
