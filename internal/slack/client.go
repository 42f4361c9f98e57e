package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/octobees/foodbot/internal/entity"
)

// Message is the payload posted to a channel: plain text, rich
// attachments, or both.
type Message struct {
	Text        string              `json:"text,omitempty"`
	Attachments []entity.Attachment `json:"attachments,omitempty"`
}

// Text builds a plain-text message.
func Text(text string) Message {
	return Message{Text: text}
}

// Messenger posts messages into a channel.
type Messenger interface {
	PostMessage(ctx context.Context, channel string, msg Message) error
}

// Directory resolves user identities.
type Directory interface {
	UserInfo(ctx context.Context, userID string) (*entity.User, error)
}

// Client talks to the Slack Web API with a bot token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient builds a Slack client. A nil http.Client gets a sane timeout.
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage sends a chat.postMessage call for the given channel.
func (c *Client) PostMessage(ctx context.Context, channel string, msg Message) error {
	payload := struct {
		Channel string `json:"channel"`
		Message
	}{Channel: channel, Message: msg}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal chat.postMessage payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create chat.postMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	var env apiEnvelope
	if err := c.do(req, &env); err != nil {
		return err
	}
	if !env.OK {
		return fmt.Errorf("slack api error: %s", env.Error)
	}
	return nil
}

// UserInfo resolves a user id through users.info.
func (c *Client) UserInfo(ctx context.Context, userID string) (*entity.User, error) {
	endpoint := c.baseURL + "/users.info?" + url.Values{"user": {userID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create users.info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	var resp struct {
		apiEnvelope
		User struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Profile struct {
				RealName string `json:"real_name"`
			} `json:"profile"`
		} `json:"user"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("slack api error: %s", resp.Error)
	}

	return &entity.User{
		ID:       resp.User.ID,
		Name:     resp.User.Name,
		RealName: resp.User.Profile.RealName,
	}, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode slack response: %w", err)
	}
	return nil
}

var (
	_ Messenger = (*Client)(nil)
	_ Directory = (*Client)(nil)
)
