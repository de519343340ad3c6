package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrDelivery wraps outbound send failures. The core logs these; they never
// propagate to the webhook caller.
var ErrDelivery = errors.New("telegram delivery failed")

// maxFileSize caps screenshot downloads (Bot API files top out at 20 MB).
const maxFileSize = 20 << 20

// Client talks to the Telegram Bot API
type Client struct {
	token  string
	apiURL string
	client *http.Client
}

// NewClient creates a new Bot API client. An empty token yields a client
// whose sends fail with ErrDelivery, matching a deployment without a bot.
func NewClient(token string) *Client {
	return &Client{
		token:  token,
		apiURL: "https://api.telegram.org",
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// SendMessage delivers one outbound text to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text, parseMode string) error {
	if c.token == "" {
		return fmt.Errorf("%w: bot token not configured", ErrDelivery)
	}

	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: parseMode})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("%w: status %d", ErrDelivery, resp.StatusCode)
	}
	if !api.OK {
		return fmt.Errorf("%w: %s", ErrDelivery, api.Description)
	}
	return nil
}

type fileResult struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size,omitempty"`
}

// DownloadFile resolves a file id via getFile and fetches its bytes. Used for
// screenshot analysis; callers bound the context.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	if c.token == "" {
		return nil, fmt.Errorf("bot token not configured")
	}

	url := fmt.Sprintf("%s/bot%s/getFile?file_id=%s", c.apiURL, c.token, fileID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getFile: %w", err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("getFile: decode: %w", err)
	}
	if !api.OK {
		return nil, fmt.Errorf("getFile: %s", api.Description)
	}
	var file fileResult
	if err := json.Unmarshal(api.Result, &file); err != nil {
		return nil, fmt.Errorf("getFile: decode result: %w", err)
	}

	fileURL := fmt.Sprintf("%s/file/bot%s/%s", c.apiURL, c.token, file.FilePath)
	fileReq, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return nil, err
	}
	fileResp, err := c.client.Do(fileReq)
	if err != nil {
		return nil, fmt.Errorf("file download: %w", err)
	}
	defer fileResp.Body.Close()

	if fileResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download: status %d", fileResp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(fileResp.Body, maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("file download: %w", err)
	}
	return data, nil
}
