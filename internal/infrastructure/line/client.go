// Package line adaptador de la API de mensajería (respuestas y firma del webhook).
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/internal/application/ports"
)

var _ ports.ReplySender = (*Client)(nil)

const (
	replyPath = "/v2/bot/message/reply"
	// maxTextLength límite de caracteres de un mensaje de texto de la plataforma.
	maxTextLength = 5000
	// maxQuickReplyItems límite de botones de respuesta rápida por mensaje.
	maxQuickReplyItems = 13
)

// Client envía respuestas usando la API REST con net/http; no usa el SDK oficial.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient construye el adaptador. Con token vacío las llamadas devuelven error descriptivo.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ── Estructuras del protocolo ────────────────────────────────────────────────

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

type textMessage struct {
	Type       string      `json:"type"`
	Text       string      `json:"text"`
	QuickReply *quickReply `json:"quickReply,omitempty"`
}

type quickReply struct {
	Items []quickReplyItem `json:"items"`
}

type quickReplyItem struct {
	Type   string        `json:"type"`
	Action messageAction `json:"action"`
}

type messageAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Reply responde al evento identificado por replyToken con un único mensaje de texto.
func (c *Client) Reply(ctx context.Context, replyToken string, r dto.Reply) error {
	if c.token == "" {
		return fmt.Errorf("LINE: LINE_CHANNEL_ACCESS_TOKEN no configurado")
	}

	body, err := json.Marshal(buildReplyRequest(replyToken, r))
	if err != nil {
		return fmt.Errorf("LINE: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+replyPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("LINE: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("LINE: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("LINE: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && e.Message != "" {
		return fmt.Errorf("LINE: HTTP %d: %s", resp.StatusCode, e.Message)
	}
	return fmt.Errorf("LINE: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}

func buildReplyRequest(replyToken string, r dto.Reply) replyRequest {
	msg := textMessage{Type: "text", Text: truncateRunes(r.Text, maxTextLength)}
	if len(r.QuickReplies) > 0 {
		n := len(r.QuickReplies)
		if n > maxQuickReplyItems {
			n = maxQuickReplyItems
		}
		items := make([]quickReplyItem, 0, n)
		for _, q := range r.QuickReplies[:n] {
			items = append(items, quickReplyItem{
				Type: "action",
				Action: messageAction{
					Type:  "message",
					Label: truncateRunes(q.Label, dto.MaxQuickReplyLabel),
					Text:  q.Text,
				},
			})
		}
		msg.QuickReply = &quickReply{Items: items}
	}
	return replyRequest{ReplyToken: replyToken, Messages: []textMessage{msg}}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
