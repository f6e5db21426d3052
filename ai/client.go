package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eraydn/odak/metrics"
)

// ChatMessage, AI gateway'e gönderilen konuşma geçmişinin bir satırı.
// Role: "user", "assistant" veya "system".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client, AI gateway HTTP istemcisi.
//
// İki endpoint konuşur:
//   - chatURL: SSE streaming asistan yanıtı (side thread içi sohbet)
//   - summarizeURL: tek seferlik özet (thread → grup aktarımı)
type Client struct {
	httpClient   *http.Client
	chatURL      string
	summarizeURL string
	apiKey       string
}

// NewClient, config değerleriyle bir Client oluşturur.
//
// Streaming istekler uzun sürer — timeout bağlantı kurulumuna değil
// toplam isteğe uygulanır, bu yüzden cömert tutulur. Asıl iptal yolu
// context'tir.
func NewClient(chatURL, summarizeURL, apiKey string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		chatURL:      chatURL,
		summarizeURL: summarizeURL,
		apiKey:       apiKey,
	}
}

// chatRequest, streaming chat endpoint'inin istek gövdesi.
// Context opsiyoneldir — konuşmanın geçtiği yerin kısa tarifi
// (ör. side thread adı); boşsa gövdeye hiç yazılmaz.
type chatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Context  string        `json:"context,omitempty"`
}

// StreamChat, konuşma geçmişini gateway'e gönderir ve yanıtı stream eder.
//
// chatContext, isteğin opsiyonel context alanına yazılır.
// Her content delta'sı geldiğinde onDelta çağrılır (broadcast için).
// Dönüş değeri tamamlanmış yanıt metnidir — kalıcılaştırma için.
func (c *Client) StreamChat(ctx context.Context, messages []ChatMessage, chatContext string, onDelta func(delta string)) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages: messages,
		Context:  chatContext,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.AIRequests.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.AIRequests.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("chat request failed with status %d", resp.StatusCode)
	}

	var full bytes.Buffer
	assembler := &StreamAssembler{}
	buf := make([]byte, 4096)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, delta := range assembler.Push(buf[:n]) {
				full.WriteString(delta)
				onDelta(delta)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			metrics.AIRequests.WithLabelValues("chat", "error").Inc()
			return full.String(), fmt.Errorf("read chat stream: %w", readErr)
		}
		if assembler.Done() {
			break
		}
	}

	// EOF sonrası buffer'da newline'sız son satır kalmış olabilir
	for _, delta := range assembler.Flush() {
		full.WriteString(delta)
		onDelta(delta)
	}

	metrics.AIRequests.WithLabelValues("chat", "ok").Inc()
	return full.String(), nil
}

// summarizeRequest / summarizeResponse, özet endpoint'inin sözleşmesi.
type summarizeRequest struct {
	ThreadContext string `json:"threadContext"`
	ThreadName    string `json:"threadName"`
}

type summarizeResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Summarize, thread dökümünü gönderir ve özet metnini döner (streaming yok).
func (c *Client) Summarize(ctx context.Context, threadName, transcript string) (string, error) {
	body, err := json.Marshal(summarizeRequest{
		ThreadContext: transcript,
		ThreadName:    threadName,
	})
	if err != nil {
		return "", fmt.Errorf("marshal summarize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.summarizeURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.AIRequests.WithLabelValues("summarize", "error").Inc()
		return "", fmt.Errorf("summarize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.AIRequests.WithLabelValues("summarize", "error").Inc()
		return "", fmt.Errorf("summarize request failed with status %d", resp.StatusCode)
	}

	var result summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.AIRequests.WithLabelValues("summarize", "error").Inc()
		return "", fmt.Errorf("decode summarize response: %w", err)
	}

	if result.Error != "" {
		metrics.AIRequests.WithLabelValues("summarize", "error").Inc()
		return "", fmt.Errorf("summarize failed: %s", result.Error)
	}

	metrics.AIRequests.WithLabelValues("summarize", "ok").Inc()
	return result.Content, nil
}
