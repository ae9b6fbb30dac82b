package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/muttrapp/muttr/pkg/stt"
)

// Compile-time assertion that Server satisfies stt.Provider.
var _ stt.Provider = (*Server)(nil)

// Server implements stt.Provider against a running whisper.cpp server's
// /inference endpoint. The server returns plain text only, so transcripts
// carry no per-word confidence data.
type Server struct {
	serverURL  string
	language   string
	httpClient *http.Client
}

// ServerOption is a functional option for configuring a Server provider.
type ServerOption func(*Server)

// WithServerLanguage sets the default language code sent with each request.
func WithServerLanguage(lang string) ServerOption {
	return func(p *Server) { p.language = lang }
}

// WithHTTPClient replaces the HTTP client, for tests or custom timeouts.
func WithHTTPClient(c *http.Client) ServerOption {
	return func(p *Server) { p.httpClient = c }
}

// NewServer creates a Server provider targeting the whisper.cpp server at
// serverURL (e.g., "http://127.0.0.1:8080").
func NewServer(serverURL string, opts ...ServerOption) (*Server, error) {
	if serverURL == "" {
		return nil, errors.New("whisper: serverURL must not be empty")
	}
	p := &Server{
		serverURL:  strings.TrimRight(serverURL, "/"),
		language:   defaultLanguage,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Name returns the engine identifier.
func (p *Server) Name() string { return "whisper-server" }

// Close is a no-op; the provider holds no persistent resources.
func (p *Server) Close() error { return nil }

// Transcribe encodes samples as a WAV file and POSTs it to the /inference
// endpoint as multipart/form-data.
func (p *Server) Transcribe(ctx context.Context, samples []float32, opts stt.TranscribeOptions) (*stt.Transcript, error) {
	if len(samples) == 0 {
		return &stt.Transcript{}, nil
	}
	wav := encodeWAV(float32ToPCM16(samples), SampleRate, 1)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("whisper: create form file: %w", err)
	}
	if _, err := fw.Write(wav); err != nil {
		return nil, fmt.Errorf("whisper: write wav data: %w", err)
	}

	if err := mw.WriteField("response_format", "json"); err != nil {
		return nil, fmt.Errorf("whisper: write response_format field: %w", err)
	}
	lang := opts.Language
	if lang == "" {
		lang = p.language
	}
	if lang != "" {
		if err := mw.WriteField("language", lang); err != nil {
			return nil, fmt.Errorf("whisper: write language field: %w", err)
		}
	}
	if opts.InitialPrompt != "" {
		if err := mw.WriteField("prompt", opts.InitialPrompt); err != nil {
			return nil, fmt.Errorf("whisper: write prompt field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("whisper: close multipart writer: %w", err)
	}

	endpoint := p.serverURL + "/inference"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("whisper: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper: server returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whisper: read response body: %w", err)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("whisper: parse JSON response: %w", err)
	}

	return &stt.Transcript{
		Text:     strings.TrimSpace(result.Text),
		Duration: time.Duration(len(samples)) * time.Second / SampleRate,
	}, nil
}
