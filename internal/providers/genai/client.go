package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"studio/internal/domain"
	"studio/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey        string
	BaseURL       string
	AnalysisModel string
	ImageModel    string
	HTTPClient    *http.Client
	Logger        *infra.Logger
}

const (
	defaultBaseURL       = "https://generativelanguage.googleapis.com/v1beta"
	defaultAnalysisModel = "gemini-3-flash-preview"
	defaultImageModel    = "gemini-2.5-flash-image"
	defaultTimeout       = 120 * time.Second
)

// Client is a thin facade over the Gemini generateContent API exposing the
// two capabilities the studio core consumes: style analysis and image
// synthesis. It owns the wire format; callers only ever see domain parts.
type Client struct {
	apiKey        string
	baseURL       string
	analysisModel string
	imageModel    string
	httpClient    *http.Client
	logger        *infra.Logger
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ImageConfig *geminiImageConfig `json:"imageConfig,omitempty"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a generation-friendly
// timeout will be created.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("genai: api key is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	analysisModel := strings.TrimSpace(opts.AnalysisModel)
	if analysisModel == "" {
		analysisModel = defaultAnalysisModel
	}
	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = defaultImageModel
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:        apiKey,
		baseURL:       baseURL,
		analysisModel: analysisModel,
		imageModel:    imageModel,
		httpClient:    httpClient,
		logger:        logger,
	}, nil
}

// AnalyzeStyle asks the analysis model to describe the artistic style of the
// provided reference images. The images precede the instruction in the part
// sequence so the model treats the text as the final directive.
func (c *Client) AnalyzeStyle(ctx context.Context, images []domain.ImagePart, instruction string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	parts := make([]geminiPart, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, encodeImagePart(img))
	}
	parts = append(parts, geminiPart{Text: instruction})

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, c.analysisModel, payload, &response); err != nil {
		return "", err
	}

	text := extractText(response)
	c.logger.Debug().
		Str("model", c.analysisModel).
		Int("reference_count", len(images)).
		Int("context_len", len(text)).
		Msg("genai: style analysis completed")

	return text, nil
}

// SynthesizeImage submits the composed parts to the image model and returns
// the response parts verbatim. Transport faults are wrapped with
// domain.ErrTransport; the caller decides what an image-free response means.
func (c *Client) SynthesizeImage(ctx context.Context, parts []domain.Part, aspect domain.AspectRatio) ([]domain.Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: encodeParts(parts)}},
		GenerationConfig: &geminiGenerationConfig{
			ImageConfig: &geminiImageConfig{AspectRatio: aspect.String()},
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, c.imageModel, payload, &response); err != nil {
		return nil, err
	}

	decoded, err := decodeParts(response)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("model", c.imageModel).
		Str("aspect_ratio", aspect.String()).
		Int("part_count", len(decoded)).
		Msg("genai: image synthesis completed")

	return decoded, nil
}

func (c *Client) invoke(ctx context.Context, model string, payload any, out any) error {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", domain.ErrTransport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: invoke gemini: %v", domain.ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: gemini status %d: %s", domain.ErrTransport, resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("%w: gemini status %d: %s", domain.ErrTransport, resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("%w: gemini status %d", domain.ErrTransport, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode gemini response: %v", domain.ErrTransport, err)
	}
	return nil
}

func encodeParts(parts []domain.Part) []geminiPart {
	encoded := make([]geminiPart, 0, len(parts))
	for _, part := range parts {
		switch p := part.(type) {
		case domain.ImagePart:
			encoded = append(encoded, encodeImagePart(p))
		case domain.TextPart:
			encoded = append(encoded, geminiPart{Text: p.Text})
		}
	}
	return encoded
}

func encodeImagePart(img domain.ImagePart) geminiPart {
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return geminiPart{InlineData: &geminiInlineData{
		MimeType: mime,
		Data:     base64.StdEncoding.EncodeToString(img.Data),
	}}
}

func decodeParts(resp geminiGenerateContentResponse) ([]domain.Part, error) {
	var parts []domain.Part
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("%w: decode inline data: %v", domain.ErrTransport, err)
				}
				parts = append(parts, domain.ImagePart{MIMEType: part.InlineData.MimeType, Data: data})
				continue
			}
			if part.Text != "" {
				parts = append(parts, domain.TextPart{Text: part.Text})
			}
		}
	}
	return parts, nil
}

func extractText(resp geminiGenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
