package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"studio/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type capturedRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text       string `json:"text"`
			InlineData *struct {
				MimeType string `json:"mimeType"`
				Data     string `json:"data"`
			} `json:"inlineData"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig *struct {
		ImageConfig *struct {
			AspectRatio string `json:"aspectRatio"`
		} `json:"imageConfig"`
	} `json:"generationConfig"`
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("NewClient without api key must fail")
	}
}

func TestSynthesizeImageRequestShape(t *testing.T) {
	imgPayload := base64.StdEncoding.EncodeToString([]byte("result-bytes"))
	var captured capturedRequest
	var gotPath, gotKey string

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("request body is not valid JSON: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"`+imgPayload+`"}}]}}]}`), nil
	})

	parts := []domain.Part{
		domain.ImagePart{MIMEType: "image/jpeg", Data: []byte("base-image")},
		domain.TextPart{Text: "make it darker"},
	}
	out, err := client.SynthesizeImage(context.Background(), parts, domain.AspectWide)
	if err != nil {
		t.Fatalf("SynthesizeImage returned error: %v", err)
	}

	if !strings.Contains(gotPath, "gemini-2.5-flash-image:generateContent") {
		t.Fatalf("request path = %q, want image model generateContent", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("x-goog-api-key = %q, want test-key", gotKey)
	}
	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 2 {
		t.Fatalf("wire parts = %+v, want one content with two parts", captured.Contents)
	}
	if captured.Contents[0].Parts[0].InlineData == nil {
		t.Fatal("first wire part must carry the inline image")
	}
	if captured.Contents[0].Parts[1].Text != "make it darker" {
		t.Fatalf("trailing wire part text = %q", captured.Contents[0].Parts[1].Text)
	}
	if captured.GenerationConfig == nil || captured.GenerationConfig.ImageConfig == nil ||
		captured.GenerationConfig.ImageConfig.AspectRatio != "16:9" {
		t.Fatalf("generationConfig = %+v, want imageConfig aspect 16:9", captured.GenerationConfig)
	}

	img, ok := domain.FirstImage(out)
	if !ok {
		t.Fatal("response image part not decoded")
	}
	if !bytes.Equal(img.Data, []byte("result-bytes")) || img.MIMEType != "image/png" {
		t.Fatalf("decoded image = %q %q", img.MIMEType, img.Data)
	}
}

func TestSynthesizeImageTransportError(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	_, err := client.SynthesizeImage(context.Background(), []domain.Part{domain.TextPart{Text: "x"}}, domain.AspectSquare)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}

func TestSynthesizeImageAPIError(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota exceeded"}}`), nil
	})
	_, err := client.SynthesizeImage(context.Background(), []domain.Part{domain.TextPart{Text: "x"}}, domain.AspectSquare)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error detail = %q, want remote message carried", err.Error())
	}
}

func TestSynthesizeImageTextOnlyResponse(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"cannot comply"}]}}]}`), nil
	})
	out, err := client.SynthesizeImage(context.Background(), []domain.Part{domain.TextPart{Text: "x"}}, domain.AspectSquare)
	if err != nil {
		t.Fatalf("SynthesizeImage returned error: %v", err)
	}
	if _, ok := domain.FirstImage(out); ok {
		t.Fatal("text-only response must yield no image part")
	}
	if text := domain.JoinText(out); text != "cannot comply" {
		t.Fatalf("text parts = %q", text)
	}
}

func TestAnalyzeStyle(t *testing.T) {
	var captured capturedRequest
	var gotPath string
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("request body is not valid JSON: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"oil painting, soft light"}]}}]}`), nil
	})

	images := []domain.ImagePart{
		{MIMEType: "image/png", Data: []byte("one")},
		{MIMEType: "image/jpeg", Data: []byte("two")},
	}
	text, err := client.AnalyzeStyle(context.Background(), images, "describe the style")
	if err != nil {
		t.Fatalf("AnalyzeStyle returned error: %v", err)
	}
	if text != "oil painting, soft light" {
		t.Fatalf("style context = %q", text)
	}
	if !strings.Contains(gotPath, "gemini-3-flash-preview:generateContent") {
		t.Fatalf("request path = %q, want analysis model", gotPath)
	}

	parts := captured.Contents[0].Parts
	if len(parts) != 3 {
		t.Fatalf("wire part count = %d, want 3", len(parts))
	}
	if parts[0].InlineData == nil || parts[1].InlineData == nil {
		t.Fatal("reference images must precede the instruction")
	}
	if parts[2].Text != "describe the style" {
		t.Fatalf("instruction = %q, want it last", parts[2].Text)
	}
}
