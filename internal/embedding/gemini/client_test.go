package gemini

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/akhmetov/cv-matcher/internal/embedding"
)

type embedResult struct {
	resp *genai.EmbedContentResponse
	err  error
}

// fakeEmbedder replays a scripted sequence of responses and records the text
// it was asked to embed.
type fakeEmbedder struct {
	results  []embedResult
	calls    int
	lastText string
}

func (f *fakeEmbedder) EmbedContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.calls++
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.lastText = contents[0].Parts[0].Text
	}

	if len(f.results) == 0 {
		return nil, errors.New("no scripted result left")
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result.resp, result.err
}

func successResponse(values ...float32) *genai.EmbedContentResponse {
	return &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: values}},
	}
}

func newTestClient(embedder *fakeEmbedder, maxRetries int) *Client {
	return &Client{
		embedder:   embedder,
		model:      "embedding-test",
		maxRetries: maxRetries,
		logger:     zap.NewNop(),
	}
}

func stubWaitFor(t *testing.T) *int {
	t.Helper()

	waits := 0
	original := waitFor
	waitFor = func(context.Context, time.Duration) error {
		waits++
		return nil
	}
	t.Cleanup(func() { waitFor = original })

	return &waits
}

func TestEmbedReturnsVector(t *testing.T) {
	fake := &fakeEmbedder{results: []embedResult{
		{resp: successResponse(0.5, -0.25)},
	}}
	client := newTestClient(fake, 3)

	vec, err := client.Embed(context.Background(), "some resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(vec, []float64{0.5, -0.25}) {
		t.Fatalf("unexpected vector: %v", vec)
	}
	if fake.calls != 1 {
		t.Fatalf("expected 1 api call, got %d", fake.calls)
	}
}

func TestEmbedRetriesTransientErrors(t *testing.T) {
	waits := stubWaitFor(t)

	fake := &fakeEmbedder{results: []embedResult{
		{err: genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}},
		{err: genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}},
		{resp: successResponse(1)},
	}}
	client := newTestClient(fake, 5)

	vec, err := client.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(vec, []float64{1}) {
		t.Fatalf("unexpected vector: %v", vec)
	}
	if fake.calls != 3 {
		t.Fatalf("expected 3 api calls, got %d", fake.calls)
	}
	if *waits != 2 {
		t.Fatalf("expected 2 backoff waits, got %d", *waits)
	}
}

func TestEmbedGivesUpAfterMaxRetries(t *testing.T) {
	stubWaitFor(t)

	fake := &fakeEmbedder{results: []embedResult{
		{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}},
		{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}},
	}}
	client := newTestClient(fake, 2)

	_, err := client.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if !errors.Is(err, embedding.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if fake.calls != 2 {
		t.Fatalf("expected exactly maxRetries api calls, got %d", fake.calls)
	}
}

func TestEmbedDoesNotRetryClientErrors(t *testing.T) {
	waits := stubWaitFor(t)

	fake := &fakeEmbedder{results: []embedResult{
		{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
	}}
	client := newTestClient(fake, 5)

	_, err := client.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, embedding.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("expected no retries for a client error, got %d calls", fake.calls)
	}
	if *waits != 0 {
		t.Fatalf("expected no backoff waits, got %d", *waits)
	}
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	fake := &fakeEmbedder{}
	client := newTestClient(fake, 1)

	if _, err := client.Embed(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for blank text")
	}
	if fake.calls != 0 {
		t.Fatalf("expected no api calls, got %d", fake.calls)
	}
}

func TestEmbedTruncatesOversizedInput(t *testing.T) {
	fake := &fakeEmbedder{results: []embedResult{
		{resp: successResponse(1)},
	}}
	client := newTestClient(fake, 1)

	text := strings.Repeat("a", maxInputRunes+100)
	if _, err := client.Embed(context.Background(), text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len([]rune(fake.lastText)); got != maxInputRunes {
		t.Fatalf("expected input truncated to %d runes, got %d", maxInputRunes, got)
	}
}

func TestEmbedEmptyAPIResponse(t *testing.T) {
	fake := &fakeEmbedder{results: []embedResult{
		{resp: &genai.EmbedContentResponse{}},
	}}
	client := newTestClient(fake, 1)

	_, err := client.Embed(context.Background(), "text")
	if !errors.Is(err, embedding.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for an empty response, got %v", err)
	}
}

func TestModel(t *testing.T) {
	client := newTestClient(&fakeEmbedder{}, 1)
	if got := client.Model(); got != "embedding-test" {
		t.Fatalf("unexpected model: %q", got)
	}

	var nilClient *Client
	if got := nilClient.Model(); got != "" {
		t.Fatalf("expected empty model for nil client, got %q", got)
	}
}
