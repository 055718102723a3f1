package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply string
	err   error
	got   []llms.MessageContent
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.got = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestGeminiGenerate(t *testing.T) {
	fm := &fakeModel{reply: "hello"}
	g := newGenerator(fm)

	got, err := g.Generate(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "hello" {
		t.Errorf("Generate = %q, want %q", got, "hello")
	}
	if len(fm.got) != 1 {
		t.Fatalf("model got %d messages, want 1", len(fm.got))
	}
}

func TestGeminiGenerateError(t *testing.T) {
	g := newGenerator(&fakeModel{err: errors.New("quota exceeded")})

	if _, err := g.Generate(context.Background(), "summarize"); err == nil {
		t.Error("expected error")
	}
}

func TestGeminiGenerateCanceled(t *testing.T) {
	g := newGenerator(&fakeModel{reply: "hello"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx, "summarize"); err == nil {
		t.Error("expected error for canceled context")
	}
}
