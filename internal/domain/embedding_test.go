package domain

import (
	"context"
	"errors"
	"testing"
)

type stubEmbedder struct {
	lastText string
	texts    []string
	err      error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	s.lastText = text
	s.texts = append(s.texts, text)
	if s.err != nil {
		return EmbeddingResult{}, s.err
	}
	return EmbeddingResult{Embedding: []float32{1}, PromptTokens: 2, TotalTokens: 3}, nil
}

type stubBatchEmbedder struct {
	stubEmbedder
	batchTexts []string
}

func (s *stubBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	s.batchTexts = texts
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{float32(i)}
	}
	return BatchEmbeddingResult{Embeddings: embeddings}, nil
}

func TestInstructionEmbedder_PrependsInstruction(t *testing.T) {
	inner := &stubEmbedder{}
	e := NewInstructionEmbedder(inner, "query: ")

	_, err := e.Embed(context.Background(), "find sensors")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.lastText != "query: find sensors" {
		t.Errorf("inner text = %q, want instruction prefix", inner.lastText)
	}
}

func TestInstructionEmbedder_BatchNative(t *testing.T) {
	inner := &stubBatchEmbedder{}
	e := NewInstructionEmbedder(inner, "doc: ")

	res, err := e.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 2 {
		t.Fatalf("got %d embeddings, want 2", len(res.Embeddings))
	}
	if inner.batchTexts[0] != "doc: a" || inner.batchTexts[1] != "doc: b" {
		t.Errorf("batch texts = %v, want instruction prefix on each", inner.batchTexts)
	}
}

func TestInstructionEmbedder_BatchFallback(t *testing.T) {
	inner := &stubEmbedder{}
	e := NewInstructionEmbedder(inner, "doc: ")

	res, err := e.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 2 {
		t.Fatalf("got %d embeddings, want 2", len(res.Embeddings))
	}
	if len(inner.texts) != 2 {
		t.Fatalf("inner Embed called %d times, want 2", len(inner.texts))
	}
	if res.TotalTokens != 6 {
		t.Errorf("TotalTokens = %d, want summed 6", res.TotalTokens)
	}
}

func TestBatchFallback_PropagatesError(t *testing.T) {
	wantErr := errors.New("provider down")
	inner := &stubEmbedder{err: wantErr}

	_, err := BatchFallback(context.Background(), inner, []string{"a"})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}
