package rag_test

import (
	"context"

	"upsy-bot/internal/models"
	"upsy-bot/internal/rag"
)

// Compile-time interface guards for the fakes.
var (
	_ rag.Embedder     = (*fakeEmbedder)(nil)
	_ rag.Completer    = (*fakeCompleter)(nil)
	_ rag.VectorIndex  = (*fakeIndex)(nil)
	_ rag.HistoryStore = (*fakeHistory)(nil)
)

type fakeEmbedder struct {
	calls   [][]string
	vectors [][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	if f.err != nil {
		return nil, f.err
	}
	if f.vectors != nil {
		return f.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type fakeCompleter struct {
	prompts  []string
	response string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeIndex struct {
	matches   []models.Match
	queryErr  error
	upsertErr error

	queried  [][]float32
	topKs    []int
	upserted [][]models.DocumentRecord
}

func (f *fakeIndex) Query(_ context.Context, embedding []float32, topK int) ([]models.Match, error) {
	f.queried = append(f.queried, embedding)
	f.topKs = append(f.topKs, topK)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.matches, nil
}

func (f *fakeIndex) Upsert(_ context.Context, records []models.DocumentRecord) error {
	f.upserted = append(f.upserted, records)
	return f.upsertErr
}

type appended struct {
	key  string
	line string
}

// fakeHistory stores lines newest-first, like the Redis store.
type fakeHistory struct {
	lines     map[string][]string
	appendErr error
	recentErr error

	appends     []appended
	recentCalls int
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{lines: make(map[string][]string)}
}

func (f *fakeHistory) AppendLine(_ context.Context, key, line string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends = append(f.appends, appended{key: key, line: line})
	f.lines[key] = append([]string{line}, f.lines[key]...)
	return nil
}

func (f *fakeHistory) RecentLines(_ context.Context, key string, n int) ([]string, error) {
	f.recentCalls++
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	lines := f.lines[key]
	if n < len(lines) {
		lines = lines[:n]
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out, nil
}
