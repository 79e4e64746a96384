package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memChunk struct {
	id      string
	content string
	meta    Metadata
	vector  []float32
}

// Memory is an in-process index with the same contract as PGVector. Used in
// tests and for running without postgres.
type Memory struct {
	mu          sync.RWMutex
	embedder    Embedder
	collections map[string][]memChunk
}

func NewMemory(embedder Embedder) *Memory {
	return &Memory{
		embedder:    embedder,
		collections: make(map[string][]memChunk),
	}
}

func (m *Memory) EnsureCollection(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; !ok {
		m.collections[name] = nil
	}
	return nil
}

func (m *Memory) Upsert(ctx context.Context, collection string, chunks []string, meta Metadata) error {
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := m.embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.collections[collection]
	for i, content := range chunks {
		id := ChunkID(meta.DocumentID, i)
		chunk := memChunk{id: id, content: content, meta: meta, vector: vectors[i]}

		replaced := false
		for j := range stored {
			if stored[j].id == id {
				stored[j] = chunk
				replaced = true
				break
			}
		}
		if !replaced {
			stored = append(stored, chunk)
		}
	}
	m.collections[collection] = stored
	return nil
}

func (m *Memory) Query(ctx context.Context, collection, query string, filter Filter, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 10
	}

	m.mu.RLock()
	stored, ok := m.collections[collection]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrCollectionNotFound
	}

	vectors, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := vectors[0]

	type scored struct {
		content    string
		similarity float64
	}
	candidates := make([]scored, 0, len(stored))
	for _, chunk := range stored {
		if !filter.Matches(chunk.meta.UserID, chunk.meta.DocumentID) {
			continue
		}
		candidates = append(candidates, scored{
			content:    chunk.content,
			similarity: cosineSimilarity(queryVec, chunk.vector),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.content
	}
	return texts, nil
}

func (m *Memory) DeleteByDocument(ctx context.Context, collection string, documentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = deleteWhere(m.collections[collection], func(c memChunk) bool {
		return c.meta.DocumentID == documentID
	})
	return nil
}

func (m *Memory) DeleteByUser(ctx context.Context, collection string, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = deleteWhere(m.collections[collection], func(c memChunk) bool {
		return c.meta.UserID == userID
	})
	return nil
}

func deleteWhere(chunks []memChunk, match func(memChunk) bool) []memChunk {
	kept := chunks[:0]
	for _, c := range chunks {
		if !match(c) {
			kept = append(kept, c)
		}
	}
	return kept
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
