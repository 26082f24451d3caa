// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// Memory is an in-process Store with token-overlap scoring. It backs tests
// and short-lived sessions where nothing should touch disk.
type Memory struct {
	mu         sync.RWMutex
	items      map[string]types.TrainingItem
	order      []string
	maxResults int
}

// NewMemory returns an empty in-memory store. maxResults <= 0 uses the
// default retrieval limit.
func NewMemory(maxResults int) *Memory {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Memory{items: make(map[string]types.TrainingItem), maxResults: maxResults}
}

func (m *Memory) IndexQuestionSQL(ctx context.Context, question, sql string) (string, error) {
	return m.index(types.KindSQL, question, sql)
}

func (m *Memory) IndexDDL(ctx context.Context, ddl string) (string, error) {
	return m.index(types.KindDDL, "", ddl)
}

func (m *Memory) IndexDocumentation(ctx context.Context, doc string) (string, error) {
	return m.index(types.KindDocumentation, "", doc)
}

func (m *Memory) index(kind types.TrainingKind, question, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("cannot index empty content")
	}
	id := itemID(kind, question+"\x00"+content)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[id]; !exists {
		m.order = append(m.order, id)
	}
	m.items[id] = types.TrainingItem{ID: id, Kind: kind, Question: question, Content: content}
	return id, nil
}

func (m *Memory) RelevantQuestionSQL(ctx context.Context, question string, n int) ([]types.QuestionSQL, error) {
	items := m.rank(types.KindSQL, question, n)
	pairs := make([]types.QuestionSQL, 0, len(items))
	for _, it := range items {
		pairs = append(pairs, types.QuestionSQL{Question: it.Question, SQLQuery: it.Content})
	}
	return pairs, nil
}

func (m *Memory) RelevantDDL(ctx context.Context, question string, n int) ([]string, error) {
	return contentsOf(m.rank(types.KindDDL, question, n)), nil
}

func (m *Memory) RelevantDocumentation(ctx context.Context, question string, n int) ([]string, error) {
	return contentsOf(m.rank(types.KindDocumentation, question, n)), nil
}

func contentsOf(items []types.TrainingItem) []string {
	contents := make([]string, 0, len(items))
	for _, it := range items {
		contents = append(contents, it.Content)
	}
	return contents
}

// rank scores items of the kind by the count of query tokens occurring in
// the item's question or content.
func (m *Memory) rank(kind types.TrainingKind, question string, n int) []types.TrainingItem {
	if n <= 0 {
		n = m.maxResults
	}
	tokens := tokenize(question)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var ranked []scored
	for _, id := range m.order {
		it := m.items[id]
		if it.Kind != kind {
			continue
		}
		haystack := strings.ToLower(it.Question + " " + it.Content)
		var score float64
		for _, tok := range tokens {
			if strings.Contains(haystack, tok) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{item: it, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	items := make([]types.TrainingItem, 0, len(ranked))
	for _, sc := range ranked {
		items = append(items, sc.item)
	}
	return items
}

func (m *Memory) All(ctx context.Context) ([]types.TrainingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]types.TrainingItem, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, m.items[id])
	}
	return items, nil
}

func (m *Memory) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := kindFromID(id); !ok {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[id]; !exists {
		return false, nil
	}
	delete(m.items, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *Memory) Close() error { return nil }
