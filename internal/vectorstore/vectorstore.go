// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorstore persists DDL statements, documentation, and prior
// question/SQL pairs and retrieves the items most relevant to a question.
// Retrieval is keyword-ranked, augmented with embedding similarity when an
// embedder is configured.
package vectorstore

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// Store is the retrieval-store contract.
type Store interface {
	// IndexQuestionSQL stores a question/SQL pair and returns its item ID.
	IndexQuestionSQL(ctx context.Context, question, sql string) (string, error)

	// IndexDDL stores a schema definition statement.
	IndexDDL(ctx context.Context, ddl string) (string, error)

	// IndexDocumentation stores free-form documentation text.
	IndexDocumentation(ctx context.Context, doc string) (string, error)

	// RelevantQuestionSQL returns up to n pairs relevant to question.
	// n <= 0 uses the store default.
	RelevantQuestionSQL(ctx context.Context, question string, n int) ([]types.QuestionSQL, error)

	// RelevantDDL returns up to n DDL statements relevant to question.
	RelevantDDL(ctx context.Context, question string, n int) ([]string, error)

	// RelevantDocumentation returns up to n documentation snippets
	// relevant to question.
	RelevantDocumentation(ctx context.Context, question string, n int) ([]string, error)

	// All returns every stored item.
	All(ctx context.Context) ([]types.TrainingItem, error)

	// Delete removes the item with the given ID. It returns false without
	// error when the ID does not carry a known kind suffix.
	Delete(ctx context.Context, id string) (bool, error)

	Close() error
}

// Kind suffixes carried by item IDs. Delete dispatches on them.
const (
	suffixSQL = "-sql"
	suffixDDL = "-ddl"
	suffixDoc = "-doc"
)

// itemID generates a deterministic ID from the item's text, suffixed by
// kind. Re-indexing identical content yields the same ID.
func itemID(kind types.TrainingKind, text string) string {
	h := sha256.Sum256([]byte(string(kind) + "\x00" + text))
	id := fmt.Sprintf("%x", h)[:12]
	switch kind {
	case types.KindSQL:
		return id + suffixSQL
	case types.KindDDL:
		return id + suffixDDL
	default:
		return id + suffixDoc
	}
}

// kindFromID returns the TrainingKind encoded in an item ID suffix.
func kindFromID(id string) (types.TrainingKind, bool) {
	switch {
	case strings.HasSuffix(id, suffixSQL):
		return types.KindSQL, true
	case strings.HasSuffix(id, suffixDDL):
		return types.KindDDL, true
	case strings.HasSuffix(id, suffixDoc):
		return types.KindDocumentation, true
	default:
		return "", false
	}
}

// tokenize lowercases text and splits it into alphanumeric tokens.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// cosine computes cosine similarity between two vectors of equal length.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
