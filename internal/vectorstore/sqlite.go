// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sqlmind/internal/llm"
	"github.com/pdiddy/sqlmind/pkg/types"
)

const dbFile = "sqlmind.db"

const (
	defaultMaxResults  = 2
	defaultHybridAlpha = 0.5
)

// SQLiteStore persists items in a SQLite database with an FTS5 index for
// keyword ranking. When an Embedder is supplied, items are stored with
// embedding vectors and retrieval merges cosine similarity into the rank.
type SQLiteStore struct {
	db         *sql.DB
	embedder   llm.Embedder
	maxResults int
	alpha      float64
}

// NewSQLiteStore opens or creates the store database at cfg.Dir/sqlmind.db
// and creates the schema if it does not exist. embedder may be nil for
// keyword-only retrieval.
func NewSQLiteStore(cfg types.StoreConfig, embedder llm.Embedder) (*SQLiteStore, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "store"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening store database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	alpha := cfg.HybridAlpha
	if alpha <= 0 {
		alpha = defaultHybridAlpha
	}

	s := &SQLiteStore{db: db, embedder: embedder, maxResults: maxResults, alpha: alpha}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating store schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS training (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			question TEXT,
			content TEXT NOT NULL,
			embedding TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_kind ON training(kind)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='training_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE training_fts USING fts5(question, content, content=training, content_rowid=rowid)`,
			`CREATE TRIGGER training_ai AFTER INSERT ON training BEGIN
				INSERT INTO training_fts(rowid, question, content) VALUES (new.rowid, new.question, new.content);
			END`,
			`CREATE TRIGGER training_ad AFTER DELETE ON training BEGIN
				INSERT INTO training_fts(training_fts, rowid, question, content) VALUES('delete', old.rowid, old.question, old.content);
			END`,
			`CREATE TRIGGER training_au AFTER UPDATE ON training BEGIN
				INSERT INTO training_fts(training_fts, rowid, question, content) VALUES('delete', old.rowid, old.question, old.content);
				INSERT INTO training_fts(rowid, question, content) VALUES (new.rowid, new.question, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

func (s *SQLiteStore) IndexQuestionSQL(ctx context.Context, question, sqlText string) (string, error) {
	return s.index(ctx, types.KindSQL, question, sqlText, question)
}

func (s *SQLiteStore) IndexDDL(ctx context.Context, ddl string) (string, error) {
	return s.index(ctx, types.KindDDL, "", ddl, ddl)
}

func (s *SQLiteStore) IndexDocumentation(ctx context.Context, doc string) (string, error) {
	return s.index(ctx, types.KindDocumentation, "", doc, doc)
}

// index upserts one item. embedText is the text embedded for semantic
// retrieval: the question for question/SQL pairs, the content otherwise.
func (s *SQLiteStore) index(ctx context.Context, kind types.TrainingKind, question, content, embedText string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("cannot index empty content")
	}

	id := itemID(kind, question+"\x00"+content)

	var embJSON sql.NullString
	if s.embedder != nil {
		vecs, err := s.embedder.Embeddings(ctx, []string{embedText})
		if err == nil && len(vecs) == 1 {
			// Embedding failures degrade to keyword-only for this item.
			if data, jerr := json.Marshal(vecs[0]); jerr == nil {
				embJSON = sql.NullString{String: string(data), Valid: true}
			}
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO training (id, kind, question, content, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			question=excluded.question, content=excluded.content,
			embedding=excluded.embedding`,
		id, string(kind), question, content, embJSON,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("inserting item: %w", err)
	}
	return id, nil
}

// scored pairs a retrieved item with its merged relevance score.
type scored struct {
	item  types.TrainingItem
	score float64
}

func (s *SQLiteStore) RelevantQuestionSQL(ctx context.Context, question string, n int) ([]types.QuestionSQL, error) {
	items, err := s.retrieve(ctx, types.KindSQL, question, n)
	if err != nil {
		return nil, err
	}
	pairs := make([]types.QuestionSQL, 0, len(items))
	for _, it := range items {
		pairs = append(pairs, types.QuestionSQL{Question: it.Question, SQLQuery: it.Content})
	}
	return pairs, nil
}

func (s *SQLiteStore) RelevantDDL(ctx context.Context, question string, n int) ([]string, error) {
	return s.retrieveContent(ctx, types.KindDDL, question, n)
}

func (s *SQLiteStore) RelevantDocumentation(ctx context.Context, question string, n int) ([]string, error) {
	return s.retrieveContent(ctx, types.KindDocumentation, question, n)
}

func (s *SQLiteStore) retrieveContent(ctx context.Context, kind types.TrainingKind, question string, n int) ([]string, error) {
	items, err := s.retrieve(ctx, kind, question, n)
	if err != nil {
		return nil, err
	}
	contents := make([]string, 0, len(items))
	for _, it := range items {
		contents = append(contents, it.Content)
	}
	return contents, nil
}

// retrieve merges FTS5 keyword rank with embedding similarity, weighted by
// alpha, and returns the top n items of the given kind.
func (s *SQLiteStore) retrieve(ctx context.Context, kind types.TrainingKind, question string, n int) ([]types.TrainingItem, error) {
	if n <= 0 {
		n = s.maxResults
	}

	merged := make(map[string]*scored)

	keyword, err := s.keywordSearch(ctx, kind, question, n)
	if err != nil {
		return nil, err
	}
	for _, sc := range keyword {
		merged[sc.item.ID] = &scored{item: sc.item, score: sc.score}
	}

	if s.embedder != nil {
		semantic, err := s.semanticSearch(ctx, kind, question, n)
		if err != nil {
			return nil, err
		}
		for _, sc := range semantic {
			if agg, ok := merged[sc.item.ID]; ok {
				agg.score += s.alpha * sc.score
			} else {
				merged[sc.item.ID] = &scored{item: sc.item, score: s.alpha * sc.score}
			}
		}
	}

	ranked := make([]*scored, 0, len(merged))
	for _, sc := range merged {
		ranked = append(ranked, sc)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	items := make([]types.TrainingItem, 0, len(ranked))
	for _, sc := range ranked {
		items = append(items, sc.item)
	}
	return items, nil
}

// keywordSearch ranks items by FTS5 BM25. FTS rank is negative
// (lower is better); scores are negated so higher is better.
func (s *SQLiteStore) keywordSearch(ctx context.Context, kind types.TrainingKind, question string, n int) ([]scored, error) {
	match := ftsQuery(question)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.kind, t.question, t.content, training_fts.rank
		 FROM training_fts
		 JOIN training t ON t.rowid = training_fts.rowid
		 WHERE training_fts MATCH ? AND t.kind = ?
		 ORDER BY training_fts.rank
		 LIMIT ?`,
		match, string(kind), n)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	var results []scored
	for rows.Next() {
		var (
			it       types.TrainingItem
			itemKind string
			question sql.NullString
			rank     float64
		)
		if err := rows.Scan(&it.ID, &itemKind, &question, &it.Content, &rank); err != nil {
			return nil, fmt.Errorf("scanning keyword result: %w", err)
		}
		it.Kind = types.TrainingKind(itemKind)
		it.Question = question.String
		results = append(results, scored{item: it, score: -rank})
	}
	return results, rows.Err()
}

// semanticSearch ranks items of the kind by cosine similarity between the
// question embedding and stored item embeddings.
func (s *SQLiteStore) semanticSearch(ctx context.Context, kind types.TrainingKind, question string, n int) ([]scored, error) {
	vecs, err := s.embedder.Embeddings(ctx, []string{question})
	if err != nil || len(vecs) == 0 {
		// Degrade to keyword-only when embeddings are unavailable.
		return nil, nil
	}
	query := vecs[0]

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, question, content, embedding FROM training
		 WHERE kind = ? AND embedding IS NOT NULL`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	defer rows.Close()

	var results []scored
	for rows.Next() {
		var (
			it        types.TrainingItem
			itemKind  string
			questionV sql.NullString
			embJSON   string
		)
		if err := rows.Scan(&it.ID, &itemKind, &questionV, &it.Content, &embJSON); err != nil {
			return nil, fmt.Errorf("scanning semantic result: %w", err)
		}
		var vec []float32
		if err := json.Unmarshal([]byte(embJSON), &vec); err != nil || len(vec) != len(query) {
			continue
		}
		it.Kind = types.TrainingKind(itemKind)
		it.Question = questionV.String
		results = append(results, scored{item: it, score: cosine(query, vec)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]types.TrainingItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, question, content FROM training ORDER BY kind, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []types.TrainingItem
	for rows.Next() {
		var (
			it       types.TrainingItem
			itemKind string
			question sql.NullString
		)
		if err := rows.Scan(&it.ID, &itemKind, &question, &it.Content); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.Kind = types.TrainingKind(itemKind)
		it.Question = question.String
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := kindFromID(id); !ok {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM training WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ftsQuery builds a sanitized FTS5 match expression from free text:
// each token is quoted and joined with OR so punctuation and FTS
// operators in the question cannot break the query.
func ftsQuery(text string) string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return ""
	}
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " OR ")
}
