// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TrainingKind categorizes an item in the retrieval store.
type TrainingKind string

const (
	KindSQL           TrainingKind = "sql"
	KindDDL           TrainingKind = "ddl"
	KindDocumentation TrainingKind = "documentation"
)

// QuestionSQL is a prior question paired with the SQL that answered it.
// The JSON field names match the bulk-example file convention, a JSON
// array of {"Question": ..., "SQLQuery": ...} objects.
type QuestionSQL struct {
	Question string `json:"Question" yaml:"question"`
	SQLQuery string `json:"SQLQuery" yaml:"sql_query"`
}

// TrainingItem is a single stored retrieval item with its identifier.
// Question is set only for KindSQL items.
type TrainingItem struct {
	// ID is a stable identifier suffixed by kind ("-sql", "-ddl", "-doc").
	ID string `json:"id" yaml:"id"`

	// Kind categorizes the item: sql, ddl, or documentation.
	Kind TrainingKind `json:"kind" yaml:"kind"`

	// Question is the natural-language question for question/SQL pairs.
	Question string `json:"question,omitempty" yaml:"question,omitempty"`

	// Content is the SQL query, DDL statement, or documentation text.
	Content string `json:"content" yaml:"content"`
}

// TableDDL pairs a table name with its schema definition statement.
type TableDDL struct {
	Table string `json:"table" yaml:"table"`
	DDL   string `json:"ddl" yaml:"ddl"`
}
