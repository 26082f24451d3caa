// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSQLFencedBlock(t *testing.T) {
	response := "Here is the query:\n```sql\nSELECT `name` FROM users;\n```\nLet me know."
	assert.Equal(t, "SELECT name FROM users;\n", ExtractSQL(response))
}

func TestExtractSQLFencedBlockWithoutLanguage(t *testing.T) {
	response := "```\nSELECT 1;\n```"
	assert.Equal(t, "SELECT 1;\n", ExtractSQL(response))
}

func TestExtractSQLBareStatement(t *testing.T) {
	response := "Sure! SELECT id, name FROM `users` WHERE active = 1; hope that helps."
	assert.Equal(t, "SELECT id, name FROM users WHERE active = 1;", ExtractSQL(response))
}

func TestExtractSQLLowercaseSelect(t *testing.T) {
	response := "select count(*) from orders;"
	assert.Equal(t, "select count(*) from orders;", ExtractSQL(response))
}

func TestExtractSQLMultiByteCasePreamble(t *testing.T) {
	// U+0149 uppercases to a longer byte sequence; the extracted span must
	// still line up with the original string.
	response := "ŉaïve préamble: select id from t; done"
	assert.Equal(t, "select id from t;", ExtractSQL(response))
}

func TestExtractSQLPassthrough(t *testing.T) {
	response := "I cannot answer that question."
	assert.Equal(t, response, ExtractSQL(response))
}

func TestValidSQL(t *testing.T) {
	assert.True(t, ValidSQL("SELECT 1;"))
	assert.True(t, ValidSQL("  select name from users;"))
	assert.False(t, ValidSQL("SELECT 1"))           // no semicolon
	assert.False(t, ValidSQL("DROP TABLE users;"))  // no SELECT
	assert.False(t, ValidSQL("; SELECT 1"))         // semicolon first
	assert.False(t, ValidSQL(""))
}

func TestBuildResponsePromptEmptyContext(t *testing.T) {
	prompt, err := buildResponsePrompt("   ", "anything there?")
	assert.NoError(t, err)
	assert.Contains(t, prompt, "None")
	assert.Contains(t, prompt, "anything there?")
}
