// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package core

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// sqlPromptText instructs the model to answer with a single dialect-correct
// query and nothing else. Few-shot pairs, schema statements, and
// documentation are stuffed in when available.
const sqlPromptText = `As a {{.Dialect}} expert, your task is to generate SQL queries based on user questions. Ensure that your {{.Dialect}} queries are syntactically correct and tailored to the user's inquiry. Retrieve at most 10 results using the LIMIT clause and order them for relevance. Avoid querying for all columns from a table. Select only the necessary columns wrapped in backticks (` + "`" + `). Carefully consider column names and their respective tables to avoid querying non-existent columns. Stop after delivering the SQLQuery, avoiding follow-up questions.

Follow this format:
Question: User's question here
SQLQuery: Your SQL query without preamble

No preamble

{{if .Examples}}Make use of the following Example 'SQLQuery' for generating SQL query:
{{range .Examples}}
'Question': "{{.Question}}"
'SQLQuery': '{{.SQLQuery}}'
{{end}}
{{end}}{{if .DDLs}}Only use the following tables:
{{range .DDLs}}{{.}}
{{end}}
{{end}}{{range .Documentation}}{{.}}
{{end}}
'Question': {{.Question}}`

const responsePromptText = `You are the helpful assistant designed to answer user questions based on the data provided from the database in context. Your goal is to analyze the user's query and provide a helpful response using only the information available in the context. If Context is None or Empty, say you don't have the data to answer the question.

###RESULT CONTEXT:
{{.Context}}

###USER QUESTION:
{{.Question}}

###ASSISTANT RESPONSE:
`

var (
	sqlPromptTmpl      = template.Must(template.New("sql").Parse(sqlPromptText))
	responsePromptTmpl = template.Must(template.New("response").Parse(responsePromptText))
)

type sqlPromptData struct {
	Dialect       string
	Question      string
	Examples      []types.QuestionSQL
	DDLs          []string
	Documentation []string
}

func buildSQLPrompt(data sqlPromptData) (string, error) {
	var b strings.Builder
	if err := sqlPromptTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering query prompt: %w", err)
	}
	return b.String(), nil
}

func buildResponsePrompt(resultContext, question string) (string, error) {
	if strings.TrimSpace(resultContext) == "" {
		resultContext = "None"
	}
	var b strings.Builder
	err := responsePromptTmpl.Execute(&b, struct {
		Context  string
		Question string
	}{Context: resultContext, Question: question})
	if err != nil {
		return "", fmt.Errorf("rendering response prompt: %w", err)
	}
	return b.String(), nil
}
