// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package core

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// LoadQuestionSQLFile reads a JSON array of question/SQL pairs from path.
// Entries missing either field are skipped; an empty file or one with no
// usable entries is an error.
func LoadQuestionSQLFile(path string) ([]types.QuestionSQL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw []types.QuestionSQL
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	pairs := make([]types.QuestionSQL, 0, len(raw))
	for _, p := range raw {
		if p.Question == "" || p.SQLQuery == "" {
			continue
		}
		pairs = append(pairs, p)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no question/SQL pairs found in %s", path)
	}
	return pairs, nil
}
