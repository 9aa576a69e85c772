// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"strconv"
	"strings"
)

// Where accumulates AND-ed conditions with positional arguments.
//
// Conditions are written with ? placeholders, which are numbered in the order
// the arguments are added:
//
//	where := &postgres.Where{}
//	where.Add("status = ?", "approved")
//	where.Add("(createdat, id) > (?, ?)", at, id)
//	query := "SELECT ... " + where.Clause()
type Where struct {
	conditions []string
	args       []any
}

// Add appends one condition and binds its arguments.
func (where *Where) Add(condition string, values ...any) {
	for _, value := range values {
		where.args = append(where.args, value)
		condition = strings.Replace(condition, "?", "$"+strconv.Itoa(len(where.args)), 1)
	}
	where.conditions = append(where.conditions, condition)
}

// Bind appends an argument without a condition and returns its placeholder
// (e.g. for LIMIT/OFFSET).
func (where *Where) Bind(value any) string {
	where.args = append(where.args, value)
	return "$" + strconv.Itoa(len(where.args))
}

// Clause renders the WHERE clause, or an empty string when nothing was added.
func (where *Where) Clause() string {
	if len(where.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(where.conditions, " AND ")
}

// Args returns the bound arguments in placeholder order.
func (where *Where) Args() []any {
	return where.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns a LIKE pattern matching text anywhere, with text's own wildcards
// escaped. Pair it with [LikeEscape]: where.Add("title ILIKE ?"+postgres.LikeEscape, ...).
func Contains(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// LikeEscape declares the escape character used by [Contains].
const LikeEscape = ` ESCAPE '\'`
