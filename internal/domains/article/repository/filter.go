package repository

import (
	"angeles-backend/internal/domains/article/model"
	"angeles-backend/internal/shared/utils"
)

// ListQuery is the resolved list filter, after the role gate has been applied
type ListQuery struct {
	Status   model.Status // empty means every status
	Author   string       // case-insensitive substring
	Category string       // case-insensitive substring
	Limit    int
	Offset   int
}

// buildListWhere returns the WHERE clause and its positional args.
// Inactive rows are always excluded.
func buildListWhere(q ListQuery) (string, []interface{}) {
	conditions := []string{"a.is_active = true"}
	args := []interface{}{}

	if q.Status != "" {
		args = append(args, q.Status)
		conditions = append(conditions, "a.status = "+utils.Placeholder(len(args)))
	}

	if q.Author != "" {
		args = append(args, utils.ContainsPattern(q.Author))
		conditions = append(conditions, "a.author ILIKE "+utils.Placeholder(len(args)))
	}

	if q.Category != "" {
		args = append(args, utils.ContainsPattern(q.Category))
		conditions = append(conditions, "a.category ILIKE "+utils.Placeholder(len(args)))
	}

	return "WHERE " + utils.JoinWithAnd(conditions), args
}

// buildListQuery returns the page query and the count query sharing one WHERE clause.
// The page query takes two extra args: limit and offset.
func buildListQuery(q ListQuery) (selectSQL, countSQL string, args []interface{}) {
	where, args := buildListWhere(q)

	countSQL = `SELECT COUNT(*) FROM articles a ` + where

	selectSQL = `SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN users u ON u.id = a.author_id
		` + where + `
		ORDER BY a.created_at DESC
		LIMIT ` + utils.Placeholder(len(args)+1) + ` OFFSET ` + utils.Placeholder(len(args)+2)

	return selectSQL, countSQL, args
}
