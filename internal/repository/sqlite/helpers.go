package sqlite

import "github.com/Masterminds/squirrel"

// sqlBuilder builds queries with ? placeholders for SQLite.
var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
