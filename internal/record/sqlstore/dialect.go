package sqlstore

import (
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/pdv/internal/database"
)

type dialect struct {
	name string
	// numbered reports whether placeholders are $1, $2 instead of ?.
	numbered bool
	upsert   string
}

var dialects = map[string]dialect{
	database.Postgres: {
		name:     database.Postgres,
		numbered: true,
		upsert: `
			INSERT INTO records (collection, record_key, data, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (collection, record_key)
			DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
		`,
	},
	database.MySQL: {
		name: database.MySQL,
		upsert: `
			INSERT INTO records (collection, record_key, data)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE data = VALUES(data)
		`,
	},
}

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var (
		sb strings.Builder
		n  int
	)

	sb.Grow(len(query) + 8)

	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}

		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}

	return sb.String()
}
