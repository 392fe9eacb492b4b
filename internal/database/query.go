package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/therealutkarshpriyadarshi/webvtt/internal/naming"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

const attachmentColumns = `id, parent_id, name, title, caption, description, mime_type, status,
		       path, width, height, menu_order, metadata, created_at, updated_at`

// placeholderFunc renders the n-th (1-based) bind parameter of a dialect.
type placeholderFunc func(n int) string

func dollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

func questionPlaceholder(int) string { return "?" }

var orderColumns = map[string]string{
	models.OrderByName:      "name",
	models.OrderByMenuOrder: "menu_order",
	models.OrderByCreatedAt: "created_at",
	models.OrderByID:        "id",
	"":                      "id",
}

// queryBuilder accumulates WHERE predicates and their arguments.
type queryBuilder struct {
	ph    placeholderFunc
	where []string
	args  []interface{}
}

func (b *queryBuilder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return b.ph(len(b.args))
}

func (b *queryBuilder) bindList(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = b.bind(v)
	}
	return strings.Join(parts, ", ")
}

func (b *queryBuilder) like(pattern string) string {
	return "name LIKE " + b.bind(pattern) + ` ESCAPE '\'`
}

// buildAttachmentSelect renders q as a SELECT over the attachments table.
func buildAttachmentSelect(q models.AttachmentQuery, filters *filterRegistry, ph placeholderFunc) (string, []interface{}, error) {
	b := &queryBuilder{ph: ph}

	if q.MimeType != "" {
		if strings.Contains(q.MimeType, "/") {
			b.where = append(b.where, "mime_type = "+b.bind(q.MimeType))
		} else {
			b.where = append(b.where, "mime_type LIKE "+b.bind(naming.EscapeLike(q.MimeType)+"/%")+` ESCAPE '\'`)
		}
	}

	if q.Status != "" && q.Status != models.AttachmentStatusAny {
		b.where = append(b.where, "status = "+b.bind(q.Status))
	}

	if q.ParentID != "" {
		b.where = append(b.where, "parent_id = "+b.bind(q.ParentID))
	}

	if len(q.IDs) > 0 {
		b.where = append(b.where, "id IN ("+b.bindList(q.IDs)+")")
	}

	if len(q.ExcludeIDs) > 0 {
		b.where = append(b.where, "id NOT IN ("+b.bindList(q.ExcludeIDs)+")")
	}

	if q.Name != "" {
		b.where = append(b.where, "name = "+b.bind(q.Name))
	}

	if len(q.NameFilters) > 0 {
		expanded, err := filters.expand(q.NameFilters)
		if err != nil {
			return "", nil, err
		}
		for _, patterns := range expanded {
			if len(patterns) == 0 {
				b.where = append(b.where, "1 = 0")
				continue
			}
			alts := make([]string, len(patterns))
			for i, p := range patterns {
				alts[i] = b.like(p)
			}
			b.where = append(b.where, "("+strings.Join(alts, " OR ")+")")
		}
	}

	column, ok := orderColumns[q.OrderBy]
	if !ok {
		return "", nil, fmt.Errorf("unsupported order column %q", q.OrderBy)
	}
	direction := "ASC"
	if q.Descending {
		direction = "DESC"
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + attachmentColumns + "\n\t\tFROM attachments")
	if len(b.where) > 0 {
		sb.WriteString("\n\t\tWHERE " + strings.Join(b.where, "\n\t\t  AND "))
	}
	sb.WriteString("\n\t\tORDER BY " + column + " " + direction)
	if column != "id" {
		sb.WriteString(", id " + direction)
	}
	if q.Limit > 0 {
		sb.WriteString("\n\t\tLIMIT " + b.bind(q.Limit))
	}

	return sb.String(), b.args, nil
}
