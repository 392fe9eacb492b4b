package database

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// MemoryStore is an in-process attachment store. It implements the same
// query semantics as the SQL stores, LIKE patterns included.
type MemoryStore struct {
	mu          sync.RWMutex
	attachments map[string]*models.Attachment
	filters     *filterRegistry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attachments: make(map[string]*models.Attachment),
		filters:     newFilterRegistry(),
	}
}

// RegisterNameFilter registers a name filter under key. Registering an
// existing key is a no-op and returns false.
func (s *MemoryStore) RegisterNameFilter(key string, filter models.NameFilter) bool {
	return s.filters.register(key, filter)
}

// CreateAttachment stores a copy of a
func (s *MemoryStore) CreateAttachment(ctx context.Context, a *models.Attachment) error {
	prepareAttachment(a)
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.attachments[a.ID]; exists {
		return fmt.Errorf("attachment %s already exists", a.ID)
	}
	stored := *a
	s.attachments[a.ID] = &stored
	return nil
}

// QueryAttachments retrieves the attachments matching q
func (s *MemoryStore) QueryAttachments(ctx context.Context, q models.AttachmentQuery) ([]*models.Attachment, error) {
	var nameMatchers [][]*regexp.Regexp
	if len(q.NameFilters) > 0 {
		expanded, err := s.filters.expand(q.NameFilters)
		if err != nil {
			return nil, err
		}
		for _, patterns := range expanded {
			res := make([]*regexp.Regexp, 0, len(patterns))
			for _, p := range patterns {
				res = append(res, likeToRegexp(p))
			}
			nameMatchers = append(nameMatchers, res)
		}
	}

	less, err := memoryOrder(q.OrderBy, q.Descending)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	var out []*models.Attachment
	for _, a := range s.attachments {
		if matchesQuery(a, q, nameMatchers) {
			copied := *a
			out = append(out, &copied)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// GetAttachmentByName retrieves the most recent non-trashed attachment named
// name. It returns nil, nil when there is none.
func (s *MemoryStore) GetAttachmentByName(ctx context.Context, name string) (*models.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.Attachment
	for _, a := range s.attachments {
		if a.Name != name || a.Status == models.AttachmentStatusTrash {
			continue
		}
		if found == nil || a.CreatedAt.After(found.CreatedAt) ||
			(a.CreatedAt.Equal(found.CreatedAt) && a.ID > found.ID) {
			found = a
		}
	}
	if found == nil {
		return nil, nil
	}

	copied := *found
	return &copied, nil
}

// Health always succeeds
func (s *MemoryStore) Health(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func matchesQuery(a *models.Attachment, q models.AttachmentQuery, nameMatchers [][]*regexp.Regexp) bool {
	if q.MimeType != "" {
		if strings.Contains(q.MimeType, "/") {
			if a.MimeType != q.MimeType {
				return false
			}
		} else if !strings.HasPrefix(a.MimeType, q.MimeType+"/") {
			return false
		}
	}

	if q.Status != "" && q.Status != models.AttachmentStatusAny && a.Status != q.Status {
		return false
	}
	if q.ParentID != "" && a.ParentID != q.ParentID {
		return false
	}
	if len(q.IDs) > 0 && !contains(q.IDs, a.ID) {
		return false
	}
	if len(q.ExcludeIDs) > 0 && contains(q.ExcludeIDs, a.ID) {
		return false
	}
	if q.Name != "" && a.Name != q.Name {
		return false
	}

	for _, alternatives := range nameMatchers {
		matched := false
		for _, re := range alternatives {
			if re.MatchString(a.Name) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func memoryOrder(orderBy string, desc bool) (func(a, b *models.Attachment) bool, error) {
	var cmp func(a, b *models.Attachment) int
	switch orderBy {
	case models.OrderByName:
		cmp = func(a, b *models.Attachment) int { return strings.Compare(a.Name, b.Name) }
	case models.OrderByMenuOrder:
		cmp = func(a, b *models.Attachment) int { return a.MenuOrder - b.MenuOrder }
	case models.OrderByCreatedAt:
		cmp = func(a, b *models.Attachment) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case models.OrderByID, "":
		cmp = func(a, b *models.Attachment) int { return 0 }
	default:
		return nil, fmt.Errorf("unsupported order column %q", orderBy)
	}

	return func(a, b *models.Attachment) bool {
		c := cmp(a, b)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	}, nil
}

// likeToRegexp translates a LIKE pattern with backslash escapes into an
// anchored regular expression.
func likeToRegexp(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString(`(?s)^`)

	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			sb.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			sb.WriteString(`.*`)
		case r == '_':
			sb.WriteString(`.`)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		sb.WriteString(regexp.QuoteMeta(`\`))
	}

	sb.WriteString(`$`)
	return regexp.MustCompile(sb.String())
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
