package listing

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

// Inbox status filters.
const (
	StatusAll = "all"
	StatusNew = "new"
)

// SortMessages orders messages newest first, keeping ties stable.
func SortMessages(ms []models.Message) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].CreatedAt.After(ms[j].CreatedAt)
	})
}

// MessageFilter matches a status ("all" or "new") and a case-insensitive
// search over sender name, email and body.
type MessageFilter struct {
	Status string
	Search string
}

func (f MessageFilter) Match(m *models.Message) bool {
	if f.Status == StatusNew && m.Status != models.MessageNew {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Email), q) ||
		strings.Contains(strings.ToLower(m.Message), q)
}

func FilterMessages(ms []models.Message, f MessageFilter) []models.Message {
	out := make([]models.Message, 0, len(ms))
	for i := range ms {
		if f.Match(&ms[i]) {
			out = append(out, ms[i])
		}
	}
	return out
}

// UnreadCount counts messages with status "new".
func UnreadCount(ms []models.Message) int {
	n := 0
	for _, m := range ms {
		if m.Status == models.MessageNew {
			n++
		}
	}
	return n
}

func RemoveMessages(ms []models.Message, ids []string) []models.Message {
	drop := set(ids)
	out := make([]models.Message, 0, len(ms))
	for _, m := range ms {
		if _, ok := drop[m.ID]; !ok {
			out = append(out, m)
		}
	}
	return out
}

// MarkMessagesRead returns a copy with the given messages marked read.
func MarkMessagesRead(ms []models.Message, ids []string) []models.Message {
	read := set(ids)
	out := make([]models.Message, len(ms))
	for i, m := range ms {
		if _, ok := read[m.ID]; ok {
			m.Status = models.MessageRead
		}
		out[i] = m
	}
	return out
}
