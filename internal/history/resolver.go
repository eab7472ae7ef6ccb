package history

import (
	"fmt"
	"strconv"
	"strings"
)

// minIDPrefix is the shortest ID prefix accepted as a reference
const minIDPrefix = 6

// Resolver resolves user-friendly references to conversation IDs
type Resolver struct {
	store *Store
}

// NewResolver creates a new alias resolver
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve converts a user-friendly reference to a conversation ID
//
// Supported references:
//   - "@last" - most recently modified conversation
//   - "@first" - oldest conversation
//   - "1", "2", "3" - by index (1-based, most recent first)
//   - full ID or a unique ID prefix of at least 6 characters
//   - "substring" - match on title (error if several match)
func (r *Resolver) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty reference")
	}

	conversations, err := r.store.ListConversations()
	if err != nil {
		return "", fmt.Errorf("failed to list conversations: %w", err)
	}
	if len(conversations) == 0 {
		return "", fmt.Errorf("no conversations found")
	}

	switch strings.ToLower(ref) {
	case "@last":
		return conversations[0].ID, nil
	case "@first":
		return conversations[len(conversations)-1].ID, nil
	}

	if index, err := strconv.Atoi(ref); err == nil {
		if index < 1 || index > len(conversations) {
			return "", fmt.Errorf("index %d out of range (1-%d)", index, len(conversations))
		}
		return conversations[index-1].ID, nil
	}

	var byID []*Conversation
	for _, conv := range conversations {
		if conv.ID == ref {
			return conv.ID, nil
		}
		if len(ref) >= minIDPrefix && strings.HasPrefix(conv.ID, ref) {
			byID = append(byID, conv)
		}
	}
	if len(byID) == 1 {
		return byID[0].ID, nil
	}
	if len(byID) > 1 {
		return "", fmt.Errorf("ID prefix '%s' is ambiguous (%d conversations)", ref, len(byID))
	}

	refLower := strings.ToLower(ref)
	var matches []*Conversation
	for _, conv := range conversations {
		if strings.Contains(strings.ToLower(conv.Title), refLower) {
			matches = append(matches, conv)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no conversation matching '%s'", ref)
	case 1:
		return matches[0].ID, nil
	default:
		titles := make([]string, len(matches))
		for i, m := range matches {
			titles[i] = fmt.Sprintf("'%s'", m.Title)
		}
		return "", fmt.Errorf("multiple conversations match '%s': %s. Use the ID or be more specific",
			ref, strings.Join(titles, ", "))
	}
}

// ResolveWithInfo resolves a reference and returns the conversation
func (r *Resolver) ResolveWithInfo(ref string) (*Conversation, error) {
	id, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return r.store.GetConversation(id)
}

// ListAliases describes the supported references
func ListAliases() string {
	return `Supported references:
  @last          Most recently modified conversation
  @first         Oldest conversation
  1, 2, 3        By index (1-based, from most recent)
  <id>           Full ID or a unique prefix (6+ characters)
  "text"         Search by title substring`
}
