package history

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ExportToMarkdown renders a conversation as a Markdown document
func (s *Store) ExportToMarkdown(id string) (string, error) {
	conv, err := s.GetConversation(id)
	if err != nil {
		return "", err
	}
	return conv.Markdown(), nil
}

// Markdown renders the conversation as a Markdown document
func (c *Conversation) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(c.Title)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "**Modelo:** %s  \n", c.Model)
	if c.Persona != "" {
		fmt.Fprintf(&sb, "**Persona:** %s  \n", c.Persona)
	}
	fmt.Fprintf(&sb, "**Creada:** %s  \n", c.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "**Mensajes:** %d\n\n---\n\n", len(c.Messages))

	for i, msg := range c.Messages {
		role := "Luz"
		if msg.IsUser() {
			role = "Tú"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Format("15:04"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(c.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// SearchResult represents a search match in conversations
type SearchResult struct {
	Conversation *Conversation
	MatchSnippet string // Snippet where the term was found
	MatchField   string // "title" or "content"
	MatchIndex   int    // Message index if MatchField is "content", -1 for title
}

// SearchConversations searches titles and, optionally, message text
func (s *Store) SearchConversations(query string, searchContent bool) ([]*SearchResult, error) {
	conversations, err := s.ListConversations()
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var results []*SearchResult

	for _, conv := range conversations {
		if strings.Contains(strings.ToLower(conv.Title), queryLower) {
			results = append(results, &SearchResult{
				Conversation: conv,
				MatchSnippet: conv.Title,
				MatchField:   "title",
				MatchIndex:   -1,
			})
			continue
		}

		if !searchContent {
			continue
		}
		for i, msg := range conv.Messages {
			if strings.Contains(strings.ToLower(msg.Text), queryLower) {
				results = append(results, &SearchResult{
					Conversation: conv,
					MatchSnippet: extractSnippet(msg.Text, query, 80),
					MatchField:   "content",
					MatchIndex:   i,
				})
				break // One match per conversation
			}
		}
	}

	return results, nil
}

// extractSnippet returns about maxLen runes around the first occurrence of query
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	lower := []rune(strings.ToLower(content))
	q := []rune(strings.ToLower(query))

	idx := indexRunes(lower, q)
	if idx == -1 || len(lower) != len(runes) {
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "…"
		}
		return content
	}

	half := maxLen / 2
	start := idx - half
	end := idx + len(q) + half
	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(runes) {
		end = len(runes)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "…" + snippet
	}
	if end < len(runes) {
		snippet += "…"
	}
	return snippet
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// FormatRelativeTime formats t relative to now, e.g. "hace 2 h" or "ayer"
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "ahora"
	case diff < time.Hour:
		return fmt.Sprintf("hace %d min", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("hace %d h", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "ayer"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("hace %d días", int(diff.Hours()/24))
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "hace 1 semana"
		}
		return fmt.Sprintf("hace %d semanas", weeks)
	default:
		return t.Format("02/01/2006")
	}
}

// Preview returns the first line of the last message, at most n runes
func (c *Conversation) Preview(n int) string {
	if len(c.Messages) == 0 {
		return ""
	}
	text := strings.TrimSpace(c.Messages[len(c.Messages)-1].Text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if utf8.RuneCountInString(text) > n {
		text = string([]rune(text)[:n]) + "…"
	}
	return text
}
