// Package bible looks up Scripture on bible-api.com and resolves topics to references.
package bible

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	apierrors "github.com/luzyverdad/luz/internal/errors"
)

// Reference is a parsed Bible reference with the book in canonical English form
type Reference struct {
	Book    string // e.g. "1 Corinthians"
	Chapter int
	Verses  string // e.g. "4-7" or "16,18"; empty for a whole chapter
	Input   string // what the user typed
}

// referencePattern splits "<book> <chapter>[:<verses>]". The book part is
// resolved separately so free text with a trailing number is rejected there.
var referencePattern = regexp.MustCompile(`^\s*(.+?)\s*(\d{1,3})(?:\s*[:.]\s*(\d{1,3}(?:\s*[-–]\s*\d{1,3})?(?:\s*,\s*\d{1,3}(?:\s*[-–]\s*\d{1,3})?)*))?\s*$`)

// ParseReference parses "Juan 3:16", "1 Corintios 13:4-7", "Psalm 23" and similar forms
func ParseReference(input string) (Reference, error) {
	m := referencePattern.FindStringSubmatch(input)
	if m == nil {
		return Reference{}, apierrors.NewValidationError("reference", fmt.Sprintf("%q is not a Bible reference", strings.TrimSpace(input)))
	}

	bookName, ok := NormalizeBook(m[1])
	if !ok {
		msg := fmt.Sprintf("unknown book %q", strings.TrimSpace(m[1]))
		if near, found := SuggestBook(m[1]); found {
			msg += fmt.Sprintf(" (did you mean %s?)", near)
		}
		return Reference{}, apierrors.NewValidationError("reference", msg)
	}

	chapter, _ := strconv.Atoi(m[2])
	if chapter == 0 {
		return Reference{}, apierrors.NewValidationError("reference", "chapter must be greater than zero")
	}

	verses, err := normalizeVerses(m[3])
	if err != nil {
		return Reference{}, err
	}

	return Reference{
		Book:    bookName,
		Chapter: chapter,
		Verses:  verses,
		Input:   strings.TrimSpace(input),
	}, nil
}

// IsReference reports whether input parses as a reference
func IsReference(input string) bool {
	_, err := ParseReference(input)
	return err == nil
}

func normalizeVerses(list string) (string, error) {
	if list == "" {
		return "", nil
	}

	list = strings.ReplaceAll(list, "–", "-")
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		bounds := strings.Split(p, "-")
		nums := make([]int, 0, 2)
		for _, b := range bounds {
			n, err := strconv.Atoi(strings.TrimSpace(b))
			if err != nil || n == 0 {
				return "", apierrors.NewValidationError("reference", fmt.Sprintf("invalid verse %q", strings.TrimSpace(b)))
			}
			nums = append(nums, n)
		}
		if len(nums) == 2 {
			if nums[0] > nums[1] {
				return "", apierrors.NewValidationError("reference", fmt.Sprintf("verse range %d-%d is reversed", nums[0], nums[1]))
			}
			if nums[0] == nums[1] {
				nums = nums[:1]
			}
		}
		if len(nums) == 2 {
			out = append(out, fmt.Sprintf("%d-%d", nums[0], nums[1]))
		} else {
			out = append(out, strconv.Itoa(nums[0]))
		}
	}
	return strings.Join(out, ","), nil
}

// String returns the canonical form, e.g. "John 3:16"
func (r Reference) String() string {
	if r.Verses == "" {
		return fmt.Sprintf("%s %d", r.Book, r.Chapter)
	}
	return fmt.Sprintf("%s %d:%s", r.Book, r.Chapter, r.Verses)
}

// PathSegment returns the reference escaped for a bible-api.com URL path
func (r Reference) PathSegment() string {
	return url.PathEscape(r.String())
}

// IsZero reports whether r is the zero Reference
func (r Reference) IsZero() bool {
	return r.Book == ""
}
