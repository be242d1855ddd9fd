// Package career holds the closed set of career categories used by the
// interest test, and the keyword and skill tables built on them.
package career

import (
	"fmt"
	"strings"
)

// Category is a career direction. The set is closed.
type Category int

const (
	IT Category = iota
	Engineering
	Medicine
	Education
	Business
	Law
	Arts
	Science

	numCategories
)

var categoryNames = [numCategories]string{
	IT:          "it",
	Engineering: "engineering",
	Medicine:    "medicine",
	Education:   "education",
	Business:    "business",
	Law:         "law",
	Arts:        "arts",
	Science:     "science",
}

// keywordTable lists, per category, the lowercase keywords searched for in
// catalog records. Every category must have an entry.
var keywordTable = [numCategories][]string{
	IT:          {"computer", "software", "programming", "information technology", "информатика", "программирование"},
	Engineering: {"engineering", "technical", "инженерия", "техническ"},
	Medicine:    {"medicine", "medical", "health", "медицин", "здравоохранение"},
	Education:   {"education", "pedagogy", "teaching", "педагог", "образование"},
	Business:    {"business", "economics", "finance", "management", "бизнес", "экономика", "финансы"},
	Law:         {"law", "legal", "jurisprudence", "право", "юриспруденция"},
	Arts:        {"arts", "design", "music", "искусство", "дизайн"},
	Science:     {"science", "research", "physics", "chemistry", "biology", "наука", "исследован"},
}

// Categories returns every category in declaration order
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the declared categories
func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

// Keywords returns a copy of the keyword list for c
func (c Category) Keywords() []string {
	if !c.Valid() {
		return nil
	}
	return append([]string(nil), keywordTable[c]...)
}

// ParseCategory parses a category name, ignoring case
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q (valid: %s)", s, strings.Join(categoryNames[:], ", "))
}

// ParseCategories parses a list of category names
func ParseCategories(names []string) ([]Category, error) {
	out := make([]Category, 0, len(names))
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
