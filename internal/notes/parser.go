package notes

import (
	"regexp"
	"strings"
)

// Section is a named group of bullet items in a notes document.
type Section struct {
	Header string   `json:"header"`
	Items  []string `json:"items"`
}

// Document is the parsed form of generated note text. Section identity
// comes from header text alone, never position; unrecognized sections
// are carried but ignored by the typed accessors.
type Document struct {
	Sections []Section `json:"sections"`
}

// ActionItem is one task from the ACTION ITEMS section with its
// free-text annotations lifted out.
type ActionItem struct {
	Task   string `json:"task"`
	Owner  string `json:"owner,omitempty"`
	Due    string `json:"due,omitempty"`
	Urgent bool   `json:"urgent"`
}

var (
	urgentRe     = regexp.MustCompile(`(?i)\[urgent\]`)
	ownerRe      = regexp.MustCompile(`@(\w+)`)
	dueRe        = regexp.MustCompile(`(?i)by\s+([^,.]+)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Parse converts raw note text into a Document. A line starts a new
// section when it contains "action items:" or "key decisions:"
// (case-insensitive), or, failing those, when it ends with a colon.
// Other lines join the current section after bullet normalization;
// lines before the first header have no section and are dropped. Text
// with no recognized headers parses to zero sections, never an error.
func Parse(text string) Document {
	var sections []Section

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		upper := strings.ToUpper(trimmed)
		switch {
		case strings.Contains(upper, "ACTION ITEMS:"):
			sections = append(sections, Section{Header: "ACTION ITEMS"})
		case strings.Contains(upper, "KEY DECISIONS:"):
			sections = append(sections, Section{Header: "KEY DECISIONS"})
		case strings.HasSuffix(trimmed, ":"):
			header := strings.TrimSpace(strings.Replace(trimmed, ":", "", 1))
			sections = append(sections, Section{Header: header})
		default:
			if len(sections) == 0 {
				continue
			}
			current := &sections[len(sections)-1]
			current.Items = append(current.Items, normalizeItem(trimmed))
		}
	}

	return Document{Sections: sections}
}

// normalizeItem strips a leading bullet and collapses runs of
// whitespace.
func normalizeItem(line string) string {
	if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") {
		line = strings.TrimPrefix(line, "•")
		line = strings.TrimPrefix(line, "-")
		line = whitespaceRe.ReplaceAllString(strings.TrimSpace(line), " ")
	}
	return line
}

// Find returns the first section whose header contains substr,
// case-insensitively.
func (d Document) Find(substr string) (Section, bool) {
	lower := strings.ToLower(substr)
	for _, s := range d.Sections {
		if strings.Contains(strings.ToLower(s.Header), lower) {
			return s, true
		}
	}
	return Section{}, false
}

func (d Document) findExact(header string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Header == header {
			return s, true
		}
	}
	return Section{}, false
}

// QuickSummary returns the items of the quick-summary section.
func (d Document) QuickSummary() []string {
	s, _ := d.Find("quick summary")
	return s.Items
}

// DetailedSummary returns the items of the detailed-summary section.
func (d Document) DetailedSummary() []string {
	s, _ := d.Find("detailed summary")
	return s.Items
}

// Decisions returns the KEY DECISIONS items with placeholder lines
// ("no decisions found", "skip section" and the like) filtered out.
func (d Document) Decisions() []string {
	s, ok := d.findExact("KEY DECISIONS")
	if !ok {
		return nil
	}
	var out []string
	for _, item := range s.Items {
		lower := strings.ToLower(item)
		if strings.TrimSpace(item) == "" ||
			strings.Contains(lower, "[no clear") ||
			strings.Contains(lower, "no decisions") ||
			strings.Contains(lower, "[skip section") {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ActionItems returns the ACTION ITEMS entries with the urgency tag,
// owner token and due fragment extracted.
func (d Document) ActionItems() []ActionItem {
	s, ok := d.findExact("ACTION ITEMS")
	if !ok {
		return nil
	}
	items := make([]ActionItem, 0, len(s.Items))
	for _, raw := range s.Items {
		items = append(items, parseActionItem(raw))
	}
	return items
}

// Blockers returns the items from any section whose header mentions
// blockers.
func (d Document) Blockers() []string {
	s, _ := d.Find("blocker")
	return s.Items
}

func parseActionItem(raw string) ActionItem {
	item := ActionItem{
		Urgent: urgentRe.MatchString(raw),
		Task:   strings.TrimSpace(urgentRe.ReplaceAllString(raw, "")),
	}
	if m := ownerRe.FindStringSubmatch(item.Task); m != nil {
		item.Owner = m[1]
	}
	if m := dueRe.FindStringSubmatch(item.Task); m != nil {
		item.Due = strings.TrimSpace(m[1])
	}
	return item
}
