package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNotes = `QUICK SUMMARY:
• The team agreed to ship v2 on Friday.

DETAILED SUMMARY:
• Reviewed the rollout plan - approved without changes
• Discussed the   staging outage - root cause identified

KEY DECISIONS:
• Decision: ship v2 - Approved by Bob

ACTION ITEMS:
• [URGENT] Task: ship report @alice by Friday
• Task: update runbook @bob by next Wednesday

BLOCKERS:
• Blocker: staging credentials expired - Needs: new IAM role
`

func TestParseQuickSummarySingleItem(t *testing.T) {
	doc := Parse("QUICK SUMMARY:\n• The team agreed to ship v2 on Friday.\n")

	items := doc.QuickSummary()
	require.Len(t, items, 1)
	assert.Equal(t, "The team agreed to ship v2 on Friday.", items[0])
}

func TestParseNoHeadersYieldsZeroSections(t *testing.T) {
	doc := Parse("just a paragraph of text\nwith no headers at all\n")
	assert.Empty(t, doc.Sections)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse("").Sections)
	assert.Empty(t, Parse("\n\n\n").Sections)
}

func TestParseLinesBeforeHeaderDropped(t *testing.T) {
	doc := Parse("stray preamble line\nQUICK SUMMARY:\n• One item\n")

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, []string{"One item"}, doc.Sections[0].Items)
}

func TestParseBulletNormalization(t *testing.T) {
	doc := Parse("QUICK SUMMARY:\n- dashed   bullet   item\n•  dotted bullet\nplain line\n")

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, []string{
		"dashed bullet item",
		"dotted bullet",
		"plain line",
	}, doc.Sections[0].Items)
}

func TestParseHeaderRules(t *testing.T) {
	doc := Parse(sampleNotes)

	var headers []string
	for _, s := range doc.Sections {
		headers = append(headers, s.Header)
	}
	assert.Equal(t, []string{
		"QUICK SUMMARY",
		"DETAILED SUMMARY",
		"KEY DECISIONS",
		"ACTION ITEMS",
		"BLOCKERS",
	}, headers)
}

func TestParseSpecificHeaderRulesAreCaseInsensitive(t *testing.T) {
	doc := Parse("Here are the action items: do things\n• Task: one\n")

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "ACTION ITEMS", doc.Sections[0].Header)
}

func TestDecisionPlaceholderFiltering(t *testing.T) {
	doc := Parse("KEY DECISIONS:\n• [No clear decisions made]\n• Decision: ship v2 - Approved by Bob\n")

	assert.Equal(t, []string{"Decision: ship v2 - Approved by Bob"}, doc.Decisions())
}

func TestDecisionsAbsentSection(t *testing.T) {
	doc := Parse("QUICK SUMMARY:\n• Something happened.\n")
	assert.Empty(t, doc.Decisions())
}

func TestActionItemUrgencyExtraction(t *testing.T) {
	doc := Parse("ACTION ITEMS:\n• [URGENT] Task: ship report @alice by Friday\n")

	items := doc.ActionItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Task: ship report @alice by Friday", items[0].Task)
	assert.True(t, items[0].Urgent)
	assert.Equal(t, "alice", items[0].Owner)
	assert.Equal(t, "Friday", items[0].Due)
}

func TestActionItemWithoutAnnotations(t *testing.T) {
	doc := Parse("ACTION ITEMS:\n• Task: tidy the backlog\n")

	items := doc.ActionItems()
	require.Len(t, items, 1)
	assert.False(t, items[0].Urgent)
	assert.Empty(t, items[0].Owner)
	assert.Empty(t, items[0].Due)
}

func TestBlockersMatchedBySubstring(t *testing.T) {
	doc := Parse("CURRENT BLOCKERS:\n• Blocker: waiting on access - Needs: approval\n")

	blockers := doc.Blockers()
	require.Len(t, blockers, 1)
	assert.Contains(t, blockers[0], "waiting on access")
}

func TestFullDocument(t *testing.T) {
	doc := Parse(sampleNotes)

	assert.Len(t, doc.QuickSummary(), 1)
	assert.Len(t, doc.DetailedSummary(), 2)
	assert.Equal(t, []string{"Decision: ship v2 - Approved by Bob"}, doc.Decisions())

	items := doc.ActionItems()
	require.Len(t, items, 2)
	assert.True(t, items[0].Urgent)
	assert.False(t, items[1].Urgent)
	assert.Equal(t, "bob", items[1].Owner)
	assert.Equal(t, "next Wednesday", items[1].Due)

	assert.Len(t, doc.Blockers(), 1)
}
