package core

import (
	"fmt"
	"strings"
)

// synonym maps a substring of the raw completion to a canonical category.
// Order matters: entries are checked first to last.
type synonym struct {
	match    string
	category Category
}

// synonymTable normalizes the free-text completion into the closed vocabulary.
var synonymTable = []synonym{
	{"work-related", CategoryWork},
	{"work", CategoryWork},
	{"personal", CategoryPersonal},
	{"promotional", CategoryPromotions},
	{"promo", CategoryPromotions},
	{"social", CategorySocial},
	{"updates", CategoryUpdates},
	{"update", CategoryUpdates},
}

// workKeywords drive the subject heuristic when the narrowed-set completion
// matches neither allowed category.
var workKeywords = []string{"meeting", "deadline", "project", "schedule", "report"}

// fewShotExamples biases the completion toward the closed vocabulary.
const fewShotExamples = `Below are some examples of email classifications:

Example 1:
Email Subject: Project Deadline Reminder
Email Snippet: Don't forget the deadline for the project is tomorrow.
Category: Work

Example 2:
Email Subject: Family Reunion Invitation
Email Snippet: Looking forward to our family reunion this weekend!
Category: Personal

Example 3:
Email Subject: 50% Off Sale on Shoes!
Email Snippet: Hurry up! Our biggest sale of the year is live now.
Category: Promotions

Example 4:
Email Subject: New Friend Request
Email Snippet: John Doe sent you a friend request on SocialNet.
Category: Social

Example 5:
Email Subject: Account Update Notice
Email Snippet: There is an update on your account settings.
Category: Updates

`

// IsNarrowed reports whether the instruction restricts triage to the
// two-folder Work/Social set.
func IsNarrowed(instruction string) bool {
	lower := strings.ToLower(instruction)
	return strings.Contains(lower, "only") &&
		strings.Contains(lower, "work") &&
		strings.Contains(lower, "social")
}

// AllowedCategories returns the category set permitted by the instruction.
func AllowedCategories(instruction string) []Category {
	if IsNarrowed(instruction) {
		return NarrowedCategories
	}
	return DefaultCategories
}

// BuildPrompt assembles the classification prompt for one message.
func BuildPrompt(subject, snippet, instruction string) string {
	if IsNarrowed(instruction) {
		return fmt.Sprintf(
			"%s\nAllowed categories: Work, Social.\n"+
				"Return only the word 'Work' or 'Social' as the answer (no extra text).\n\n"+
				"Email Subject: %s\nEmail Snippet: %s\n\nCategory:",
			instruction, subject, snippet)
	}
	return fmt.Sprintf(
		"%sNow, classify the following email into one of these categories: "+
			"Work, Personal, Promotions, Social, or Updates.\n\n"+
			"Email Subject: %s\nEmail Snippet: %s\nCategory:",
		fewShotExamples, subject, snippet)
}

// NormalizeResponse maps the raw completion text to a category from the
// allowed set. It never returns a value outside the allowed set: when the
// text matches nothing it falls through to FallbackCategory.
func NormalizeResponse(raw string, allowed []Category, subject string) Category {
	// The completion is capped at one line; keep only the first anyway.
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		raw = raw[:i]
	}
	normalized := strings.ToLower(strings.TrimSpace(raw))

	if normalized != "" && normalized != "other" {
		for _, syn := range synonymTable {
			if strings.Contains(normalized, syn.match) && containsCategory(allowed, syn.category) {
				return syn.category
			}
		}
	}

	return FallbackCategory(allowed, subject)
}

// FallbackCategory picks a category when classification is inconclusive.
// The narrowed set scans the subject for work keywords; the default set
// lands on Updates.
func FallbackCategory(allowed []Category, subject string) Category {
	if !containsCategory(allowed, CategoryUpdates) {
		lower := strings.ToLower(subject)
		for _, kw := range workKeywords {
			if strings.Contains(lower, kw) {
				return CategoryWork
			}
		}
		return CategorySocial
	}
	return CategoryUpdates
}

func containsCategory(set []Category, c Category) bool {
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}
