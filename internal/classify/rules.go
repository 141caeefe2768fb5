// Package classify assigns a category, urgency, title, summary, and tags to
// freeform issue text, either through a deterministic rule table or by
// delegating to an external text-generation service.
package classify

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/civicworks/civic-cli/internal/model"
)

// rule is one row of the keyword table. Rules are evaluated in order and the
// first match wins; there is no scoring or accumulation.
type rule struct {
	keywords []string
	category model.Category
	urgency  model.Urgency
}

// rules is the fixed priority-ordered keyword table. A keyword may appear in
// either the title or the description.
var rules = []rule{
	{[]string{"pothole", "road"}, model.CategoryRoad, model.UrgencyMedium},
	{[]string{"light", "dark"}, model.CategoryStreetlight, model.UrgencyMedium},
	{[]string{"water", "leak"}, model.CategoryWaterSupply, model.UrgencyHigh},
	{[]string{"garbage", "trash", "clean"}, model.CategorySanitation, model.UrgencyLow},
	{[]string{"electric", "power"}, model.CategoryElectricity, model.UrgencyHigh},
	{[]string{"drain", "flood"}, model.CategoryDrainage, model.UrgencyMedium},
	{[]string{"safety", "danger", "unsafe"}, model.CategoryPublicSafety, model.UrgencyHigh},
}

const summaryTruncateLen = 50

// Local classifies via the keyword table. It is deterministic: identical
// input always yields identical output. Input with no usable text at all is
// rejected; a single populated field is enough (keywords may live in either).
func Local(title, description string) (model.Classification, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return model.Classification{}, eris.Wrap(model.ErrInvalidArgument, "classify: empty title and description")
	}

	lowerTitle := strings.ToLower(title)
	lowerDesc := strings.ToLower(description)

	category := model.CategoryOther
	urgency := model.UrgencyMedium
	for _, r := range rules {
		if matches(r, lowerTitle, lowerDesc) {
			category = r.category
			urgency = r.urgency
			break
		}
	}

	return model.Classification{
		Category:       category,
		SuggestedTitle: fmt.Sprintf("%s: %s", category, title),
		Summary:        fmt.Sprintf("%s issue reported: %s...", category, truncate(description, summaryTruncateLen)),
		Tags:           []string{strings.ToLower(string(category)), "civic", "community"},
		Urgency:        urgency,
	}, nil
}

func matches(r rule, title, description string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(title, kw) || strings.Contains(description, kw) {
			return true
		}
	}
	return false
}

// truncate cuts s after n characters. The caller appends the ellipsis
// unconditionally; shorter input passes through unchanged, so a short
// description still ends with "..." in the summary.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
