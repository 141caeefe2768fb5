package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFromSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"roads", CategoryRoad, true},
		{"lighting", CategoryStreetlight, true},
		{"water", CategoryWaterSupply, true},
		{"cleanliness", CategorySanitation, true},
		{"safety", CategoryPublicSafety, true},
		{"obstructions", CategoryOther, true},
		{"Roads", CategoryRoad, true},
		{"  water  ", CategoryWaterSupply, true},
		{"Water Supply", CategoryWaterSupply, true},
		{"public safety", CategoryPublicSafety, true},
		{"Drainage", CategoryDrainage, true},
		{"graffiti", CategoryOther, false},
		{"", CategoryOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := CategoryFromSlug(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestCategorySlugTotal(t *testing.T) {
	t.Parallel()

	// Every canonical category must map to a slug that maps back to a
	// canonical category; nothing falls through the mapping.
	for _, c := range Categories {
		slug := c.Slug()
		assert.NotEmpty(t, slug)
		back, ok := CategoryFromSlug(slug)
		assert.True(t, ok, "slug %q of %q is not resolvable", slug, c)
		assert.True(t, ValidCategory(back))
	}

	assert.Equal(t, "obstructions", Category("bogus").Slug())
}

func TestValidCategory(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidCategory(CategoryDrainage))
	assert.False(t, ValidCategory(Category("roads")))
	assert.False(t, ValidCategory(Category("")))
}

func TestValidStatusAndUrgency(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidStatus(StatusReported))
	assert.True(t, ValidStatus(StatusInProgress))
	assert.True(t, ValidStatus(StatusResolved))
	assert.False(t, ValidStatus(IssueStatus("closed")))

	assert.True(t, ValidUrgency(UrgencyLow))
	assert.True(t, ValidUrgency(UrgencyHigh))
	assert.False(t, ValidUrgency(Urgency("Critical")))
}
