package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/course-registration/internal/domain/catalog"
)

var addedAt = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func courseA() *catalog.CourseOffering {
	return &catalog.CourseOffering{
		CourseID: "A", CourseName: "Safety Officer", Location: "Downtown", Hours: 115, Price: 18000,
		Sessions: []catalog.SessionOffering{
			{SessionID: "S", Date: "2026/03/03 - 03/21", Quota: 30, Remaining: 5},
			{SessionID: "T", Date: "2026/04/07 - 04/25", Quota: 30, Remaining: 25},
		},
	}
}

func sessionOf(c *catalog.CourseOffering, id string) *catalog.SessionOffering {
	s, _ := c.Session(id)
	return s
}

func TestCart_AddItemMergesSameKey(t *testing.T) {
	c := &Cart{}
	course := courseA()

	_, err := c.AddItem(course, sessionOf(course, "S"), 2, addedAt)
	require.NoError(t, err)
	out, err := c.AddItem(course, sessionOf(course, "S"), 3, addedAt)
	require.NoError(t, err)

	require.Len(t, c.Items, 1, "same (course, session) must merge")
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, 5, out.Quantity)
	assert.True(t, out.Changed)
}

func TestCart_AddItemDifferentSessionsAreSeparateLines(t *testing.T) {
	c := &Cart{}
	course := courseA()

	_, err := c.AddItem(course, sessionOf(course, "S"), 1, addedAt)
	require.NoError(t, err)
	_, err = c.AddItem(course, sessionOf(course, "T"), 1, addedAt)
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, "S", c.Items[0].SessionID)
	assert.Equal(t, "T", c.Items[1].SessionID)
}

func TestCart_AddItemCapturesSnapshot(t *testing.T) {
	c := &Cart{}
	course := courseA()

	_, err := c.AddItem(course, sessionOf(course, "S"), 1, addedAt)
	require.NoError(t, err)

	item := c.Items[0]
	assert.Equal(t, "Safety Officer", item.CourseName)
	assert.Equal(t, "Downtown", item.Location)
	assert.Equal(t, 115, item.Hours)
	assert.Equal(t, int64(18000), item.Price)
	assert.Equal(t, "2026/03/03 - 03/21", item.SessionDate)
	assert.Equal(t, 5, item.Remaining)
	assert.Equal(t, addedAt, item.AddedAt)

	course.Price = 1
	assert.Equal(t, int64(18000), c.Items[0].Price, "later catalog changes do not leak into the cart")
}

func TestCart_AddItemRejectsOverQuota(t *testing.T) {
	c := &Cart{}
	course := courseA()

	out, err := c.AddItem(course, sessionOf(course, "S"), 6, addedAt)
	assert.ErrorIs(t, err, ErrQuantityExceedsQuota)
	assert.True(t, out.BoundsExceeded)
	assert.Empty(t, c.Items)
}

func TestCart_AddItemMergeOverQuotaLeavesCartUnchanged(t *testing.T) {
	c := &Cart{}
	course := courseA()

	_, err := c.AddItem(course, sessionOf(course, "S"), 3, addedAt)
	require.NoError(t, err)
	_, err = c.AddItem(course, sessionOf(course, "S"), 3, addedAt)

	assert.ErrorIs(t, err, ErrQuantityExceedsQuota)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestCart_AddItemRejectsZeroQuantity(t *testing.T) {
	c := &Cart{}
	course := courseA()

	_, err := c.AddItem(course, sessionOf(course, "S"), 0, addedAt)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCart_AdjustQuantity(t *testing.T) {
	c := &Cart{}
	course := courseA()
	_, err := c.AddItem(course, sessionOf(course, "S"), 4, addedAt)
	require.NoError(t, err)

	out := c.AdjustQuantity(0, 1)
	assert.True(t, out.Changed)
	assert.Equal(t, 5, c.Items[0].Quantity)

	// remaining = 5: going to 6 is rejected, not clamped
	out = c.AdjustQuantity(0, 1)
	assert.True(t, out.BoundsExceeded)
	assert.False(t, out.Changed)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestCart_AdjustQuantityBelowOneRemoves(t *testing.T) {
	c := &Cart{}
	course := courseA()
	_, err := c.AddItem(course, sessionOf(course, "S"), 1, addedAt)
	require.NoError(t, err)

	out := c.AdjustQuantity(0, -1)

	assert.True(t, out.Removed)
	assert.Empty(t, c.Items)
	assert.Equal(t, "A", out.Item.CourseID)
}

func TestCart_SetQuantityClamps(t *testing.T) {
	c := &Cart{}
	course := courseA()
	_, err := c.AddItem(course, sessionOf(course, "S"), 2, addedAt)
	require.NoError(t, err)

	// remaining = 5: setting 6 clamps to 5 and signals it
	out := c.SetQuantity(0, 6)
	assert.True(t, out.Clamped)
	assert.True(t, out.Changed)
	assert.Equal(t, 5, c.Items[0].Quantity)

	out = c.SetQuantity(0, 0)
	assert.False(t, out.Clamped, "lower bound clamps silently")
	assert.Equal(t, 1, c.Items[0].Quantity)

	out = c.SetQuantity(0, 3)
	assert.False(t, out.Clamped)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestCart_AdjustRejectsWhereSetClamps(t *testing.T) {
	c := &Cart{}
	course := courseA()
	_, err := c.AddItem(course, sessionOf(course, "S"), 5, addedAt)
	require.NoError(t, err)

	adjusted := c.AdjustQuantity(0, 1)
	set := c.SetQuantity(0, 6)

	assert.True(t, adjusted.BoundsExceeded)
	assert.False(t, adjusted.Clamped)
	assert.True(t, set.Clamped)
	assert.False(t, set.BoundsExceeded)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestCart_RemoveItemKeepsOrder(t *testing.T) {
	c := &Cart{}
	course := courseA()
	other := &catalog.CourseOffering{CourseID: "B", Price: 8000, Sessions: []catalog.SessionOffering{{SessionID: "U", Remaining: 10}}}
	_, _ = c.AddItem(course, sessionOf(course, "S"), 1, addedAt)
	_, _ = c.AddItem(other, sessionOf(other, "U"), 1, addedAt)
	_, _ = c.AddItem(course, sessionOf(course, "T"), 1, addedAt)

	out := c.RemoveItem(1)

	assert.True(t, out.Removed)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "S", c.Items[0].SessionID)
	assert.Equal(t, "T", c.Items[1].SessionID)
}

func TestCart_OutOfRangeIndexIsNoop(t *testing.T) {
	c := &Cart{}
	course := courseA()
	_, _ = c.AddItem(course, sessionOf(course, "S"), 2, addedAt)

	for _, idx := range []int{-1, 1, 100} {
		assert.Equal(t, Outcome{}, c.AdjustQuantity(idx, 1))
		assert.Equal(t, Outcome{}, c.SetQuantity(idx, 3))
		assert.Equal(t, Outcome{}, c.RemoveItem(idx))
	}
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestCart_TotalQuantityAndPricingLines(t *testing.T) {
	c := &Cart{}
	course := courseA()
	_, _ = c.AddItem(course, sessionOf(course, "S"), 2, addedAt)
	_, _ = c.AddItem(course, sessionOf(course, "T"), 3, addedAt)

	assert.Equal(t, 5, c.TotalQuantity())
	lines := c.PricingLines()
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].CourseID)
	assert.Equal(t, int64(18000), lines[0].Price)
	assert.Equal(t, 3, lines[1].Quantity)
	assert.Equal(t, int64(36000), c.Items[0].Subtotal())
}
