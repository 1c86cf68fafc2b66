package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_PriceID(t *testing.T) {
	c := NewCatalog("price_w", "price_m", "")

	assert.Equal(t, "price_w", c.PriceID("week"))
	assert.Equal(t, "price_m", c.PriceID(" Month "))
	assert.Equal(t, "", c.PriceID("year"), "unconfigured price")
	assert.Equal(t, "", c.PriceID("decade"))
}

func TestCatalog_TypeForPrice(t *testing.T) {
	c := NewCatalog("price_w", "price_m", "price_y")

	assert.Equal(t, TypeYear, c.TypeForPrice("price_y"))
	assert.Equal(t, "", c.TypeForPrice("price_other"))
	assert.Equal(t, "", c.TypeForPrice(""))
}

func TestCatalog_AllIsACopy(t *testing.T) {
	c := NewCatalog("a", "b", "c")
	all := c.All()
	assert.Len(t, all, 3)

	all[0].Name = "changed"
	p, ok := c.Lookup(TypeWeek)
	assert.True(t, ok)
	assert.Equal(t, "Weekly Plan", p.Name)
}
