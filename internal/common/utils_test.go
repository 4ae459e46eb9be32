package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("your_openweather_api_key_here", "YOUR_"))
	assert.True(t, HasAny("abc", "x", "b"))
	assert.False(t, HasAny("abc"))
	assert.False(t, HasAny("abc", "d"))
}

func TestCleanCity(t *testing.T) {
	assert.Equal(t, "New York", CleanCity("  New   York "))
	assert.Equal(t, "", CleanCity("   "))
}

func TestSameCity(t *testing.T) {
	assert.True(t, SameCity("Paris", "paris"))
	assert.True(t, SameCity(" san  francisco", "San Francisco"))
	assert.False(t, SameCity("Paris", "Parish"))
}
