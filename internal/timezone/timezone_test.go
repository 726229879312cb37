package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, "UTC", Location("").String())
	assert.Equal(t, "UTC", Location("Not/AZone").String())

	if IsValid("America/Sao_Paulo") {
		assert.Equal(t, "America/Sao_Paulo", Location("America/Sao_Paulo").String())
	}
}

func TestSetDefault(t *testing.T) {
	t.Cleanup(func() { SetDefault(fallback) })

	SetDefault("nonsense")
	assert.Equal(t, fallback, Default())

	if !IsValid("Europe/Lisbon") {
		t.Skip("tzdata not available")
	}
	SetDefault("Europe/Lisbon")
	assert.Equal(t, "Europe/Lisbon", Location("").String())
	assert.NotEqual(t, time.UTC, Location(""))
}
