package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		p := Coordinates{Lat: 12.9716, Lng: 77.5946}
		assert.Equal(t, 0.0, DistanceKm(p, p))
	})

	t.Run("one tenth degree of longitude at equator is about 11.1 km", func(t *testing.T) {
		donation := Coordinates{Lat: 0, Lng: 0.0001} // nudge off null island so IsSet holds
		ngo := Coordinates{Lat: 0, Lng: 0.1}
		assert.InDelta(t, 11.1, DistanceKm(donation, ngo), 0.1)
	})

	t.Run("known city pair", func(t *testing.T) {
		delhi := Coordinates{Lat: 28.6139, Lng: 77.2090}
		mumbai := Coordinates{Lat: 19.0760, Lng: 72.8777}
		// Great-circle distance Delhi-Mumbai is ~1153 km.
		assert.InDelta(t, 1153, DistanceKm(delhi, mumbai), 10)
	})

	t.Run("antipodal points approach half the circumference", func(t *testing.T) {
		a := Coordinates{Lat: 0, Lng: 0.0001}
		b := Coordinates{Lat: 0, Lng: -179.9999}
		assert.InDelta(t, 20015, DistanceKm(a, b), 5)
	})
}

func TestCoordinatesIsSet(t *testing.T) {
	assert.False(t, Coordinates{}.IsSet())
	assert.True(t, Coordinates{Lat: 51.5, Lng: -0.12}.IsSet())
	assert.True(t, Coordinates{Lat: 0, Lng: 77.59}.IsSet())
	assert.True(t, Coordinates{Lat: 12.97, Lng: 0}.IsSet())
}
