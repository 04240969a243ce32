package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptionLocation(t *testing.T) {
	t.Run("address and borough with connective phrase", func(t *testing.T) {
		parsed := ParseDescription("Project at 123 Main Street in the borough of Brooklyn will disturb 25,000 SF and add 6,000 SF of new impervious area")

		assert.Equal(t, "123 Main Street", parsed.StreetAddress)
		assert.Equal(t, BoroughBrooklyn, parsed.Borough)
		assert.True(t, parsed.HasLocation())
	})

	t.Run("comma-separated borough", func(t *testing.T) {
		parsed := ParseDescription("Construction of a new building at 460 New Dorp Lane, Staten Island")

		assert.Equal(t, "460 New Dorp Lane", parsed.StreetAddress)
		assert.Equal(t, BoroughStatenIsland, parsed.Borough)
	})

	t.Run("SI abbreviations normalize to Staten Island", func(t *testing.T) {
		for _, text := range []string{
			"Paving work at 12 Ocean Ave, SI will disturb 4,000 SF",
			"Paving work at 12 Ocean Ave, S.I. will disturb 4,000 SF",
		} {
			parsed := ParseDescription(text)
			assert.Equal(t, BoroughStatenIsland, parsed.Borough, text)
		}
	})

	t.Run("no location", func(t *testing.T) {
		parsed := ParseDescription("Interior renovation disturbing 30,000 SF of soil")

		assert.Empty(t, parsed.StreetAddress)
		assert.Empty(t, parsed.Borough)
		assert.False(t, parsed.HasLocation())
	})

	t.Run("borough without address is not a location", func(t *testing.T) {
		parsed := ParseDescription("Sitework somewhere in Queens")

		assert.Equal(t, BoroughQueens, parsed.Borough)
		assert.False(t, parsed.HasLocation())
	})
}

func TestParseDescriptionDisturbedArea(t *testing.T) {
	t.Run("explicit disturbance phrase", func(t *testing.T) {
		parsed := ParseDescription("The work will disturb 25,000 SF of soil and add 6,000 SF of new impervious area")

		sf, ok := parsed.DisturbedArea.SquareFeet()
		require.True(t, ok)
		assert.Equal(t, 25000.0, sf)
	})

	t.Run("disturbance with hedge word", func(t *testing.T) {
		parsed := ParseDescription("Excavation disturbing approximately 21,500 square feet")

		sf, ok := parsed.DisturbedArea.SquareFeet()
		require.True(t, ok)
		assert.Equal(t, 21500.0, sf)
	})

	t.Run("soil disturbance of", func(t *testing.T) {
		parsed := ParseDescription("Soil disturbance of 18,000 SF is anticipated")

		sf, ok := parsed.DisturbedArea.SquareFeet()
		require.True(t, ok)
		assert.Equal(t, 18000.0, sf)
	})

	t.Run("lone quantity is treated as disturbance", func(t *testing.T) {
		parsed := ParseDescription("Roadway reconstruction covering 12,000 sq ft")

		sf, ok := parsed.DisturbedArea.SquareFeet()
		require.True(t, ok)
		assert.Equal(t, 12000.0, sf)
	})

	t.Run("lone quantity wins over full-site phrase", func(t *testing.T) {
		parsed := ParseDescription("Full-site reconstruction including 9,500 SF of paving")

		sf, ok := parsed.DisturbedArea.SquareFeet()
		require.True(t, ok)
		assert.Equal(t, 9500.0, sf)
	})

	t.Run("two quantities do not trigger the lone-quantity rule", func(t *testing.T) {
		parsed := ParseDescription("Sidewalk work of 3,000 SF and curb work of 2,000 SF")

		assert.True(t, parsed.DisturbedArea.IsAbsent())
	})

	t.Run("entire site phrase", func(t *testing.T) {
		parsed := ParseDescription("The project will disturb the entire site at 55 Bay Road, Queens")

		assert.True(t, parsed.DisturbedArea.IsFullSite())
	})

	t.Run("full-depth reconstruction phrase", func(t *testing.T) {
		parsed := ParseDescription("Full-depth reconstruction of the parking area")

		assert.True(t, parsed.DisturbedArea.IsFullSite())
	})

	t.Run("no disturbance information", func(t *testing.T) {
		parsed := ParseDescription("Facade repairs at 200 Broad Street, Manhattan")

		assert.True(t, parsed.DisturbedArea.IsAbsent())
		_, ok := parsed.DisturbedArea.SquareFeet()
		assert.False(t, ok)
	})
}

func TestParseDescriptionNewImpervious(t *testing.T) {
	t.Run("explicit impervious quantity", func(t *testing.T) {
		parsed := ParseDescription("The plan proposes 8,000 SF of new impervious surface")

		assert.Equal(t, 8000.0, parsed.NewImperviousSF)
	})

	t.Run("new impervious area of", func(t *testing.T) {
		parsed := ParseDescription("New impervious area of 5,500 square feet across two lots")

		assert.Equal(t, 5500.0, parsed.NewImperviousSF)
	})

	t.Run("explicit quantity wins over building phrase", func(t *testing.T) {
		parsed := ParseDescription("Construction of a new building adding 7,200 SF of new impervious area")

		assert.Equal(t, 7200.0, parsed.NewImperviousSF)
	})

	t.Run("new building implies nominal impervious", func(t *testing.T) {
		parsed := ParseDescription("Construction of a new building at 460 New Dorp Lane, Staten Island")

		assert.Equal(t, 1.0, parsed.NewImperviousSF)
	})

	t.Run("new structure implies nominal impervious", func(t *testing.T) {
		parsed := ParseDescription("Erecting a new structure on the vacant lot")

		assert.Equal(t, 1.0, parsed.NewImperviousSF)
	})

	t.Run("no impervious signal", func(t *testing.T) {
		parsed := ParseDescription("Repaving of the existing driveway, no change in coverage")

		assert.Equal(t, 0.0, parsed.NewImperviousSF)
	})
}

func TestParseDescriptionIsTotal(t *testing.T) {
	for _, text := range []string{
		"",
		"no structured content whatsoever",
		"12345",
		"SF SF SF",
	} {
		parsed := ParseDescription(text)
		assert.Equal(t, text, parsed.Text)
		assert.True(t, parsed.DisturbedArea.IsAbsent(), text)
		assert.Equal(t, 0.0, parsed.NewImperviousSF, text)
	}
}

func TestExtractSquareFeet(t *testing.T) {
	cases := []struct {
		token string
		want  float64
		ok    bool
	}{
		{"25,000 SF", 25000, true},
		{"6000 square feet", 6000, true},
		{"1,234,567 sq ft", 1234567, true},
		{"SF", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := extractSquareFeet(tc.token)
		assert.Equal(t, tc.ok, ok, tc.token)
		assert.Equal(t, tc.want, got, tc.token)
	}
}
