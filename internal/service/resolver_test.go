package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

func TestResolver_AmenBreakScenario(t *testing.T) {
	r := NewResolver()
	mix := amenMix()

	at15 := r.Resolve(15, mix)
	assert.Equal(t, []string{"Amen Break"}, at15.Names())
	assert.Equal(t, "Original Nuttah", at15.SongTitle())

	at20 := r.Resolve(20, mix)
	assert.Equal(t, []string{"Amen Break"}, at20.Names(), "end boundary is inclusive")

	at10 := r.Resolve(10, mix)
	assert.Equal(t, []string{"Amen Break"}, at10.Names(), "start boundary is inclusive")

	after := r.Resolve(20.001, mix)
	assert.Empty(t, after.Patterns)
	assert.Equal(t, "Original Nuttah", after.SongTitle())
}

func TestResolver_NoEarlyExit(t *testing.T) {
	mix := &domain.MixAnnotations{
		Patterns: []domain.Pattern{
			{Name: "Reese", Category: domain.CategoryDnB, Timestamps: []domain.Timestamp{{Start: 0, End: 50}}},
			{Name: "Amen", Category: domain.CategoryJungle, Timestamps: []domain.Timestamp{{Start: 100, End: 120}, {Start: 30, End: 40}}},
			{Name: "Pad", Category: domain.CategoryOther, Timestamps: []domain.Timestamp{{Start: 35, End: 36}}},
			{Name: "Think", Category: domain.CategoryJungle, Timestamps: []domain.Timestamp{{Start: 32, End: 60}}},
			{Name: "Sub", Category: domain.CategoryDnB, Timestamps: []domain.Timestamp{{Start: 35, End: 35}}},
		},
	}

	set := NewResolver().Resolve(35, mix)

	assert.Equal(t, []string{"Reese", "Amen", "Pad", "Think", "Sub"}, set.Names())
	require.NotNil(t, set.Jungle)
	assert.Equal(t, "Amen", set.Jungle.Name, "first in sequence, not earliest start")
	require.NotNil(t, set.DnB)
	assert.Equal(t, "Reese", set.DnB.Name)
	assert.Nil(t, set.Song)
}

func TestResolver_EmptySlots(t *testing.T) {
	mix := &domain.MixAnnotations{
		Patterns: []domain.Pattern{
			{Name: "Pad", Category: domain.CategoryOther, Timestamps: []domain.Timestamp{{Start: 0, End: 10}}},
		},
	}

	set := NewResolver().Resolve(5, mix)
	assert.Len(t, set.Patterns, 1)
	assert.Nil(t, set.Jungle)
	assert.Nil(t, set.DnB)

	assert.Empty(t, NewResolver().Resolve(5, nil).Patterns)
}

func TestResolver_OverlappingSongsFirstWins(t *testing.T) {
	mix := &domain.MixAnnotations{
		Songs: []domain.Song{
			{Title: "First", Start: 0, End: 100},
			{Title: "Second", Start: 90, End: 200},
		},
	}
	r := NewResolver()

	song := r.CurrentSong(95, mix)
	require.NotNil(t, song)
	assert.Equal(t, "First", song.Title)

	assert.Equal(t, "Second", r.CurrentSong(100.5, mix).Title)
	assert.Nil(t, r.CurrentSong(250, mix))
	assert.Nil(t, r.CurrentSong(1, nil))
}

func TestResolver_Idempotent(t *testing.T) {
	r := NewResolver()
	mix := amenMix()

	first := r.Resolve(12.5, mix)
	second := r.Resolve(12.5, mix)
	assert.Equal(t, first, second)

	// Results never alias the input
	first.Patterns[0].Name = "mutated"
	assert.Equal(t, "Amen Break", mix.Patterns[0].Name)
}

func TestIsActive(t *testing.T) {
	p := domain.Pattern{Timestamps: []domain.Timestamp{{Start: 1, End: 2}, {Start: 5, End: 6}}}
	assert.True(t, IsActive(p, 1))
	assert.True(t, IsActive(p, 6))
	assert.False(t, IsActive(p, 3))
	assert.False(t, IsActive(domain.Pattern{}, 0))
}
