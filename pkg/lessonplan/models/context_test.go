package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextReset(t *testing.T) {
	ctx := NewContext("RFK/2.0")
	assert.Equal(t, []string{VersionKey}, ctx.Keys())

	ctx.Set("lesson_name", "Circuits")
	ctx.Set("T1", "Climb")
	assert.Len(t, ctx.Keys(), 3)

	ctx.Reset()
	assert.Equal(t, map[string]any{VersionKey: "RFK/2.0"}, ctx.Fields())
}

func TestContextFieldsIsCopy(t *testing.T) {
	ctx := NewContext("v")
	fields := ctx.Fields()
	fields["N1"] = "1.00"

	assert.NotContains(t, ctx.Fields(), "N1")
}

func TestBindSlots(t *testing.T) {
	header := NewRichText().Add("Briefing topics:", TextStyle{Bold: true})
	ctx := NewContext("v")
	ctx.BindSlots([]Slot{
		{Position: 1, Number: "1.00", Text: "Taxi"},
		{Position: 21, Text: header},
		{Position: 22, Number: "B4", Text: "Radio"},
	})

	assert.Equal(t, []string{"N1", "N22", "T1", "T21", "T22", VersionKey}, ctx.Keys())
	assert.Same(t, header, ctx.Fields()["T21"])
}

func TestSlotKeys(t *testing.T) {
	s := Slot{Position: 17}
	assert.Equal(t, "N17", s.NumberKey())
	assert.Equal(t, "T17", s.TextKey())
}

func TestRichText(t *testing.T) {
	r := NewRichText().
		Add("Briefing ", TextStyle{Bold: true}).
		Add("topics", TextStyle{})
	assert.Equal(t, "Briefing topics", r.String())
	assert.Len(t, r.Runs, 2)
	assert.False(t, r.Runs[0].Style.IsZero())
	assert.True(t, r.Runs[1].Style.IsZero())
}
