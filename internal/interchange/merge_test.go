package interchange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tmakela/scubalog/internal/entities"
)

func divesTitled(titles ...string) []entities.Dive {
	dives := make([]entities.Dive, len(titles))
	for i, title := range titles {
		dives[i].Title = title
	}
	return dives
}

func titlesOf(dives []entities.Dive) []string {
	titles := make([]string, len(dives))
	for i := range dives {
		titles[i] = dives[i].Title
	}
	return titles
}

func TestFindConflicts(t *testing.T) {
	t.Run("no collisions", func(t *testing.T) {
		conflicts := FindConflicts(divesTitled("A", "B"), []string{"C"})

		assert.Empty(t, conflicts)
	})

	t.Run("collision with existing collection", func(t *testing.T) {
		conflicts := FindConflicts(divesTitled("A", "B"), []string{"B"})

		assert.Equal(t, []string{"B"}, conflicts)
	})

	t.Run("collision within the batch", func(t *testing.T) {
		conflicts := FindConflicts(divesTitled("A", "A"), nil)

		assert.Equal(t, []string{"A"}, conflicts)
	})

	t.Run("reported once per title in candidate order", func(t *testing.T) {
		conflicts := FindConflicts(divesTitled("B", "A", "B"), []string{"A", "B"})

		assert.Equal(t, []string{"B", "A"}, conflicts)
	})

	t.Run("does not mutate candidates", func(t *testing.T) {
		candidates := divesTitled("A")

		FindConflicts(candidates, []string{"A"})

		assert.Equal(t, "A", candidates[0].Title)
	})
}

func TestApplyWithRename(t *testing.T) {
	t.Run("suffixes count up from 2", func(t *testing.T) {
		committed, renamed := ApplyWithRename(
			divesTitled("Wreck Dive", "Wreck Dive"),
			[]string{"Wreck Dive"},
		)

		assert.Equal(t, []string{"Wreck Dive 2", "Wreck Dive 3"}, titlesOf(committed))
		assert.Equal(t, 2, renamed)
	})

	t.Run("skips suffixes already taken", func(t *testing.T) {
		committed, renamed := ApplyWithRename(
			divesTitled("Night Dive"),
			[]string{"Night Dive", "Night Dive 2", "Night Dive 3"},
		)

		assert.Equal(t, []string{"Night Dive 4"}, titlesOf(committed))
		assert.Equal(t, 1, renamed)
	})

	t.Run("untouched titles are not renamed", func(t *testing.T) {
		committed, renamed := ApplyWithRename(
			divesTitled("Fresh Title", "Reef Tour"),
			[]string{"Reef Tour"},
		)

		assert.Equal(t, []string{"Fresh Title", "Reef Tour 2"}, titlesOf(committed))
		assert.Equal(t, 1, renamed)
	})

	t.Run("renaming the same batch twice is stable", func(t *testing.T) {
		existing := []string{"Wreck Dive"}

		first, _ := ApplyWithRename(divesTitled("Wreck Dive"), existing)
		// A batch already free of collisions passes through unchanged.
		second, renamed := ApplyWithRename(first, existing)

		assert.Equal(t, titlesOf(first), titlesOf(second))
		assert.Zero(t, renamed)
	})
}
