package interchange

import (
	"fmt"

	"github.com/tmakela/scubalog/internal/entities"
)

// Title collisions are resolved with a deterministic numeric-suffix scheme.
// The two-phase protocol (FindConflicts, then ApplyWithRename after the
// caller confirms) lets a UI show exactly which titles will be renamed
// before anything is committed. Nothing is ever dropped or overwritten.

// FindConflicts reports which candidate titles collide with the existing
// collection or with earlier candidates in the same batch, in candidate
// order. It is a pure pre-check; no renaming happens here.
func FindConflicts(candidates []entities.Dive, existingTitles []string) []string {
	taken := titleSet(existingTitles)

	var conflicts []string
	seen := make(map[string]bool)
	for i := range candidates {
		title := candidates[i].Title
		if taken[title] && !seen[title] {
			conflicts = append(conflicts, title)
			seen[title] = true
		}
		taken[title] = true
	}
	return conflicts
}

// ApplyWithRename resolves collisions left to right: a taken title gets a
// numeric suffix starting at 2 and counting up until free. Each chosen title
// immediately joins the running set, so duplicates within the batch resolve
// deterministically too. Returns the records with final titles and how many
// were renamed.
func ApplyWithRename(candidates []entities.Dive, existingTitles []string) ([]entities.Dive, int) {
	taken := titleSet(existingTitles)

	committed := make([]entities.Dive, len(candidates))
	renamed := 0
	for i := range candidates {
		d := candidates[i]
		title := d.Title
		if taken[title] {
			for n := 2; ; n++ {
				next := fmt.Sprintf("%s %d", d.Title, n)
				if !taken[next] {
					title = next
					break
				}
			}
			renamed++
		}
		taken[title] = true
		d.Title = title
		committed[i] = d
	}
	return committed, renamed
}

func titleSet(titles []string) map[string]bool {
	set := make(map[string]bool, len(titles))
	for _, t := range titles {
		set[t] = true
	}
	return set
}
