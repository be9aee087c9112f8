package store

import (
	"fmt"
	"sort"

	"bptracker/internal/models"
)

// Action is the closed set of intents the reducer understands.
type Action interface{ isAction() }

// Initialize replaces the whole collection. Dispatched at boot with whatever
// was loaded, and again when the user confirms an import.
type Initialize struct{ Recordings []models.Recording }

// New adds one freshly constructed recording.
type New struct{ Recording models.Recording }

// Edited replaces the entry whose id matches the carried recording. An id
// with no matching entry leaves the collection unchanged.
type Edited struct{ Recording models.Recording }

// Deleted removes the entry with the given id, if present.
type Deleted struct{ ID string }

func (Initialize) isAction() {}
func (New) isAction()        {}
func (Edited) isAction()     {}
func (Deleted) isAction()    {}

// Reduce applies one intent to the current collection and returns the next
// one, always ordered most recent first. The input slice is never mutated.
// An action outside the closed set is a programming fault and panics.
func Reduce(current []models.Recording, action Action) []models.Recording {
	switch a := action.(type) {
	case Initialize:
		return sortRecordings(append([]models.Recording(nil), a.Recordings...))

	case New:
		next := append(append([]models.Recording(nil), current...), a.Recording)
		return sortRecordings(next)

	case Edited:
		next := append([]models.Recording(nil), current...)
		for i := range next {
			if next[i].ID == a.Recording.ID {
				next[i] = a.Recording
			}
		}
		return sortRecordings(next)

	case Deleted:
		next := make([]models.Recording, 0, len(current))
		for _, rec := range current {
			if rec.ID != a.ID {
				next = append(next, rec)
			}
		}
		return next

	default:
		panic(fmt.Sprintf("store: unknown action %T", action))
	}
}

// sortRecordings orders most recent first by the dateInfo display key.
func sortRecordings(recordings []models.Recording) []models.Recording {
	sort.SliceStable(recordings, func(i, j int) bool {
		return recordings[i].DateInfo() > recordings[j].DateInfo()
	})
	return recordings
}
