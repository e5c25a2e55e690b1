package ui

import (
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/store"
)

// stateChangedMsg carries a fresh state snapshot from the store subscription.
type stateChangedMsg store.State

// searchResultMsg carries a search gateway response tagged with the request's
// generation. Stale generations are dropped in Update.
type searchResultMsg struct {
	generation int
	songs      []models.Song
	err        error
}
