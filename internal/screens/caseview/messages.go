package caseview

import (
	"time"

	"github.com/rmorales/opotutor/internal/casegen"
)

// caseReadyMsg is sent when case generation finishes.
type caseReadyMsg struct {
	Case *casegen.PracticalCase
	Err  error
}

// spinnerTickMsg animates the loading spinner.
type spinnerTickMsg time.Time

// recordSavedMsg confirms an answer outcome was persisted.
type recordSavedMsg struct {
	Err error
}
