package examview

import (
	"time"

	"github.com/rmorales/opotutor/internal/casegen"
)

// examReadyMsg is sent when exam generation finishes.
type examReadyMsg struct {
	Exam *casegen.MockExam
	Err  error
}

// timerTickMsg fires every second while the exam runs.
type timerTickMsg time.Time

// spinnerTickMsg animates the loading spinner.
type spinnerTickMsg time.Time

// recordsSavedMsg confirms the final outcome batch was persisted.
type recordsSavedMsg struct {
	Err error
}
