package golfbox

import (
	"fmt"
	"strings"
)

// not-found errors carry the full enumeration the registry returned,
// callers surface it verbatim as the diagnostic message

type ClubNotFoundError struct {
	Club      string
	Available []string
}

func (e *ClubNotFoundError) Error() string {
	return fmt.Sprintf("club '%s' not found. Available: %s", e.Club, strings.Join(e.Available, ", "))
}

type CourseNotFoundError struct {
	Course    string
	Available []string
}

func (e *CourseNotFoundError) Error() string {
	return fmt.Sprintf("course '%s' not found. Available: %s", e.Course, strings.Join(e.Available, ", "))
}

type TeeNotFoundError struct {
	Tee        string
	Gender     string
	CourseGuid string
	// formatted as "name (gender)" in registry response order
	Available []string
}

func (e *TeeNotFoundError) Error() string {
	return fmt.Sprintf(
		"tee '%s' (%s) not found for course %s. Available: %s",
		e.Tee, e.Gender, e.CourseGuid, strings.Join(e.Available, ", "),
	)
}
