package scorecard

import (
	"golfkollektivet-backend/services/catalog"
)

// CatalogMatch is the identifier set an autofilled scorecard resolves
// to. When present it lets the submission skip the live name
// resolution round-trips entirely.
type CatalogMatch struct {
	ClubName   string `json:"clubName"`
	ClubGuid   string `json:"clubGuid"`
	CourseName string `json:"courseName"`
	CourseGuid string `json:"courseGuid"`
	TeeName    string `json:"teeName,omitempty"`
	TeeGuid    string `json:"teeGuid,omitempty"`
}

// AutofillFromCatalog matches the names read off a scorecard against
// the cached catalog. Club and course must match for any result; the
// tee is best-effort because most scorecards never name one.
func AutofillFromCatalog(store *catalog.Store, parsed *ParsedScorecard, teeGender string) (CatalogMatch, bool) {
	course, ok := store.BestCourseMatch(parsed.ClubName, parsed.CourseName)
	if !ok {
		return CatalogMatch{}, false
	}

	match := CatalogMatch{
		ClubName:   course.ClubName,
		ClubGuid:   course.ClubGuid,
		CourseName: course.CourseName,
		CourseGuid: course.CourseGuid,
	}
	if parsed.TeeName != "" {
		if tee, ok := store.FindTee(course.CourseGuid, parsed.TeeName, teeGender); ok {
			match.TeeName = tee.TeeName
			match.TeeGuid = tee.TeeGuid
		}
	}

	return match, true
}
