package catalog

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// scorecard extraction is noisy ("Grønmo GK" vs "Grønmo Golfklubb"),
// anything below this similarity is treated as no match
const minSimilarity = 0.8

type CourseMatch struct {
	ClubName   string  `json:"clubName"`
	ClubGuid   string  `json:"clubGuid"`
	CourseName string  `json:"courseName"`
	CourseGuid string  `json:"courseGuid"`
	Similarity float64 `json:"similarity"`
}

func similarity(a, b string) float64 {
	if strings.EqualFold(a, b) {
		return 1
	}
	return matchr.JaroWinkler(strings.ToLower(a), strings.ToLower(b), false)
}

// BestCourseMatch fuzzily resolves names coming out of a scorecard
// photo against the cached catalog. An empty clubName searches every
// club's courses on course name alone.
func (s *Store) BestCourseMatch(clubName, courseName string) (CourseMatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best CourseMatch
	for _, club := range s.clubs {
		clubSim := 1.0
		if clubName != "" {
			clubSim = similarity(club.ClubName, clubName)
			if clubSim < minSimilarity {
				continue
			}
		}
		for _, course := range club.Courses {
			courseSim := similarity(course.CourseName, courseName)
			if courseSim < minSimilarity {
				continue
			}
			combined := clubSim * courseSim
			if combined > best.Similarity {
				best = CourseMatch{
					ClubName:   club.ClubName,
					ClubGuid:   club.ClubGuid,
					CourseName: course.CourseName,
					CourseGuid: course.CourseGuid,
					Similarity: combined,
				}
			}
		}
	}

	return best, best.Similarity > 0
}

// FindTee looks up a tee on a cached course by fuzzy name and exact
// gender. Gender stays exact, the male/female variants of one tee name
// must never blur together.
func (s *Store) FindTee(courseGuid, teeName, teeGender string) (Tee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best Tee
	var bestSim float64
	for _, club := range s.clubs {
		for _, course := range club.Courses {
			if course.CourseGuid != courseGuid {
				continue
			}
			for _, tee := range course.Tees {
				if !strings.EqualFold(tee.TeeGender, teeGender) {
					continue
				}
				sim := similarity(tee.TeeName, teeName)
				if sim >= minSimilarity && sim > bestSim {
					best = tee
					bestSim = sim
				}
			}
		}
	}

	return best, bestSim > 0
}
