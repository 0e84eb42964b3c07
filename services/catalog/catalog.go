package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golfkollektivet-backend/lib/scrapers/golfbox"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/catalog")

type Tee struct {
	TeeGuid   string
	TeeName   string
	TeeGender string
}

type Course struct {
	CourseGuid string
	CourseName string
	Tees       []Tee
}

type Club struct {
	ClubGuid string
	ClubName string
	Courses  []Course
}

type ClubInput struct {
	Name string `json:"name"`
	Guid string `json:"guid"`
}

// CourseFetcher is the slice of the golfbox client the refresh needs.
type CourseFetcher interface {
	FetchClubCoursesAndTees(ctx context.Context, clubGuid string) ([]golfbox.CourseWithTees, error)
}

// Store holds the harvested club→course→tee snapshot. Refresh replaces
// the snapshot wholesale under the lock, readers never observe a
// half-built catalog.
type Store struct {
	mu    sync.RWMutex
	clubs []Club

	path string
	// pause between per-club requests, golfbox is rate-sensitive
	refreshDelay time.Duration
}

func NewStore(path string) *Store {
	return &Store{
		path:         path,
		refreshDelay: time.Second,
	}
}

// LoadFromDisk installs a previously persisted snapshot as the initial
// state. A missing file is a valid cold start, not an error.
func (s *Store) LoadFromDisk() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var clubs []Club
	err = json.Unmarshal(data, &clubs)
	if err != nil {
		return err
	}
	dedupTees(clubs)

	s.mu.Lock()
	s.clubs = clubs
	s.mu.Unlock()

	slog.Info("loaded club catalog from disk", "path", s.path, "clubs", len(clubs))
	return nil
}

// Refresh enumerates courses and tees for every supplied club and
// replaces the whole catalog with the result. Clubs are fetched
// sequentially with a fixed pause between requests. A failing club is
// logged and omitted, partial success is the expected outcome; Refresh
// itself never fails even when every club does.
func (s *Store) Refresh(ctx context.Context, fetcher CourseFetcher, clubs []ClubInput) []Club {
	ctx, span := tracer.Start(ctx, "store:Refresh")
	defer span.End()

	snapshot := []Club{}
	for i, club := range clubs {
		if i > 0 && s.refreshDelay > 0 {
			time.Sleep(s.refreshDelay)
		}

		slog.InfoContext(ctx, "fetching club data", "club", club.Name, "guid", club.Guid)
		courses, err := fetcher.FetchClubCoursesAndTees(ctx, club.Guid)
		if err != nil {
			slog.WarnContext(ctx, "skipping club after fetch failure", "club", club.Name, "err", err)
			continue
		}

		entry := Club{
			ClubGuid: club.Guid,
			ClubName: club.Name,
		}
		for _, course := range courses {
			courseEntry := Course{
				CourseGuid: course.CourseGuid,
				CourseName: course.CourseName,
			}
			for _, tee := range course.Tees {
				courseEntry.Tees = append(courseEntry.Tees, Tee{
					TeeGuid:   tee.Guid,
					TeeName:   tee.Name,
					TeeGender: tee.Gender,
				})
			}
			entry.Courses = append(entry.Courses, courseEntry)
		}
		snapshot = append(snapshot, entry)
	}

	dedupTees(snapshot)

	s.mu.Lock()
	s.clubs = snapshot
	s.mu.Unlock()

	err := s.persist(snapshot)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist club catalog", "path", s.path, "err", err)
	}

	return snapshot
}

// Load returns the current in-memory snapshot without refreshing.
func (s *Store) Load() []Club {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clubs
}

// ExportJson serializes the current snapshot verbatim for download.
func (s *Store) ExportJson() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.clubs, "", "  ")
}

func (s *Store) persist(clubs []Club) error {
	data, err := json.MarshalIndent(clubs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// golfbox sometimes lists the same physical tee under both genders
// with one guid. Collapse those to a single record, the Male variant
// wins; which gender a shared guid "really" denotes is not knowable
// from the registry, this is just a stable policy.
func dedupTees(clubs []Club) {
	for ci := range clubs {
		for cj := range clubs[ci].Courses {
			course := &clubs[ci].Courses[cj]

			byGuid := map[string]int{}
			deduped := course.Tees[:0]
			for _, tee := range course.Tees {
				at, seen := byGuid[tee.TeeGuid]
				if !seen {
					byGuid[tee.TeeGuid] = len(deduped)
					deduped = append(deduped, tee)
					continue
				}
				if strings.EqualFold(tee.TeeGender, "Male") {
					deduped[at] = tee
				}
			}
			course.Tees = deduped
		}
	}
}
