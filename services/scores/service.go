package scores

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golfkollektivet-backend/lib/scrapers/golfbox"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/scores")

// Service drives the whole submission workflow:
// login → harvest form → resolve identifiers → stats → submit → logout.
// Every submission gets its own golfbox client so concurrent requests
// never share a cookie jar.
type Service struct {
	baseUrl string
}

func NewService(baseUrl string) Service {
	return Service{baseUrl: baseUrl}
}

func (s Service) newClient(ctx context.Context) (*golfbox.Client, error) {
	return golfbox.NewClient(ctx, golfbox.ClientOptions{BaseUrl: s.baseUrl})
}

type SubmitScoreRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`

	ClubName   string `json:"clubName"`
	CourseName string `json:"courseName"`
	TeeName    string `json:"teeName"`
	TeeGender  string `json:"teeGender"`
	MarkerName string `json:"markerName"`

	ScoreDate  string `json:"scoreDate"`
	ScoreTime  string `json:"scoreTime"`
	HoleScores []int  `json:"holeScores"`

	// optional pre-resolved identifiers, e.g. from the club catalog.
	// when the full set is present the name resolution steps are skipped.
	ClubGuid   string `json:"clubGuid,omitempty"`
	CourseGuid string `json:"courseGuid,omitempty"`
	TeeGuid    string `json:"teeGuid,omitempty"`
	MarkerGuid string `json:"markerGuid,omitempty"`
}

func (r SubmitScoreRequest) preResolved() bool {
	return r.ClubGuid != "" && r.CourseGuid != "" && r.TeeGuid != "" && r.MarkerGuid != ""
}

type SubmitScoreResult struct {
	Success      bool   `json:"success"`
	Hcp          string `json:"hcp,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func failure(message string) SubmitScoreResult {
	return SubmitScoreResult{Success: false, ErrorMessage: message}
}

// SubmitScore runs the full standard workflow. Failures come back as a
// result carrying the most specific message available, never as an
// error, and nothing is retried: the anti-forgery token is single-use,
// a retry has to start over from login.
func (s Service) SubmitScore(ctx context.Context, req SubmitScoreRequest) SubmitScoreResult {
	ctx, span := tracer.Start(ctx, "service:SubmitScore")
	defer span.End()

	if len(req.HoleScores) != 18 {
		return failure(fmt.Sprintf("expected 18 hole scores, got %d", len(req.HoleScores)))
	}
	if req.TeeGender == "" {
		req.TeeGender = "Male"
	}

	client, err := s.newClient(ctx)
	if err != nil {
		return failure(err.Error())
	}

	login, err := client.Login(ctx, req.Username, req.Password)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		return failure(err.Error())
	}
	defer client.Logout(ctx)

	if login.SelectedGuid == "" {
		// without the session guid no authenticated call can be scoped;
		// a missing hcp on the other hand is only cosmetic
		return failure("Login succeeded but no session identifier was found.")
	}

	form, err := client.FetchScoreForm(ctx, login.SelectedGuid)
	if err != nil {
		span.SetStatus(codes.Error, "form harvest failed")
		return failure(err.Error())
	}

	markerGuid := req.MarkerGuid
	if markerGuid == "" {
		markerGuid, err = client.MarkerGuid(ctx, req.MarkerName)
		if err != nil {
			return failure(err.Error())
		}
		if markerGuid == "" {
			return failure(fmt.Sprintf("marker '%s' not found", req.MarkerName))
		}
	}

	clubGuid := req.ClubGuid
	courseGuid := req.CourseGuid
	teeGuid := req.TeeGuid
	if !req.preResolved() {
		clubGuid, err = matchClub(form.Clubs, req.ClubName)
		if err != nil {
			return failure(err.Error())
		}

		resolved := client.ResolveCourseAndTee(ctx, golfbox.ResolveCourseTeeRequest{
			ClubGuid:   clubGuid,
			CourseName: req.CourseName,
			TeeName:    req.TeeName,
			TeeGender:  req.TeeGender,
			ScoreDate:  req.ScoreDate,
			ScoreTime:  req.ScoreTime,
		})
		if !resolved.Success {
			return failure(resolved.ErrorMessage)
		}
		courseGuid = resolved.CourseGuid
		teeGuid = resolved.TeeGuid
	}

	stats, err := client.FetchCourseStats(ctx, courseGuid, teeGuid, form.PlayerGuid, req.ScoreDate)
	if err != nil {
		return failure(err.Error())
	}

	saved, err := client.SubmitScoreForm(ctx, login.SelectedGuid, golfbox.BuildScoreForm(golfbox.ScoreSubmission{
		SelectedGuid: login.SelectedGuid,
		Form:         form,
		ClubGuid:     clubGuid,
		CourseGuid:   courseGuid,
		TeeGuid:      teeGuid,
		MarkerGuid:   markerGuid,
		ScoreDate:    req.ScoreDate,
		ScoreTime:    req.ScoreTime,
		HoleScores:   req.HoleScores,
		Stats:        stats,
	}))
	if err != nil {
		return failure(err.Error())
	}
	if !saved {
		return failure("golfbox did not confirm the score submission")
	}

	slog.InfoContext(ctx, "score submitted", "user", req.Username, "course", req.CourseName, "hcp", login.Hcp)
	return SubmitScoreResult{Success: true, Hcp: login.Hcp}
}

func matchClub(clubs []golfbox.ClubOption, clubName string) (string, error) {
	available := make([]string, 0, len(clubs))
	for _, club := range clubs {
		available = append(available, club.Name)
		if strings.EqualFold(club.Name, clubName) {
			return club.Guid, nil
		}
	}
	return "", &golfbox.ClubNotFoundError{Club: clubName, Available: available}
}

type SubmitForeignScoreRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`

	Country          string `json:"country"`
	ManualCourseName string `json:"manualCourseName"`
	ManualTeeName    string `json:"manualTeeName"`
	MarkerName       string `json:"markerName"`
	MarkerGuid       string `json:"markerGuid,omitempty"`

	ScoreDate string `json:"scoreDate"`
	ScoreTime string `json:"scoreTime"`

	Par          int                   `json:"par"`
	CourseRating float64               `json:"courseRating"`
	Slope        int                   `json:"slope"`
	Holes        []golfbox.ForeignHole `json:"holes"`
}

// SubmitForeignScore handles rounds played on courses outside golfbox's
// database: sentinel identifiers stand in for club/course/tee and the
// caller supplies the course facts, so the resolver is skipped entirely.
// Session, form harvest and marker search work exactly as in the
// standard path.
func (s Service) SubmitForeignScore(ctx context.Context, req SubmitForeignScoreRequest) SubmitScoreResult {
	ctx, span := tracer.Start(ctx, "service:SubmitForeignScore")
	defer span.End()

	if len(req.Holes) == 0 {
		return failure("no hole details supplied")
	}

	client, err := s.newClient(ctx)
	if err != nil {
		return failure(err.Error())
	}

	login, err := client.Login(ctx, req.Username, req.Password)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		return failure(err.Error())
	}
	defer client.Logout(ctx)

	if login.SelectedGuid == "" {
		return failure("Login succeeded but no session identifier was found.")
	}

	form, err := client.FetchScoreForm(ctx, login.SelectedGuid)
	if err != nil {
		return failure(err.Error())
	}

	markerGuid := req.MarkerGuid
	if markerGuid == "" {
		markerGuid, err = client.MarkerGuid(ctx, req.MarkerName)
		if err != nil {
			return failure(err.Error())
		}
		if markerGuid == "" {
			return failure(fmt.Sprintf("marker '%s' not found", req.MarkerName))
		}
	}

	saved, err := client.SubmitScoreForm(ctx, login.SelectedGuid, golfbox.BuildForeignScoreForm(golfbox.ForeignScoreSubmission{
		SelectedGuid:     login.SelectedGuid,
		Form:             form,
		MarkerGuid:       markerGuid,
		Country:          req.Country,
		ManualCourseName: req.ManualCourseName,
		ManualTeeName:    req.ManualTeeName,
		ScoreDate:        req.ScoreDate,
		ScoreTime:        req.ScoreTime,
		Par:              req.Par,
		CourseRating:     req.CourseRating,
		Slope:            req.Slope,
		Holes:            req.Holes,
	}))
	if err != nil {
		return failure(err.Error())
	}
	if !saved {
		return failure("golfbox did not confirm the score submission")
	}

	slog.InfoContext(ctx, "foreign score submitted", "user", req.Username, "course", req.ManualCourseName)
	return SubmitScoreResult{Success: true, Hcp: login.Hcp}
}

// SearchMarkers and the course queries below run against the public
// service endpoints, no login is required.

func (s Service) SearchMarkers(ctx context.Context, input string) ([]golfbox.MarkerSearchResult, error) {
	client, err := s.newClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.SearchMarkers(ctx, input)
}

func (s Service) ResolveCourseAndTee(ctx context.Context, req golfbox.ResolveCourseTeeRequest) golfbox.ResolveCourseTeeResult {
	client, err := s.newClient(ctx)
	if err != nil {
		return golfbox.ResolveCourseTeeResult{Success: false, ErrorMessage: err.Error()}
	}
	return client.ResolveCourseAndTee(ctx, req)
}

func (s Service) CoursesAndTees(ctx context.Context, clubGuid string) ([]golfbox.CourseWithTees, error) {
	client, err := s.newClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.FetchClubCoursesAndTees(ctx, clubGuid)
}
