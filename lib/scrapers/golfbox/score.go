package golfbox

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

// sentinel guids golfbox uses for rounds played on courses outside its
// own database
const (
	UnknownClubGuid   = "5c6bdc3c-3d0a-43d0-b4a7-dcc2e9f8b454"
	UnknownCourseGuid = "2FAD3285-6F1A-4B6B-A0BD-904A5E077542"
	UnknownTeeGuid    = "5E9F9072-5ABB-43C7-A80B-95CAAE68933A"
)

const scoreFormRurl = "/site/my_golfbox/score/whs/newWHSScore.asp"

type ScoreSubmission struct {
	SelectedGuid string
	Form         ScoreForm
	ClubGuid     string
	CourseGuid   string
	TeeGuid      string
	MarkerGuid   string
	ScoreDate    string
	ScoreTime    string
	HoleScores   []int
	Stats        CourseStats
}

// BuildScoreForm assembles the exact field set golfbox's own score form
// posts. Hole fields are keyed positionally from zero.
func BuildScoreForm(sub ScoreSubmission) map[string]string {
	form := map[string]string{
		"selected":             sub.SelectedGuid,
		"command":              "save",
		sub.Form.TokenName:     sub.Form.TokenValue,
		"rUrl":                 scoreFormRurl,
		"isHcpQualifying":      sub.Stats.IsHcpQualifying,
		"fld_PlayerMemberGUID": sub.Form.PlayerGuid,
		"chk_IsCounting":       "on",
		"fld_MemberGUID":       sub.Form.PlayerGuid,
		"fld_ScoreDate":        sub.ScoreDate,
		"fld_ScoreTime":        sub.ScoreTime,
		"rdo_RoundType":        "2",
		"fld_HolesPlayed":      strconv.Itoa(len(sub.HoleScores)),
		"fld_Club":             sub.ClubGuid,
		"fld_PCC":              sub.Stats.Pcc,
		"fld_Course":           sub.CourseGuid,
		"fld_Tee":              sub.TeeGuid,
		"fld_CoursePar":        sub.Stats.Par,
		"fld_CourseRating":     sub.Stats.Rating,
		"fld_Slope":            sub.Stats.Slope,
		"fld_MarkerMemberGUID": sub.MarkerGuid,
		"chk_InputHoleScores":  "on",
	}

	for i, strokes := range sub.HoleScores {
		form[fmt.Sprintf("ScoreHole_%d", i)] = strconv.Itoa(strokes)
	}

	return form
}

type ForeignHole struct {
	HoleNumber int `json:"holeNumber"`
	Par        int `json:"par"`
	Hcp        int `json:"hcp"`
	Strokes    int `json:"strokes"`
}

type ForeignScoreSubmission struct {
	SelectedGuid     string
	Form             ScoreForm
	MarkerGuid       string
	Country          string
	ManualCourseName string
	ManualTeeName    string
	ScoreDate        string
	ScoreTime        string
	Par              int
	CourseRating     float64
	Slope            int
	Holes            []ForeignHole
}

// BuildForeignScoreForm is the manual-course variant: sentinel guids
// stand in for club/course/tee and the course facts are supplied by the
// caller instead of resolved. The course rating keeps a dot separator
// here, matching the manual entry form.
func BuildForeignScoreForm(sub ForeignScoreSubmission) map[string]string {
	form := map[string]string{
		"selected":              sub.SelectedGuid,
		"command":               "save",
		sub.Form.TokenName:      sub.Form.TokenValue,
		"rUrl":                  scoreFormRurl,
		"isHcpQualifying":       "1",
		"fld_PlayerMemberGUID":  sub.Form.PlayerGuid,
		"chk_IsCounting":        "on",
		"fld_MemberGUID":        sub.Form.PlayerGuid,
		"fld_ScoreDate":         sub.ScoreDate,
		"fld_ScoreTime":         sub.ScoreTime,
		"rdo_RoundType":         "2",
		"fld_HolesPlayed":       strconv.Itoa(len(sub.Holes)),
		"chk_UnknownCourse":     "on",
		"fld_ManualCountryName": sub.Country,
		"fld_Club":              UnknownClubGuid,
		"fld_PCC":               "0",
		"fld_Course":            UnknownCourseGuid,
		"fld_ManualCourseName":  sub.ManualCourseName,
		"fld_Tee":               UnknownTeeGuid,
		"fld_ManualTee":         sub.ManualTeeName,
		"fld_CoursePar":         strconv.Itoa(sub.Par),
		"fld_CourseRating":      strconv.FormatFloat(sub.CourseRating, 'f', 1, 64),
		"fld_Slope":             strconv.Itoa(sub.Slope),
		"fld_MarkerMemberGUID":  sub.MarkerGuid,
		"chk_InputHoleScores":   "on",
	}

	for _, hole := range sub.Holes {
		form[fmt.Sprintf("Par-%d", hole.HoleNumber)] = strconv.Itoa(hole.Par)
		form[fmt.Sprintf("HCP-%d", hole.HoleNumber)] = strconv.Itoa(hole.Hcp)
		form[fmt.Sprintf("Strokes-%d", hole.HoleNumber)] = strconv.Itoa(hole.Strokes)
	}

	return form
}

// SubmitScoreForm posts a prepared form. Success is either the inline
// confirmation phrase or a redirect to the confirmation listing, the
// registry uses both depending on code path. The anti-forgery token is
// single-use, a failed submission cannot be retried verbatim.
func (c *Client) SubmitScoreForm(ctx context.Context, selectedGuid string, form map[string]string) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:SubmitScoreForm")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(fmt.Sprintf("%s?selected=%s", scoreFormRurl, selectedGuid))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post score form")
		return false, err
	}

	saved := strings.Contains(res.String(), "Score er lagret") ||
		strings.Contains(res.Header().Get("Location"), "listScoresToConfirm.asp")
	if !saved {
		span.SetStatus(codes.Error, "golfbox did not confirm the score")
	}
	return saved, nil
}
