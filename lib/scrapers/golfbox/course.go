package golfbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golfkollektivet-backend/lib/timezone"

	"go.opentelemetry.io/otel/codes"
)

const serviceCallerPath = "/site/score/whs/api/serviceCaller.asp"

type TeeOption struct {
	Name   string
	Gender string
	Guid   string
}

type CourseWithTees struct {
	CourseName string
	CourseGuid string
	Tees       []TeeOption
}

// CourseStats are date-sensitive (course conditions and adjustments
// change), they are fetched live per round and never cached. Values are
// kept as the registry's own textual forms since they are echoed back
// into the submission form verbatim.
type CourseStats struct {
	Par             string
	Rating          string
	Slope           string
	Pcc             string
	IsHcpQualifying string
}

type courseRecord struct {
	Name string `json:"Course_Name"`
	Guid string `json:"Course_GUID"`
}

type teeRecord struct {
	Text   string `json:"Text"`
	Gender string `json:"Gender"`
	Value  string `json:"Value"`
}

func (c *Client) fetchCourseList(ctx context.Context, clubGuid, scoreDateIso string) ([]courseRecord, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf(
			"%s?action=GetCourses&ScoreDate=%s&Club_GUID=%s",
			serviceCallerPath, scoreDateIso, clubGuid,
		))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []courseRecord `json:"Data"`
	}
	err = json.Unmarshal(res.Body(), &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse course response: %w", err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("could not find 'Data' property in course response")
	}
	for i := range payload.Data {
		payload.Data[i].Name = strings.TrimSpace(payload.Data[i].Name)
	}
	return payload.Data, nil
}

func (c *Client) fetchTeeList(ctx context.Context, courseGuid, scoreDateIso string) ([]teeRecord, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf(
			"%s?action=GetTees&ScoreDate=%s&Course_GUID=%s",
			serviceCallerPath, scoreDateIso, courseGuid,
		))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []teeRecord `json:"Data"`
	}
	err = json.Unmarshal(res.Body(), &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tee response: %w", err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("could not find 'Data' property in tee response")
	}
	for i := range payload.Data {
		payload.Data[i].Text = strings.TrimSpace(payload.Data[i].Text)
		payload.Data[i].Gender = strings.TrimSpace(payload.Data[i].Gender)
	}
	return payload.Data, nil
}

// ResolveCourseGuid matches a course display name (case-insensitive)
// against the club's course listing at the round's date and time. The
// listing can differ by timestamp, seasonal courses come and go.
func (c *Client) ResolveCourseGuid(ctx context.Context, clubGuid, courseName, scoreDate, scoreTime string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:ResolveCourseGuid")
	defer span.End()

	scoreDateIso, err := registryTimestamp(scoreDate, scoreTime)
	if err != nil {
		span.SetStatus(codes.Error, "invalid score date/time")
		return "", err
	}

	courses, err := c.fetchCourseList(ctx, clubGuid, scoreDateIso)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course list")
		return "", err
	}

	available := make([]string, 0, len(courses))
	for _, course := range courses {
		available = append(available, course.Name)
		if strings.EqualFold(course.Name, courseName) {
			return course.Guid, nil
		}
	}

	err = &CourseNotFoundError{Course: courseName, Available: available}
	span.SetStatus(codes.Error, err.Error())
	return "", err
}

// ResolveTeeGuid matches on name AND gender, first match in registry
// response order wins. The lookup uses the current wall clock rather
// than the round's date, mirroring the registry's own form behavior.
func (c *Client) ResolveTeeGuid(ctx context.Context, courseGuid, teeName, teeGender string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:ResolveTeeGuid")
	defer span.End()

	tees, err := c.fetchTeeList(ctx, courseGuid, timezone.Now().Format(registryTimestampLayout))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch tee list")
		return "", err
	}

	available := make([]string, 0, len(tees))
	for _, tee := range tees {
		available = append(available, fmt.Sprintf("%s (%s)", tee.Text, tee.Gender))
		if strings.EqualFold(tee.Text, teeName) && strings.EqualFold(tee.Gender, teeGender) {
			return tee.Value, nil
		}
	}

	err = &TeeNotFoundError{
		Tee:        teeName,
		Gender:     teeGender,
		CourseGuid: courseGuid,
		Available:  available,
	}
	span.SetStatus(codes.Error, err.Error())
	return "", err
}

type ResolveCourseTeeRequest struct {
	ClubGuid   string `json:"clubGuid"`
	CourseName string `json:"courseName"`
	TeeName    string `json:"teeName"`
	TeeGender  string `json:"teeGender"`
	ScoreDate  string `json:"scoreDate"`
	ScoreTime  string `json:"scoreTime"`
}

type ResolveCourseTeeResult struct {
	Success      bool   `json:"success"`
	CourseGuid   string `json:"courseGuid,omitempty"`
	TeeGuid      string `json:"teeGuid,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ResolveCourseAndTee chains the two lookups. Failures come back as a
// result with Success=false carrying the underlying message, callers
// branch on the flag instead of unwrapping errors.
func (c *Client) ResolveCourseAndTee(ctx context.Context, req ResolveCourseTeeRequest) ResolveCourseTeeResult {
	courseGuid, err := c.ResolveCourseGuid(ctx, req.ClubGuid, req.CourseName, req.ScoreDate, req.ScoreTime)
	if err != nil {
		return ResolveCourseTeeResult{Success: false, ErrorMessage: err.Error()}
	}
	teeGuid, err := c.ResolveTeeGuid(ctx, courseGuid, req.TeeName, req.TeeGender)
	if err != nil {
		return ResolveCourseTeeResult{Success: false, ErrorMessage: err.Error()}
	}
	return ResolveCourseTeeResult{
		Success:    true,
		CourseGuid: courseGuid,
		TeeGuid:    teeGuid,
	}
}

// FetchClubCoursesAndTees enumerates every course of a club and each
// course's tees, as of the current wall clock. Used by the catalog
// refresh, not by the submission path.
func (c *Client) FetchClubCoursesAndTees(ctx context.Context, clubGuid string) ([]CourseWithTees, error) {
	ctx, span := tracer.Start(ctx, "client:FetchClubCoursesAndTees")
	defer span.End()

	now := timezone.Now().Format(registryTimestampLayout)

	courses, err := c.fetchCourseList(ctx, clubGuid, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course list")
		return nil, err
	}

	var result []CourseWithTees
	for _, course := range courses {
		tees, err := c.fetchTeeList(ctx, course.Guid, now)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch tee list")
			return nil, fmt.Errorf("failed to fetch tees for course %s: %w", course.Name, err)
		}

		entry := CourseWithTees{
			CourseName: course.Name,
			CourseGuid: course.Guid,
		}
		for _, tee := range tees {
			entry.Tees = append(entry.Tees, TeeOption{
				Name:   tee.Text,
				Gender: tee.Gender,
				Guid:   tee.Value,
			})
		}
		result = append(result, entry)
	}

	return result, nil
}

// FetchCourseStats fetches par, rating, slope and the handicap
// qualifying flag for a resolved course+tee at the round's date. CR is
// delivered scaled by 10000 and is rendered with golfbox's comma
// decimal separator.
func (c *Client) FetchCourseStats(ctx context.Context, courseGuid, teeGuid, playerGuid, scoreDate string) (CourseStats, error) {
	ctx, span := tracer.Start(ctx, "client:FetchCourseStats")
	defer span.End()

	formattedDate, err := registryDate(scoreDate)
	if err != nil {
		span.SetStatus(codes.Error, "invalid score date")
		return CourseStats{}, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf(
			"%s?action=UpdateStats&ScoreDate=%s&Course_GUID=%s&Member_GUID=%s&Tee_GUID=%s",
			serviceCallerPath, formattedDate, courseGuid, playerGuid, teeGuid,
		))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course stats")
		return CourseStats{}, err
	}

	var payload struct {
		Data struct {
			CoursePar       json.Number `json:"CoursePar"`
			CR              int         `json:"CR"`
			Slope           json.Number `json:"Slope"`
			IsHCPQualifying bool        `json:"IsHCPQualifying"`
		} `json:"Data"`
	}
	err = json.Unmarshal(res.Body(), &payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse stats response")
		return CourseStats{}, fmt.Errorf("failed to parse stats response: %w", err)
	}

	rating := strings.Replace(
		fmt.Sprintf("%.1f", float64(payload.Data.CR)/10000.0),
		".", ",", 1,
	)

	stats := CourseStats{
		Par:    payload.Data.CoursePar.String(),
		Rating: rating,
		Slope:  payload.Data.Slope.String(),
		Pcc:    "0",
	}
	stats.IsHcpQualifying = "0"
	if payload.Data.IsHCPQualifying {
		stats.IsHcpQualifying = "1"
	}

	return stats, nil
}
