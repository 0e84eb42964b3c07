package scorecard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

type ForeignCourseHole struct {
	HoleNumber int `json:"holeNumber"`
	Par        int `json:"par"`
	Hcp        int `json:"hcp"`
	Score      int `json:"score,omitempty"`
}

// ForeignCourseData carries the course facts needed for a manual score
// entry. Website and Note are informational, the model sets Note when
// its data is approximate and then leaves Holes empty.
type ForeignCourseData struct {
	CoursePar        int                 `json:"coursePar"`
	CourseRating     float64             `json:"courseRating"`
	Slope            int                 `json:"slope"`
	ManualCourseName string              `json:"manualCourseName"`
	ManualTee        string              `json:"manualTee"`
	Website          string              `json:"website,omitempty"`
	Note             string              `json:"note,omitempty"`
	Holes            []ForeignCourseHole `json:"holes"`
}

func foreignCoursePrompt(clubName, courseName, teeName, country string) string {
	return fmt.Sprintf(`Return the following data as valid JSON only, no explanation or markdown formatting.

Input:
- Golf Club: %s
- Course: %s
- Tee: %s
- Country: %s

Make sure to use all fields of the input for max accuracy.

Output JSON structure:
{
  "coursePar": int,
  "courseRating": decimal,
  "slope": int,
  "holes": [
    {
      "holeNumber": 1,
      "par": int,
      "hcp": int
    },
    ...
    {
      "holeNumber": 18,
      "par": int,
      "hcp": int
    }
  ],
  "website": "https://..."
}

If the data is incomplete or uncertain, include "note": "brief explanation or source" at the end of the JSON. If data is approximate, leave the holes list empty.
If available, include the official golf club or course website as "website".
`, clubName, courseName, teeName, country)
}

// FetchForeignCourseData asks the model for the par/rating/slope/hole
// layout of a course outside the registry's database.
func (c *Client) FetchForeignCourseData(ctx context.Context, clubName, courseName, teeName, country string) (*ForeignCourseData, error) {
	ctx, span := tracer.Start(ctx, "client:FetchForeignCourseData")
	defer span.End()

	reply, err := c.complete(ctx, []chatContent{
		{Type: "text", Text: foreignCoursePrompt(clubName, courseName, teeName, country)},
	}, 1500)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "foreign course model reply", "reply", reply)

	var data ForeignCourseData
	if err := decodeJsonBlock(reply, &data); err != nil {
		span.SetStatus(codes.Error, "unusable foreign course reply")
		return nil, err
	}

	// the manual names are the caller's inputs, never the model's
	data.ManualCourseName = courseName
	data.ManualTee = teeName
	data.Website = strings.TrimSpace(data.Website)
	data.Note = strings.TrimSpace(data.Note)
	if data.Holes == nil {
		data.Holes = []ForeignCourseHole{}
	}

	return &data, nil
}
