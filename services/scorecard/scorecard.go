package scorecard

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"golfkollektivet-backend/lib/timezone"

	"go.opentelemetry.io/otel/codes"
)

// ParsedScorecard is what the model reads off a scorecard photo. Only
// player, course and holes are asked for; club/tee/date/time come back
// empty unless the model volunteers them and get filled in downstream.
type ParsedScorecard struct {
	PlayerName string `json:"playerName"`
	ClubName   string `json:"clubName,omitempty"`
	CourseName string `json:"courseName"`
	TeeName    string `json:"teeName,omitempty"`
	ScoreDate  string `json:"scoreDate,omitempty"`
	ScoreTime  string `json:"scoreTime,omitempty"`
	Holes      []int  `json:"holes"`
}

const scorecardPrompt = `Extract the player name, course name, and the hole scores from this golf scorecard. The score is always found under the column named 'Score'.

Return valid JSON using these exact keys:
- playerName (string)
- courseName (string)
- holes (list of integers representing the hole-by-hole score, 9 or 18 entries)

Validation rules (VERY IMPORTANT):
- The last number in the front 9 (often labeled 'Ut') is the total of the first 9 hole scores.
- The last number in the back 9 (often labeled 'In') is the total of the last 9 hole scores.
- There is also a final total score (e.g. Score 86/73 means 86 is the raw score).
- You must sum the hole scores and confirm:
  - Front 9 total = sum of first 9 holes
  - Back 9 total = sum of last 9 holes
  - Final total = sum of all 18 scores

If the totals don't match what's printed, re-check the scores and try again until they do.

Do NOT guess or skip holes, return exactly the hole values you can verify.
Do NOT include any extra explanation. Output ONLY the JSON object.

Example format:

` + "```json" + `
{
  "playerName": "Kim-Ole Myhre",
  "courseName": "Hovedbanen",
  "holes": [4, 6, 6, 5, 5, 6, 5, 3, 4, 4, 5, 5, 4, 8, 4, 3, 4, 5]
}
` + "```"

// ParseScorecard sends a scorecard photo through the vision model and
// decodes the reply. Hole values are returned as extracted, they are
// not validated against any total here.
func (c *Client) ParseScorecard(ctx context.Context, image []byte, contentType string) (*ParsedScorecard, error) {
	ctx, span := tracer.Start(ctx, "client:ParseScorecard")
	defer span.End()

	imageUrl := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))
	reply, err := c.complete(ctx, []chatContent{
		{Type: "text", Text: scorecardPrompt},
		{Type: "image_url", ImageUrl: &chatImageUrl{Url: imageUrl}},
	}, 1000)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "scorecard model reply", "reply", reply)

	var parsed ParsedScorecard
	if err := decodeJsonBlock(reply, &parsed); err != nil {
		span.SetStatus(codes.Error, "unusable scorecard reply")
		return nil, err
	}

	now := timezone.Now()
	if parsed.ScoreDate == "" {
		parsed.ScoreDate = now.Format("02.01.2006")
	}
	if parsed.ScoreTime == "" {
		parsed.ScoreTime = fmt.Sprintf("%02d:00", now.Hour())
	}
	if parsed.Holes == nil {
		parsed.Holes = []int{}
	}

	return &parsed, nil
}
