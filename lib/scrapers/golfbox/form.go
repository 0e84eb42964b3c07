package golfbox

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"golfkollektivet-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var ErrFormFieldsMissing = fmt.Errorf("required hidden fields not found in the score form")

// golfbox mints a fresh anti-forgery field per page load whose *name*
// is a random hyphenated hex string, so it is found by shape, not name
var antiForgeryNameRegex = regexp.MustCompile(`(?i)^[A-F0-9\-]{36}$`)

const playerGuidFieldName = "fld_PlayerMemberGUID"

type ClubOption struct {
	Name string
	Guid string
}

// ScoreForm is the single-use state scraped from one score-entry page
// load. The token pair must be echoed back verbatim on submission and
// cannot be reused across sessions.
type ScoreForm struct {
	PlayerGuid string
	TokenName  string
	TokenValue string
	Clubs      []ClubOption
}

// FetchScoreForm fetches the score-entry page for the session and
// harvests its hidden fields and the club dropdown. A missing club
// dropdown is tolerated, a missing token pair or player guid is not.
func (c *Client) FetchScoreForm(ctx context.Context, selectedGuid string) (ScoreForm, error) {
	ctx, span := tracer.Start(ctx, "client:FetchScoreForm")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/site/my_golfbox/score/whs/newWHSScore.asp?selected=%s", selectedGuid))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch score form")
		return ScoreForm{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse score form html")
		return ScoreForm{}, err
	}

	inputs := htmlutil.HiddenInputs(doc)
	if len(inputs) == 0 {
		span.SetStatus(codes.Error, "no hidden inputs on score form")
		return ScoreForm{}, ErrFormFieldsMissing
	}

	var form ScoreForm
	for _, input := range inputs {
		if antiForgeryNameRegex.MatchString(input.Name) {
			form.TokenName = input.Name
			form.TokenValue = input.Value
		}
		if input.Name == playerGuidFieldName {
			form.PlayerGuid = input.Value
		}
	}

	if form.PlayerGuid == "" || form.TokenName == "" || form.TokenValue == "" {
		span.SetStatus(codes.Error, ErrFormFieldsMissing.Error())
		return ScoreForm{}, ErrFormFieldsMissing
	}

	for _, option := range htmlutil.SelectOptions(doc, "fld_Club") {
		name := strings.TrimSpace(option.Text)
		guid := strings.TrimSpace(option.Value)
		if name == "" || guid == "" {
			continue
		}
		form.Clubs = append(form.Clubs, ClubOption{Name: name, Guid: guid})
	}

	return form, nil
}
