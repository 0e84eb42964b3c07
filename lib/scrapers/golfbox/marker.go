package golfbox

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const searchMemberPath = "/site/my_golfbox/score/whs/_searchMember.asp"

// a membership number looks like "77-4183": club number, hyphen, member number
var memberNumberRegex = regexp.MustCompile(`^\d{1,9}-\d{1,9}$`)

var markerGuidRegex = regexp.MustCompile(`(?i)'g':'(\{[A-F0-9\-]+\})'`)
var markerNameRegex = regexp.MustCompile(`(?i)'n':'([^']+)'`)
var markerClubRegex = regexp.MustCompile(`(?i)'c':'([^']+)'`)

type MarkerSearchResult struct {
	Guid    string `json:"guid"`
	Name    string `json:"name"`
	Club    string `json:"club"`
	Display string `json:"display"`
}

// SearchMarkers looks up candidate markers in the player directory.
// Input shaped like a membership number gets a direct id lookup with a
// pipe-delimited single-record response, anything else a free-text name
// search returning an html select.
func (c *Client) SearchMarkers(ctx context.Context, input string) ([]MarkerSearchResult, error) {
	ctx, span := tracer.Start(ctx, "client:SearchMarkers")
	defer span.End()

	if memberNumberRegex.MatchString(input) {
		return c.searchMarkersByNumber(ctx, input)
	}
	return c.searchMarkersByName(ctx, input)
}

func (c *Client) searchMarkersByNumber(ctx context.Context, number string) ([]MarkerSearchResult, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s?id=%s&country=NO", searchMemberPath, number))
	if err != nil {
		return nil, err
	}

	// response format: {GUID}|Name|Club|... with trailing fields ignored
	content := res.String()
	if strings.TrimSpace(content) == "" || !strings.Contains(content, "|") {
		return []MarkerSearchResult{}, nil
	}
	parts := strings.Split(content, "|")
	if len(parts) < 3 {
		return []MarkerSearchResult{}, nil
	}

	return []MarkerSearchResult{
		{
			Guid:    parts[0],
			Name:    parts[1],
			Club:    parts[2],
			Display: fmt.Sprintf("%s, %s, %s", number, parts[1], parts[2]),
		},
	}, nil
}

func (c *Client) searchMarkersByName(ctx context.Context, name string) ([]MarkerSearchResult, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"name":    name,
			"country": "NO",
		}).
		Post(searchMemberPath)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}

	results := []MarkerSearchResult{}
	doc.Find("select#slc_MarkerSearch4result option").Each(func(_ int, opt *goquery.Selection) {
		valueRaw := opt.AttrOr("value", "")

		// options without an extractable guid are skipped outright
		guid := markerGuidRegex.FindStringSubmatch(valueRaw)
		if len(guid) < 2 {
			return
		}

		result := MarkerSearchResult{
			Guid:    guid[1],
			Display: strings.TrimSpace(opt.Text()),
		}
		if m := markerNameRegex.FindStringSubmatch(valueRaw); len(m) >= 2 {
			result.Name = m[1]
		}
		if m := markerClubRegex.FindStringSubmatch(valueRaw); len(m) >= 2 {
			result.Club = m[1]
		}
		results = append(results, result)
	})

	return results, nil
}

// MarkerGuid returns the first search result's guid, or "" when the
// search came back empty.
func (c *Client) MarkerGuid(ctx context.Context, name string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:MarkerGuid")
	defer span.End()

	results, err := c.SearchMarkers(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marker search failed")
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].Guid, nil
}
