package scorecard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a fake completions endpoint that
// answers every request with the given reply content.
func newTestClient(t *testing.T, reply string) *Client {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(server.Close)

	return NewClient(Config{ApiKey: "test-key", BaseUrl: server.URL})
}

func TestExtractJsonBlock(t *testing.T) {
	for _, test := range []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare json",
			reply: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "markdown fenced",
			reply: "Here you go:\n```json\n{\"a\":1}\n```\nEnjoy!",
			want:  `{"a":1}`,
		},
		{
			name:  "nested braces",
			reply: `prefix {"a":{"b":2}} suffix`,
			want:  `{"a":{"b":2}}`,
		},
		{
			name:    "no json at all",
			reply:   "I could not read the scorecard.",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			reply:   "oops }{",
			wantErr: true,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := extractJsonBlock(test.reply)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestParseScorecard(t *testing.T) {
	reply := "```json\n" + `{
		"playerName": "Kim-Ole Myhre",
		"courseName": "Hovedbanen",
		"holes": [4, 6, 6, 5, 5, 6, 5, 3, 4, 4, 5, 5, 4, 8, 4, 3, 4, 5]
	}` + "\n```"
	client := newTestClient(t, reply)

	parsed, err := client.ParseScorecard(context.Background(), []byte("fake-image"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "Kim-Ole Myhre", parsed.PlayerName)
	require.Equal(t, "Hovedbanen", parsed.CourseName)
	require.Len(t, parsed.Holes, 18)

	// date and time default to now when the model leaves them out
	require.Regexp(t, `^\d{2}\.\d{2}\.\d{4}$`, parsed.ScoreDate)
	require.Regexp(t, `^\d{2}:00$`, parsed.ScoreTime)
}

func TestParseScorecardSendsImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 1)
		require.Len(t, req.Messages[0].Content, 2)
		require.Equal(t, "image_url", req.Messages[0].Content[1].Type)
		require.True(t, strings.HasPrefix(req.Messages[0].Content[1].ImageUrl.Url, "data:image/png;base64,"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"playerName\":\"x\",\"courseName\":\"y\",\"holes\":[]}"}}]}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{ApiKey: "test-key", BaseUrl: server.URL})
	_, err := client.ParseScorecard(context.Background(), []byte{1, 2, 3}, "image/png")
	require.NoError(t, err)
}

func TestParseScorecardUnusableReply(t *testing.T) {
	client := newTestClient(t, "Sorry, the photo is too blurry to read.")

	_, err := client.ParseScorecard(context.Background(), []byte("fake-image"), "image/jpeg")
	require.Error(t, err)
}

func TestParseScorecardApiError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{ApiKey: "bad-key", BaseUrl: server.URL})
	_, err := client.ParseScorecard(context.Background(), []byte("fake-image"), "image/jpeg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestFetchForeignCourseData(t *testing.T) {
	reply := `{
		"coursePar": 71,
		"courseRating": 69.8,
		"slope": 124,
		"holes": [{"holeNumber": 1, "par": 4, "hcp": 11}],
		"website": " https://lacala.example ",
		"note": " approximate "
	}`
	client := newTestClient(t, reply)

	data, err := client.FetchForeignCourseData(context.Background(), "La Cala Resort", "Asia", "Yellow", "Spain")
	require.NoError(t, err)
	require.Equal(t, 71, data.CoursePar)
	require.Equal(t, 69.8, data.CourseRating)
	require.Equal(t, 124, data.Slope)
	require.Len(t, data.Holes, 1)
	require.Equal(t, "https://lacala.example", data.Website)
	require.Equal(t, "approximate", data.Note)

	// manual names always come from the caller, not the model
	require.Equal(t, "Asia", data.ManualCourseName)
	require.Equal(t, "Yellow", data.ManualTee)
}

func TestFetchForeignCourseDataMissingHoles(t *testing.T) {
	client := newTestClient(t, `{"coursePar": 72, "courseRating": 71.2, "slope": 130}`)

	data, err := client.FetchForeignCourseData(context.Background(), "Club", "Course", "Tee", "Sweden")
	require.NoError(t, err)
	require.NotNil(t, data.Holes)
	require.Empty(t, data.Holes)
}
