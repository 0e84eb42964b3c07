package golfbox

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSubmission() ScoreSubmission {
	return ScoreSubmission{
		SelectedGuid: "{SESSION}",
		Form: ScoreForm{
			PlayerGuid: "{PLAYER}",
			TokenName:  "A1B2C3D4-E5F6-A7B8-C9D0-E1F2A3B4C5D6",
			TokenValue: "token-value",
		},
		ClubGuid:   "{CLUB}",
		CourseGuid: "{COURSE}",
		TeeGuid:    "{TEE}",
		MarkerGuid: "{MARKER}",
		ScoreDate:  "24.05.2025",
		ScoreTime:  "11:30",
		HoleScores: []int{4, 6, 6, 5, 5, 6, 5, 3, 4, 4, 5, 5, 4, 8, 4, 3, 4, 5},
		Stats: CourseStats{
			Par:             "72",
			Rating:          "72,5",
			Slope:           "131",
			Pcc:             "0",
			IsHcpQualifying: "1",
		},
	}
}

func TestBuildScoreForm(t *testing.T) {
	sub := testSubmission()
	form := BuildScoreForm(sub)

	require.Equal(t, "{SESSION}", form["selected"])
	require.Equal(t, "save", form["command"])
	require.Equal(t, "token-value", form["A1B2C3D4-E5F6-A7B8-C9D0-E1F2A3B4C5D6"])
	require.Equal(t, "/site/my_golfbox/score/whs/newWHSScore.asp", form["rUrl"])
	require.Equal(t, "{PLAYER}", form["fld_PlayerMemberGUID"])
	require.Equal(t, "{PLAYER}", form["fld_MemberGUID"])
	require.Equal(t, "on", form["chk_IsCounting"])
	require.Equal(t, "on", form["chk_InputHoleScores"])
	require.Equal(t, "2", form["rdo_RoundType"])
	require.Equal(t, "18", form["fld_HolesPlayed"])
	require.Equal(t, "72", form["fld_CoursePar"])
	require.Equal(t, "72,5", form["fld_CourseRating"])
	require.Equal(t, "131", form["fld_Slope"])
	require.Equal(t, "1", form["isHcpQualifying"])
	require.Equal(t, "{MARKER}", form["fld_MarkerMemberGUID"])

	// exactly 18 positional hole fields, values in input order
	for i, strokes := range sub.HoleScores {
		require.Equal(t, strconv.Itoa(strokes), form[fmt.Sprintf("ScoreHole_%d", i)])
	}
	_, has := form["ScoreHole_18"]
	require.False(t, has)
}

func TestBuildForeignScoreForm(t *testing.T) {
	form := BuildForeignScoreForm(ForeignScoreSubmission{
		SelectedGuid: "{SESSION}",
		Form: ScoreForm{
			PlayerGuid: "{PLAYER}",
			TokenName:  "A1B2C3D4-E5F6-A7B8-C9D0-E1F2A3B4C5D6",
			TokenValue: "token-value",
		},
		MarkerGuid:       "{MARKER}",
		Country:          "Spain",
		ManualCourseName: "La Cala Asia",
		ManualTeeName:    "Yellow",
		ScoreDate:        "24.05.2025",
		ScoreTime:        "11:30",
		Par:              71,
		CourseRating:     69.8,
		Slope:            124,
		Holes: []ForeignHole{
			{HoleNumber: 1, Par: 4, Hcp: 11, Strokes: 5},
			{HoleNumber: 2, Par: 3, Hcp: 17, Strokes: 4},
		},
	})

	require.Equal(t, "on", form["chk_UnknownCourse"])
	require.Equal(t, UnknownClubGuid, form["fld_Club"])
	require.Equal(t, UnknownCourseGuid, form["fld_Course"])
	require.Equal(t, UnknownTeeGuid, form["fld_Tee"])
	require.Equal(t, "Spain", form["fld_ManualCountryName"])
	require.Equal(t, "La Cala Asia", form["fld_ManualCourseName"])
	require.Equal(t, "Yellow", form["fld_ManualTee"])
	require.Equal(t, "71", form["fld_CoursePar"])
	require.Equal(t, "69.8", form["fld_CourseRating"])
	require.Equal(t, "124", form["fld_Slope"])
	require.Equal(t, "2", form["fld_HolesPlayed"])

	require.Equal(t, "4", form["Par-1"])
	require.Equal(t, "11", form["HCP-1"])
	require.Equal(t, "5", form["Strokes-1"])
	require.Equal(t, "3", form["Par-2"])
	require.Equal(t, "17", form["HCP-2"])
	require.Equal(t, "4", form["Strokes-2"])
}

func TestSubmitScoreFormConfirmationBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/site/my_golfbox/score/whs/newWHSScore.asp", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "save", r.PostFormValue("command"))
		require.Equal(t, "token-value", r.PostFormValue("A1B2C3D4-E5F6-A7B8-C9D0-E1F2A3B4C5D6"))
		w.Write([]byte("<html><body>Score er lagret</body></html>"))
	})
	client := newTestClient(t, mux)

	saved, err := client.SubmitScoreForm(context.Background(), "{SESSION}", BuildScoreForm(testSubmission()))
	require.NoError(t, err)
	require.True(t, saved)
}

func TestSubmitScoreFormRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/site/my_golfbox/score/whs/newWHSScore.asp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Noe gikk galt</body></html>"))
	})
	client := newTestClient(t, mux)

	saved, err := client.SubmitScoreForm(context.Background(), "{SESSION}", BuildScoreForm(testSubmission()))
	require.NoError(t, err)
	require.False(t, saved)
}
