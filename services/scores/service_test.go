package scores

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"golfkollektivet-backend/lib/scrapers/golfbox"
	"golfkollektivet-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// fakeRegistry is a minimal golfbox lookalike covering every endpoint
// the submission workflow touches.
type fakeRegistry struct {
	t *testing.T

	rejectLogin  bool
	omitSelected bool
	noMarkerHits bool

	loggedOut     atomic.Bool
	submittedForm url.Values
}

func (f *fakeRegistry) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/login.asp", func(w http.ResponseWriter, r *http.Request) {
		if f.rejectLogin {
			w.WriteHeader(http.StatusForbidden)
		}
	})
	mux.HandleFunc("/site/my_golfbox/myFrontPage.asp", func(w http.ResponseWriter, r *http.Request) {
		page := `<html><body>GolfBox Player <span>HCP 18,3</span>`
		if !f.omitSelected {
			page += `<a href="newWHSScore.asp?selected={11111111-2222-3333-4444-555555555555}">score</a>`
		}
		page += `</body></html>`
		w.Write([]byte(page))
	})
	mux.HandleFunc("/site/my_golfbox/score/whs/newWHSScore.asp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`<html><body><form>
				<input type="hidden" name="F0E1D2C3-B4A5-9687-7869-5A4B3C2D1E0F" value="fresh-token">
				<input type="hidden" name="fld_PlayerMemberGUID" value="{PLAYER}">
				<select id="fld_Club">
					<option value="{CLUB-GRONMO}">Grønmo Golfklubb</option>
				</select>
			</form></body></html>`))
			return
		}
		require.NoError(f.t, r.ParseForm())
		f.submittedForm = r.PostForm
		w.Write([]byte("<html><body>Score er lagret</body></html>"))
	})
	mux.HandleFunc("/site/score/whs/api/serviceCaller.asp", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "GetCourses":
			fmt.Fprint(w, `{"Data":[{"Course_Name":"Hovedbanen","Course_GUID":"{COURSE-MAIN}"}]}`)
		case "GetTees":
			fmt.Fprint(w, `{"Data":[{"Text":"56","Gender":"Male","Value":"{TEE-56-M}"}]}`)
		case "UpdateStats":
			fmt.Fprint(w, `{"Data":{"CoursePar":72,"CR":725000,"Slope":131,"IsHCPQualifying":true}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	mux.HandleFunc("/site/my_golfbox/score/whs/_searchMember.asp", func(w http.ResponseWriter, r *http.Request) {
		if f.noMarkerHits {
			w.Write([]byte("<html><body></body></html>"))
			return
		}
		if r.Method == http.MethodGet {
			w.Write([]byte("{MARKER}|Kim Olsen|Grønmo Golfklubb|x"))
			return
		}
		w.Write([]byte(`<html><body><select id="slc_MarkerSearch4result">
			<option value="'g':'{MARKER}','n':'Kim Olsen','c':'Grønmo Golfklubb'">77-4183, Kim Olsen, Grønmo Golfklubb</option>
		</select></body></html>`))
	})
	mux.HandleFunc("/logoff.asp", func(w http.ResponseWriter, r *http.Request) {
		f.loggedOut.Store(true)
	})

	return mux
}

func newTestService(t *testing.T, registry *fakeRegistry) Service {
	registry.t = t
	server := httptest.NewServer(registry.handler())
	t.Cleanup(server.Close)
	return NewService(server.URL)
}

func validRequest() SubmitScoreRequest {
	return SubmitScoreRequest{
		Username:   "kim",
		Password:   "hunter2",
		ClubName:   "grønmo golfklubb",
		CourseName: "Hovedbanen",
		TeeName:    "56",
		TeeGender:  "Male",
		MarkerName: "Kim Olsen",
		ScoreDate:  "24.05.2025",
		ScoreTime:  "11:30",
		HoleScores: []int{4, 6, 6, 5, 5, 6, 5, 3, 4, 4, 5, 5, 4, 8, 4, 3, 4, 5},
	}
}

func TestSubmitScore(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/scores")
	defer cleanup()

	registry := &fakeRegistry{}
	service := newTestService(t, registry)

	result := service.SubmitScore(context.Background(), validRequest())
	require.True(t, result.Success, result.ErrorMessage)
	require.Equal(t, "18,3", result.Hcp)

	form := registry.submittedForm
	require.Equal(t, "save", form.Get("command"))
	require.Equal(t, "fresh-token", form.Get("F0E1D2C3-B4A5-9687-7869-5A4B3C2D1E0F"))
	require.Equal(t, "{11111111-2222-3333-4444-555555555555}", form.Get("selected"))
	require.Equal(t, "{CLUB-GRONMO}", form.Get("fld_Club"))
	require.Equal(t, "{COURSE-MAIN}", form.Get("fld_Course"))
	require.Equal(t, "{TEE-56-M}", form.Get("fld_Tee"))
	require.Equal(t, "{MARKER}", form.Get("fld_MarkerMemberGUID"))
	require.Equal(t, "72", form.Get("fld_CoursePar"))
	require.Equal(t, "72,5", form.Get("fld_CourseRating"))
	require.Equal(t, "131", form.Get("fld_Slope"))
	require.Equal(t, "18", form.Get("fld_HolesPlayed"))
	require.Equal(t, "4", form.Get("ScoreHole_0"))
	require.Equal(t, "5", form.Get("ScoreHole_17"))

	require.True(t, registry.loggedOut.Load())
}

func TestSubmitScoreWrongHoleCount(t *testing.T) {
	service := newTestService(t, &fakeRegistry{})

	req := validRequest()
	req.HoleScores = req.HoleScores[:9]
	result := service.SubmitScore(context.Background(), req)
	require.False(t, result.Success)
	require.Contains(t, result.ErrorMessage, "18")
}

func TestSubmitScoreLoginRejected(t *testing.T) {
	registry := &fakeRegistry{rejectLogin: true}
	service := newTestService(t, registry)

	result := service.SubmitScore(context.Background(), validRequest())
	require.False(t, result.Success)
	require.NotEmpty(t, result.ErrorMessage)
	// logout is only attempted once login succeeded
	require.False(t, registry.loggedOut.Load())
}

func TestSubmitScoreMissingSessionGuid(t *testing.T) {
	registry := &fakeRegistry{omitSelected: true}
	service := newTestService(t, registry)

	result := service.SubmitScore(context.Background(), validRequest())
	require.False(t, result.Success)
	require.Contains(t, result.ErrorMessage, "session identifier")
}

func TestSubmitScoreMarkerNotFound(t *testing.T) {
	registry := &fakeRegistry{noMarkerHits: true}
	service := newTestService(t, registry)

	result := service.SubmitScore(context.Background(), validRequest())
	require.False(t, result.Success)
	require.Contains(t, result.ErrorMessage, "Kim Olsen")
	require.True(t, registry.loggedOut.Load())
}

func TestSubmitScoreUnknownClub(t *testing.T) {
	service := newTestService(t, &fakeRegistry{})

	req := validRequest()
	req.ClubName = "Trondheim Golfklubb"
	result := service.SubmitScore(context.Background(), req)
	require.False(t, result.Success)
	// diagnostic enumeration of the clubs the account can submit for
	require.Contains(t, result.ErrorMessage, "Trondheim Golfklubb")
	require.Contains(t, result.ErrorMessage, "Grønmo Golfklubb")
}

func TestSubmitScoreUnknownCourse(t *testing.T) {
	service := newTestService(t, &fakeRegistry{})

	req := validRequest()
	req.CourseName = "Vinterbanen"
	result := service.SubmitScore(context.Background(), req)
	require.False(t, result.Success)
	require.Contains(t, result.ErrorMessage, "Vinterbanen")
	require.Contains(t, result.ErrorMessage, "Hovedbanen")
}

func TestSubmitScorePreResolvedGuids(t *testing.T) {
	registry := &fakeRegistry{}
	service := newTestService(t, registry)

	req := validRequest()
	req.ClubName = "this club does not exist and must not matter"
	req.ClubGuid = "{CLUB-GRONMO}"
	req.CourseGuid = "{COURSE-MAIN}"
	req.TeeGuid = "{TEE-56-M}"
	req.MarkerGuid = "{MARKER}"

	result := service.SubmitScore(context.Background(), req)
	require.True(t, result.Success, result.ErrorMessage)
	require.Equal(t, "{COURSE-MAIN}", registry.submittedForm.Get("fld_Course"))
}

func TestSubmitForeignScore(t *testing.T) {
	registry := &fakeRegistry{}
	service := newTestService(t, registry)

	result := service.SubmitForeignScore(context.Background(), SubmitForeignScoreRequest{
		Username:         "kim",
		Password:         "hunter2",
		Country:          "Spain",
		ManualCourseName: "La Cala Asia",
		ManualTeeName:    "Yellow",
		MarkerName:       "77-4183",
		ScoreDate:        "24.05.2025",
		ScoreTime:        "11:30",
		Par:              71,
		CourseRating:     69.8,
		Slope:            124,
		Holes: []golfbox.ForeignHole{
			{HoleNumber: 1, Par: 4, Hcp: 11, Strokes: 5},
		},
	})
	require.True(t, result.Success, result.ErrorMessage)

	form := registry.submittedForm
	require.Equal(t, "on", form.Get("chk_UnknownCourse"))
	require.Equal(t, "La Cala Asia", form.Get("fld_ManualCourseName"))
	require.Equal(t, "Spain", form.Get("fld_ManualCountryName"))
	require.Equal(t, "{MARKER}", form.Get("fld_MarkerMemberGUID"))
	require.Equal(t, "5", form.Get("Strokes-1"))
	require.True(t, registry.loggedOut.Load())
}

func TestSearchMarkersPassthrough(t *testing.T) {
	service := newTestService(t, &fakeRegistry{})

	results, err := service.SearchMarkers(context.Background(), "77-4183")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "{MARKER}", results[0].Guid)
}
