package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"golfkollektivet-backend/lib/scrapers/golfbox"
	"golfkollektivet-backend/services/catalog"
	"golfkollektivet-backend/services/scorecard"
	"golfkollektivet-backend/services/scores"
)

// 10MB is plenty for a phone photo of a scorecard
const maxScorecardUpload = 10 << 20

type Handlers struct {
	Scores    scores.Service
	Scorecard *scorecard.Client
	Catalog   *catalog.Store
	BaseUrl   string
}

func RegisterHandlers(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("POST /api/golfbox/submit-score", h.submitScore)
	mux.HandleFunc("POST /api/golfbox/submit-foreign-score", h.submitForeignScore)
	mux.HandleFunc("GET /api/golfbox/search-marker", h.searchMarker)
	mux.HandleFunc("POST /api/golfbox/resolve-course-tee", h.resolveCourseTee)
	mux.HandleFunc("GET /api/golfbox/courses-and-tees", h.coursesAndTees)
	mux.HandleFunc("GET /api/golfbox/download-cache", h.downloadCache)
	mux.HandleFunc("POST /api/golfbox/fetch-all-club-data", h.fetchAllClubData)
	mux.HandleFunc("POST /api/golfbox/parse-scorecard", h.parseScorecard)
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func readJson(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h Handlers) submitScore(w http.ResponseWriter, r *http.Request) {
	var req scores.SubmitScoreRequest
	if !readJson(w, r, &req) {
		return
	}
	result := h.Scores.SubmitScore(r.Context(), req)
	if !result.Success {
		http.Error(w, result.ErrorMessage, http.StatusInternalServerError)
		return
	}
	writeJson(w, http.StatusOK, result)
}

func (h Handlers) submitForeignScore(w http.ResponseWriter, r *http.Request) {
	var req scores.SubmitForeignScoreRequest
	if !readJson(w, r, &req) {
		return
	}
	result := h.Scores.SubmitForeignScore(r.Context(), req)
	if !result.Success {
		http.Error(w, result.ErrorMessage, http.StatusInternalServerError)
		return
	}
	writeJson(w, http.StatusOK, result)
}

func (h Handlers) searchMarker(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing 'name' query parameter", http.StatusBadRequest)
		return
	}
	results, err := h.Scores.SearchMarkers(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJson(w, http.StatusOK, results)
}

func (h Handlers) resolveCourseTee(w http.ResponseWriter, r *http.Request) {
	var req golfbox.ResolveCourseTeeRequest
	if !readJson(w, r, &req) {
		return
	}
	result := h.Scores.ResolveCourseAndTee(r.Context(), req)
	if !result.Success {
		http.Error(w, result.ErrorMessage, http.StatusBadRequest)
		return
	}
	writeJson(w, http.StatusOK, result)
}

func (h Handlers) coursesAndTees(w http.ResponseWriter, r *http.Request) {
	clubGuid := r.URL.Query().Get("clubGuid")
	if clubGuid == "" {
		http.Error(w, "missing 'clubGuid' query parameter", http.StatusBadRequest)
		return
	}
	courses, err := h.Scores.CoursesAndTees(r.Context(), clubGuid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJson(w, http.StatusOK, courses)
}

func (h Handlers) downloadCache(w http.ResponseWriter, r *http.Request) {
	data, err := h.Catalog.ExportJson()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="golfbox-cache.json"`)
	w.Write(data)
}

func (h Handlers) fetchAllClubData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Clubs []catalog.ClubInput `json:"clubs"`
	}
	if !readJson(w, r, &req) {
		return
	}
	if len(req.Clubs) == 0 {
		http.Error(w, "no clubs supplied", http.StatusBadRequest)
		return
	}

	fetcher, err := golfbox.NewClient(r.Context(), golfbox.ClientOptions{BaseUrl: h.BaseUrl})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	clubs := h.Catalog.Refresh(r.Context(), fetcher, req.Clubs)
	writeJson(w, http.StatusOK, clubs)
}

type parseScorecardResponse struct {
	Scorecard    *scorecard.ParsedScorecard `json:"scorecard"`
	CatalogMatch *scorecard.CatalogMatch    `json:"catalogMatch,omitempty"`
}

func (h Handlers) parseScorecard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxScorecardUpload); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing 'image' file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	parsed, err := h.Scorecard.ParseScorecard(r.Context(), image, contentType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := parseScorecardResponse{Scorecard: parsed}
	teeGender := r.FormValue("teeGender")
	if teeGender == "" {
		teeGender = "Male"
	}
	if match, ok := scorecard.AutofillFromCatalog(h.Catalog, parsed, teeGender); ok {
		response.CatalogMatch = &match
	}

	writeJson(w, http.StatusOK, response)
}
