package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/pangtable/internal/fixture"
	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/flank"
	"github.com/yumyai/pangtable/pkg/handler/request"
	"github.com/yumyai/pangtable/pkg/pipeline"
	"github.com/yumyai/pangtable/pkg/synteny"
)

const (
	testQueries = ">q1\nMKLV\n>q2\nMPPQ\n"
	testHits    = "pangtable_q1\tpangtable_S1\t98.0\n"
)

func newTestApp() *AppContext {
	p := fixture.Pangenome()
	return &AppContext{
		Pangenome: p,
		Runner:    pipeline.NewRunner(p, flank.Matcher{}, nil),
		AlignJobs: NewAlignJobManager(),
		IDTag:     align.DefaultIDTag,
		Workers:   2,
	}
}

func serve(app *AppContext, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	NewRouter(app).ServeHTTP(rr, req)
	return rr
}

func submit(t *testing.T, app *AppContext, body request.AlignRequest) AlignSubmitResponse {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/align", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	rr := serve(app, req)
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	var resp AlignSubmitResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "/align/"+resp.JobID, rr.Header().Get("Location"))
	return resp
}

func waitJob(t *testing.T, app *AppContext, id string) AlignJob {
	t.Helper()
	var job AlignJob
	require.Eventually(t, func() bool {
		var ok bool
		job, ok = app.AlignJobs.GetJob(id)
		return ok && (job.Status == AlignJobCompleted || job.Status == AlignJobFailed)
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestAlignJob_RoundTrip(t *testing.T) {
	app := newTestApp()
	sub := submit(t, app, request.AlignRequest{Queries: testQueries, Hits: testHits, Annotate: true})
	job := waitJob(t, app, sub.JobID)
	require.Equal(t, AlignJobCompleted, job.Status, job.Error)

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/align/"+sub.JobID+"?format=json", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp AlignJobResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "representative", resp.Mode)
	assert.Equal(t, []align.Projection{{Input: "q1", Value: "shell"}, {Input: "q2", Value: "cloud"}}, resp.Partitions)
	assert.Equal(t, []string{"q2"}, resp.Unmapped)
	assert.Equal(t, []string{"spot_1"}, resp.RelatedSpots)

	page := serve(app, httptest.NewRequest(http.MethodGet, "/align/"+sub.JobID, nil))
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Pangenome alignment")
}

func TestAlignJob_DrawRelatedReportsLayouts(t *testing.T) {
	app := newTestApp()
	sub := submit(t, app, request.AlignRequest{Queries: testQueries, Hits: testHits, DrawRelated: true})
	job := waitJob(t, app, sub.JobID)
	require.Equal(t, AlignJobCompleted, job.Status, job.Error)

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/align/"+sub.JobID+"?format=json", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp AlignJobResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Layouts, 1)
	assert.Equal(t, "spot_1", resp.Layouts[0].Spot)
	assert.NotEmpty(t, resp.Layouts[0].Regions)

	page := serve(app, httptest.NewRequest(http.MethodGet, "/align/"+sub.JobID, nil))
	assert.Contains(t, page.Body.String(), "Related spots laid out")
}

func TestAlignJob_FormSubmission(t *testing.T) {
	app := newTestApp()
	form := url.Values{}
	form.Set("queries", testQueries)
	form.Set("hits", testHits)
	form.Set("mode", "representative")
	req := httptest.NewRequest(http.MethodPost, "/align", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := serve(app, req)
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	var resp AlignSubmitResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, AlignJobCompleted, waitJob(t, app, resp.JobID).Status)
}

func TestAlignJob_Failure(t *testing.T) {
	app := newTestApp()
	sub := submit(t, app, request.AlignRequest{Queries: testQueries, Hits: "pangtable_q1\tpangtable_NOPE\n"})
	job := waitJob(t, app, sub.JobID)
	assert.Equal(t, AlignJobFailed, job.Status)
	assert.Contains(t, job.Error, "NOPE")
}

func TestAlignSubmit_BadRequests(t *testing.T) {
	app := newTestApp()
	cases := map[string]string{
		"not json":     "{",
		"no queries":   `{"hits": "a\tb"}`,
		"no hits":      `{"queries": ">q\nM\n"}`,
		"unknown mode": `{"queries": ">q\nM\n", "hits": "a\tb", "mode": "fast"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/align", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			assert.Equal(t, http.StatusBadRequest, serve(app, req).Code)
		})
	}
}

func TestAlignStatus_UnknownJob(t *testing.T) {
	rr := serve(newTestApp(), httptest.NewRequest(http.MethodGet, "/align/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSpotHandler_JSON(t *testing.T) {
	rr := serve(newTestApp(), httptest.NewRequest(http.MethodGet, "/spot/spot_1?format=json", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var view synteny.LayoutView
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
	assert.Equal(t, "spot_1", view.Spot)
	require.Len(t, view.Regions, 2)
	assert.Equal(t, "RGP_C", view.Regions[0].RGP)
	assert.True(t, view.Regions[0].Reversed)
	assert.Equal(t, 2, view.Regions[1].Occurrences)
}

func TestSpotHandler_Formats(t *testing.T) {
	app := newTestApp()

	page := serve(app, httptest.NewRequest(http.MethodGet, "/spot/1", nil))
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Header().Get("Content-Type"), "text/html")

	tsv := serve(app, httptest.NewRequest(http.MethodGet, "/spot/2?format=tsv", nil))
	assert.Equal(t, http.StatusOK, tsv.Code)
	assert.Contains(t, tsv.Body.String(), "\tRGP_D\torgD\t")
}

func TestSpotHandler_Errors(t *testing.T) {
	app := newTestApp()
	assert.Equal(t, http.StatusNotFound, serve(app, httptest.NewRequest(http.MethodGet, "/spot/spot_99", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(app, httptest.NewRequest(http.MethodGet, "/spot/abc", nil)).Code)
}

func TestSpotIdenticalHandler(t *testing.T) {
	rr := serve(newTestApp(), httptest.NewRequest(http.MethodGet, "/spot/spot_1/identical", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t,
		"representative_rgp\trepresentative_rgp_organism\tidentical_rgp\tidentical_rgp_organism\n"+
			"RGP_A\torgA\tRGP_A\torgA\n"+
			"RGP_A\torgA\tRGP_B\torgB\n"+
			"RGP_C\torgC\tRGP_C\torgC\n",
		rr.Body.String())
}

func TestGetTargetsHandler(t *testing.T) {
	app := newTestApp()
	rr := serve(app, httptest.NewRequest(http.MethodGet, "/sequence/targets", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), ">pangtable_P1")

	bad := serve(app, httptest.NewRequest(http.MethodGet, "/sequence/targets?mode=fast", nil))
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestGetFamilySequenceHandler(t *testing.T) {
	app := newTestApp()

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/sequence/by-family?family_id=C1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), ">C1")
	assert.Contains(t, rr.Body.String(), "MC1")
	assert.NotContains(t, rr.Body.String(), "orgA_4")

	genes := serve(app, httptest.NewRequest(http.MethodGet, "/sequence/by-family?family_id=C1&genes=true", nil))
	require.Equal(t, http.StatusOK, genes.Code)
	assert.Contains(t, genes.Body.String(), ">orgA_4")
	assert.Contains(t, genes.Body.String(), ">orgB_4")

	missing := serve(app, httptest.NewRequest(http.MethodGet, "/sequence/by-family?family_id=ZZ", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestHealthCheck(t *testing.T) {
	rr := serve(newTestApp(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Health)
	assert.Equal(t, 15, resp.Families)
	assert.Equal(t, 2, resp.Spots)
}
