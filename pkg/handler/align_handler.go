package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/handler/request"
	"github.com/yumyai/pangtable/pkg/index"
	"github.com/yumyai/pangtable/pkg/pipeline"
	"github.com/yumyai/pangtable/pkg/render"
	"github.com/yumyai/pangtable/pkg/synteny"
)

const alignRefreshSeconds = 3

type AlignSubmitResponse struct {
	JobID     string         `json:"job_id"`
	Status    AlignJobStatus `json:"status"`
	StatusURL string         `json:"status_url"`
}

type AlignJobResponse struct {
	JobID        string             `json:"job_id"`
	Mode         string             `json:"mode"`
	Status       AlignJobStatus     `json:"status"`
	Error        string             `json:"error,omitempty"`
	Partitions   []align.Projection `json:"partitions,omitempty"`
	Families     []align.Projection `json:"families,omitempty"`
	Annotations  []index.Annotation `json:"annotations,omitempty"`
	RelatedSpots []string           `json:"related_spots,omitempty"`
	// Layouts holds the related spots laid out for draw_related jobs.
	Layouts  []synteny.LayoutView `json:"layouts,omitempty"`
	Unmapped []string             `json:"unmapped,omitempty"`
}

// formText reads a form field, or the uploaded file of the same name.
func formText(r *http.Request, name string) (string, error) {
	if r.MultipartForm != nil {
		if file, _, err := r.FormFile(name); err == nil {
			defer file.Close()
			b, err := io.ReadAll(file)
			return string(b), err
		}
	}
	return r.FormValue(name), nil
}

func decodeAlignRequest(r *http.Request) (request.AlignRequest, error) {
	var req request.AlignRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return req, err
	}
	var err error
	if req.Queries, err = formText(r, "queries"); err != nil {
		return req, err
	}
	if req.Hits, err = formText(r, "hits"); err != nil {
		return req, err
	}
	req.Mode = r.FormValue("mode")
	req.Annotate = r.FormValue("annotate") != ""
	req.DrawRelated = r.FormValue("draw_related") != ""
	return req, nil
}

// AlignSubmitHandler queues a resolution run and answers with its job id.
func (app *AppContext) AlignSubmitHandler(w http.ResponseWriter, r *http.Request) {

	req, err := decodeAlignRequest(r)
	if err != nil {
		logger.Error("Invalid align request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mode, err := req.Validate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := app.Runner.Check(mode); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	job := app.AlignJobs.NewJob(mode.String())
	go app.runAlignJob(job.ID, req, mode)

	statusURL := "/align/" + job.ID
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", statusURL)
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(AlignSubmitResponse{JobID: job.ID, Status: job.Status, StatusURL: statusURL})
}

func (app *AppContext) runAlignJob(jobID string, req request.AlignRequest, mode align.Mode) {
	app.AlignJobs.SetRunning(jobID)

	opts := pipeline.Options{
		Mode:        mode,
		IDTag:       app.IDTag,
		Annotate:    req.Annotate,
		DrawRelated: req.DrawRelated,
		Workers:     app.Workers,
	}
	res, err := app.Runner.Run(context.Background(), strings.NewReader(req.Queries), strings.NewReader(req.Hits), nil, opts)
	if err != nil {
		logger.Warn("Align job failed", zap.String("job_id", jobID), zap.Error(err))
		app.AlignJobs.FailJob(jobID, err)
		return
	}
	logger.Info("Align job completed", zap.String("job_id", jobID), zap.Int("mapped", res.Map.Len()))
	app.AlignJobs.CompleteJob(jobID, res)
}

func jobResponse(job AlignJob) AlignJobResponse {
	resp := AlignJobResponse{
		JobID:  job.ID,
		Mode:   job.Mode,
		Status: job.Status,
		Error:  job.Error,
	}
	if res := job.Result; res != nil {
		resp.Partitions = res.Partitions
		resp.Families = res.Families
		resp.Annotations = res.Annotations
		resp.Unmapped = res.Unmapped()
		for _, s := range res.Related {
			resp.RelatedSpots = append(resp.RelatedSpots, s.Name())
		}
		for _, l := range res.Layouts {
			resp.Layouts = append(resp.Layouts, l.View())
		}
	}
	return resp
}

// AlignStatusHandler reports a job, as JSON with format=json and as a page otherwise.
func (app *AppContext) AlignStatusHandler(w http.ResponseWriter, r *http.Request) {

	jobID := r.PathValue("job_id")
	job, ok := app.AlignJobs.GetJob(jobID)
	if !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	resp := jobResponse(job)
	if request.ParseFormat(r.URL.Query().Get("format")) == request.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
		return
	}

	running := job.Status == AlignJobQueued || job.Status == AlignJobRunning
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderAlignPage(w, render.AlignPageData{
		JobID:                  resp.JobID,
		Mode:                   resp.Mode,
		Status:                 string(resp.Status),
		ErrorMessage:           resp.Error,
		Annotations:            resp.Annotations,
		Unmapped:               resp.Unmapped,
		LaidOut:                laidOut(resp.Layouts),
		ShouldRefresh:          running,
		RefreshIntervalSeconds: alignRefreshSeconds,
	}); err != nil {
		logger.Error("Render align page", zap.Error(err))
	}
}

func laidOut(views []synteny.LayoutView) []string {
	var spots []string
	for _, v := range views {
		spots = append(spots, v.Spot)
	}
	return spots
}
