package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/handler/request"
	"github.com/yumyai/pangtable/pkg/model"
	"github.com/yumyai/pangtable/pkg/render"
	"github.com/yumyai/pangtable/pkg/synteny"
)

func (app *AppContext) spotFromPath(w http.ResponseWriter, r *http.Request) (*model.Spot, bool) {
	id, err := synteny.ParseSpotID(r.PathValue("spot_id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	spot, err := app.Pangenome.SpotByID(id)
	if errors.Is(err, model.ErrSpotNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return spot, true
}

// SpotHandler lays out one spot, as a page, JSON or TSV depending on format.
func (app *AppContext) SpotHandler(w http.ResponseWriter, r *http.Request) {

	spot, ok := app.spotFromPath(w, r)
	if !ok {
		return
	}
	req := request.SpotGetRequest{
		SpotID: spot.ID,
		Format: request.ParseFormat(r.URL.Query().Get("format")),
	}

	logger.Debug("Laying out", zap.String("spot", spot.Name()), zap.String("format", req.Format.String()))
	layout := app.Runner.Engine().Layout(spot)

	var err error
	switch req.Format {
	case request.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(layout.View())
	case request.FormatTSV:
		w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
		err = render.WriteLayout(w, layout)
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = render.RenderSpotPage(w, layout.View())
	}
	if err != nil {
		logger.Error("Write spot layout", zap.String("spot", spot.Name()), zap.Error(err))
	}
}

// SpotIdenticalHandler returns the identical-RGP table of a spot.
func (app *AppContext) SpotIdenticalHandler(w http.ResponseWriter, r *http.Request) {

	spot, ok := app.spotFromPath(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	if err := render.WriteIdentical(w, synteny.Identical(spot)); err != nil {
		logger.Error("Write identical RGPs", zap.String("spot", spot.Name()), zap.Error(err))
	}
}
