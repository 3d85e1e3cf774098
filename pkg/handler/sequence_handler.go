package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/db"
	"github.com/yumyai/pangtable/pkg/model"
)

type SequenceResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func sequenceError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(SequenceResponse{Status: "error", Error: err.Error()})
}

func writeFASTA(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/x-fasta; charset=utf-8")
	w.Write(buf.Bytes())
}

// GetTargetsHandler serves the FASTA an aligner database is built from, with
// tagged ids so the hits can be posted back to /align.
func (app *AppContext) GetTargetsHandler(w http.ResponseWriter, r *http.Request) {

	mode, err := align.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		sequenceError(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	if _, err := db.WriteTargets(&buf, app.Pangenome, mode, app.IDTag); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, model.ErrNoFamilySequences) || errors.Is(err, model.ErrNoGeneSequences) {
			code = http.StatusConflict
		}
		sequenceError(w, code, err)
		return
	}
	writeFASTA(w, &buf)
}

// GetFamilySequenceHandler serves a family representative, or its member
// genes with genes=true.
func (app *AppContext) GetFamilySequenceHandler(w http.ResponseWriter, r *http.Request) {

	family_id := r.URL.Query().Get("family_id")
	genes := false
	if v := r.URL.Query().Get("genes"); v != "" {
		var err error
		if genes, err = strconv.ParseBool(v); err != nil {
			sequenceError(w, http.StatusBadRequest, errors.New("genes need to be bool-like string"))
			return
		}
	}

	family, err := app.Pangenome.FamilyByID(family_id)
	if err != nil {
		sequenceError(w, http.StatusNotFound, err)
		return
	}

	targets := db.FamilyTargets(family, genes)
	if len(targets) == 0 || targets[0].Sequence == "" {
		sequenceError(w, http.StatusNotFound, model.ErrNoFamilySequences)
		return
	}

	var buf bytes.Buffer
	if err := db.WriteFASTA(&buf, targets, "", genes); err != nil {
		sequenceError(w, http.StatusInternalServerError, err)
		return
	}
	writeFASTA(w, &buf)
}
