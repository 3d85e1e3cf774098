package handler

// DI for all handlers alike.

import (
	"github.com/yumyai/pangtable/pkg/model"
	"github.com/yumyai/pangtable/pkg/pipeline"
)

type AppContext struct {
	Pangenome *model.Pangenome
	Runner    *pipeline.Runner
	AlignJobs *AlignJobManager
	IDTag     string
	Workers   int
}
