// Package extractors implements the source adapters. Each adapter exposes the
// same contract: Extract(ctx) returns one in-memory table per entity, or a
// tagged SourceError that the run controller isolates to that source.
package extractors

import (
	"context"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/config"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

// Source is one extractable source: a name for reporting and its adapter.
type Source struct {
	Name    string
	Extract func(ctx context.Context) ([]models.Table, error)
}

// Extractor owns the four source adapters and presents them to the run
// controller in a fixed order. Adapters are stateless across calls and share
// nothing, so a failure in one never taints another.
type Extractor struct {
	oltp1  *OLTPExtractor
	oltp2  *OLTPExtractor
	api    *APIExtractor
	csv    *CSVExtractor
	logger *utils.Logger
}

// NewExtractor wires the adapters from the run configuration.
func NewExtractor(cfg *config.Config, conns *config.DBConnections, logger *utils.Logger) *Extractor {
	return &Extractor{
		oltp1:  NewOLTPExtractor(conns.OLTP1, schema.SourceOLTP1, logger),
		oltp2:  NewOLTPExtractor(conns.OLTP2, schema.SourceOLTP2, logger),
		api:    NewAPIExtractor(cfg.APIURL, cfg.APIKey, cfg.APILimit, cfg.SourceTimeout, logger),
		csv:    NewCSVExtractor(cfg.CSVPath, logger),
		logger: logger,
	}
}

// Sources returns the adapters in extraction order.
func (e *Extractor) Sources() []Source {
	return []Source{
		{Name: schema.SourceOLTP1, Extract: e.oltp1.Extract},
		{Name: schema.SourceOLTP2, Extract: e.oltp2.Extract},
		{Name: schema.SourceAPI, Extract: e.api.Extract},
		{Name: schema.SourceCSV, Extract: e.csv.Extract},
	}
}
