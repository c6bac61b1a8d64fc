package extractors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

// APIExtractor pulls flight records from the aviation data provider. A non-2xx
// response or a malformed payload is reported as a source failure, never as a
// process-ending error.
type APIExtractor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limit   int
	entity  schema.Entity
	logger  *utils.Logger
}

// apiResponse is the envelope the provider wraps flight records in.
type apiResponse struct {
	Data []map[string]interface{} `json:"data"`
}

// NewAPIExtractor creates an extractor for the flights HTTP source.
func NewAPIExtractor(baseURL, apiKey string, limit int, timeout time.Duration, logger *utils.Logger) *APIExtractor {
	entities := schema.BySource(schema.SourceAPI)
	return &APIExtractor{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		limit:   limit,
		entity:  entities[0],
		logger:  logger,
	}
}

// Extract issues the GET request and parses the response body into a flat
// table of flight records.
func (e *APIExtractor) Extract(ctx context.Context) ([]models.Table, error) {
	params := url.Values{}
	params.Set("access_key", e.apiKey)
	params.Set("limit", strconv.Itoa(e.limit))
	requestURL := e.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, unavailable("building API request: %v", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, unavailable("calling flights API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, unavailable("flights API returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, mismatch("decoding flights API payload: %v", err)
	}

	table := flattenRecords(e.entity.Name, payload.Data)
	e.logger.Debug("Extracted %d flight records from API", len(table.Rows))

	return []models.Table{table}, nil
}

// flattenRecords normalizes nested JSON objects into a flat table with
// dot-joined column names, e.g. {"flight": {"iata": "PK301"}} becomes the
// column "flight.iata". Arrays are not expanded.
func flattenRecords(entity string, records []map[string]interface{}) models.Table {
	columnSet := map[string]bool{}
	flatRows := make([]models.Row, 0, len(records))

	for _, rec := range records {
		row := models.Row{}
		flattenInto("", rec, row)
		for col := range row {
			columnSet[col] = true
		}
		flatRows = append(flatRows, row)
	}

	columns := make([]string, 0, len(columnSet))
	for col := range columnSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	table := models.NewTable(entity, columns)
	table.Rows = flatRows
	return table
}

func flattenInto(prefix string, in map[string]interface{}, out models.Row) {
	for key, value := range in {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]interface{}:
			flattenInto(name, v, out)
		case []interface{}:
			// Lists carry no flight attributes in this feed.
		case nil:
			out[name] = nil
		case string, float64, bool:
			out[name] = v
		default:
			out[name] = fmt.Sprintf("%v", v)
		}
	}
}
