// internal/workers/data-access/search-programs/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ProgramQuery defines the structure of a program search request
type ProgramQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	ProgramID  string
	Category   string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, pq ProgramQuery) (*esapi.SearchRequest, error) {
	if pq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch pq.QueryType {
	case "program_search":
		queryBody = buildProgramSearchQuery(pq)
	case "related_programs":
		queryBody = buildRelatedProgramsQuery(pq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, pq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{pq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &pq.Pagination.From,
		Size:   &pq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildProgramSearchQuery builds the main program search query dynamically
func buildProgramSearchQuery(pq ProgramQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search
	if keywords, ok := pq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"name^3", "description^2", "category"},
				"type":   "best_fields",
			},
		})
	}

	// Category filter
	if category, ok := pq.Filters["category"].(string); ok && category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	} else if pq.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": pq.Category},
		})
	}

	// Country filter
	if countries, ok := pq.Filters["countryIds"].([]interface{}); ok && len(countries) > 0 {
		terms := make([]string, 0, len(countries))
		for _, c := range countries {
			if s, ok := c.(string); ok {
				terms = append(terms, s)
			}
		}
		if len(terms) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"terms": map[string]interface{}{"country_id": terms},
			})
		}
	}

	// Points-based filter
	if pointsBased, ok := pq.Filters["pointsBased"].(bool); ok {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"points_based": pointsBased},
		})
	}

	// Processing time cap, in months against the program's average
	if maxMonths := numericFilter(pq.Filters["maxProcessingTime"]); maxMonths > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"processing_time_months": map[string]interface{}{"lte": maxMonths},
			},
		})
	}

	// Cost range filter
	if costRange, ok := pq.Filters["costRange"].(map[string]interface{}); ok {
		minVal := numericFilter(costRange["min"])
		maxVal := numericFilter(costRange["max"])

		switch {
		case maxVal > 0 && minVal > 0 && minVal <= maxVal:
			filterClauses = append(filterClauses, map[string]interface{}{
				"bool": map[string]interface{}{
					"must": []interface{}{
						map[string]interface{}{
							"range": map[string]interface{}{
								"cost_min": map[string]interface{}{"gte": minVal},
							},
						},
						map[string]interface{}{
							"range": map[string]interface{}{
								"cost_max": map[string]interface{}{"lte": maxVal},
							},
						},
					},
				},
			})
		case maxVal > 0:
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{
					"cost_min": map[string]interface{}{"lte": maxVal},
				},
			})
		case minVal > 0:
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{
					"cost_max": map[string]interface{}{"gte": minVal},
				},
			})
		}
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := pq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "processing_time":
			query["sort"] = []map[string]interface{}{{"processing_time_months": "asc"}}
		case "cost":
			query["sort"] = []map[string]interface{}{{"cost_min": "asc"}}
		case "name":
			query["sort"] = []map[string]interface{}{{"name": "asc"}}
		}
	}

	return query
}

// buildRelatedProgramsQuery builds a "similar programs" query
func buildRelatedProgramsQuery(pq ProgramQuery) map[string]interface{} {
	if pq.ProgramID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"name", "description", "category"},
				"like": []map[string]interface{}{
					{"_index": pq.Index, "_id": pq.ProgramID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}

func numericFilter(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
