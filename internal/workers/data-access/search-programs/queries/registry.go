// internal/workers/data-access/search-programs/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

type QueryResult struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

func Execute(ctx context.Context, esClient *elasticsearch.Client, input map[string]interface{}) (*QueryResult, error) {
	pq := ProgramQuery{
		QueryType:  "program_search",
		Filters:    map[string]interface{}{},
		Pagination: struct{ From, Size int }{0, 20},
	}

	if index, ok := input["indexName"].(string); ok {
		pq.Index = index
	}
	if queryType, ok := input["queryType"].(string); ok && queryType != "" {
		pq.QueryType = queryType
	}
	if filters, ok := input["filters"].(map[string]interface{}); ok {
		pq.Filters = filters
	}
	if programID, ok := input["programId"].(string); ok {
		pq.ProgramID = programID
	}
	if category, ok := input["category"].(string); ok {
		pq.Category = category
	}
	if pagination, ok := input["pagination"].(map[string]interface{}); ok {
		if from, exists := pagination["from"].(float64); exists {
			pq.Pagination.From = int(from)
		}
		if size, exists := pagination["size"].(float64); exists {
			pq.Pagination.Size = int(size)
			if pq.Pagination.Size > 100 {
				pq.Pagination.Size = 100
			}
			if pq.Pagination.Size < 1 {
				pq.Pagination.Size = 20
			}
		}
	}

	req, err := BuildQuery(esClient, pq)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	hits, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("malformed search response")
	}
	total := 0.0
	if t, ok := hits["total"].(map[string]interface{}); ok {
		if v, ok := t["value"].(float64); ok {
			total = v
		}
	}
	maxScore := 0.0
	if ms, ok := hits["max_score"].(float64); ok {
		maxScore = ms
	}

	var data []map[string]interface{}
	if rawHits, ok := hits["hits"].([]interface{}); ok {
		for _, hit := range rawHits {
			if h, ok := hit.(map[string]interface{}); ok {
				if source, ok := h["_source"].(map[string]interface{}); ok {
					data = append(data, source)
				}
			}
		}
	}

	return &QueryResult{
		Data:      data,
		TotalHits: int64(total),
		MaxScore:  maxScore,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}
