// internal/leads/search.go
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
	"github.com/devtavares97/baiane-lp/internal/growthscan"
)

// SearchQuery narrows an admin lead search. Empty fields are skipped.
type SearchQuery struct {
	Text        string `json:"text,omitempty"`      // matched against name and email
	Archetype   string `json:"archetype,omitempty"` // exact archetype title
	RevenueTier string `json:"revenueTier,omitempty"`
	MinScore    int    `json:"minScore,omitempty"`
	From        int    `json:"from,omitempty"`
	Size        int    `json:"size,omitempty"`
}

// SearchResult is one page of search hits.
type SearchResult struct {
	Leads     []map[string]interface{} `json:"leads"`
	TotalHits int64                    `json:"totalHits"`
	Took      int64                    `json:"took"`
}

// SearchIndex mirrors saved leads into Elasticsearch and serves the
// admin search endpoint. A nil client means search is disabled; indexing
// becomes a no-op and queries fail as unavailable.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearchIndex(client *elasticsearch.Client, index string, log logger.Logger) *SearchIndex {
	return &SearchIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "leads-search"}),
	}
}

// IndexLead pushes one saved lead into the mirror index. The document
// carries its own indexing timestamp; Postgres remains the source of
// truth.
func (s *SearchIndex) IndexLead(ctx context.Context, lead growthscan.Lead) error {
	if s.client == nil {
		return nil
	}

	doc := struct {
		growthscan.Lead
		IndexedAt time.Time `json:"indexed_at"`
	}{Lead: lead, IndexedAt: time.Now().UTC()}

	body, err := json.Marshal(doc)
	if err != nil {
		return stderrors.NewInternalError(err)
	}

	req := esapi.IndexRequest{
		Index: s.index,
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return stderrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return stderrors.NewSearchQueryFailedError(fmt.Errorf("index lead: %s", res.String()))
	}
	return nil
}

// Search runs an admin lead search against the mirror index.
func (s *SearchIndex) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	if s.client == nil {
		return nil, stderrors.NewSearchUnavailableError()
	}

	if query.Size < 1 {
		query.Size = 20
	}
	if query.Size > 100 {
		query.Size = 100
	}
	if query.From < 0 {
		query.From = 0
	}

	body, _ := json.Marshal(buildLeadQuery(query))

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		From:  &query.From,
		Size:  &query.Size,
	}

	start := time.Now()
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, stderrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, stderrors.NewSearchQueryFailedError(fmt.Errorf("lead search: %s", res.String()))
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, stderrors.NewSearchQueryFailedError(err)
	}

	return parseSearchResponse(r, time.Since(start))
}

// buildLeadQuery assembles a bool query: free text in must, structured
// filters in filter, newest leads first.
func buildLeadQuery(query SearchQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if query.Text != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query.Text,
				"fields": []string{"contact_name^2", "contact_email"},
				"type":   "best_fields",
			},
		})
	}
	if query.Archetype != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"result_archetype.keyword": query.Archetype},
		})
	}
	if query.RevenueTier != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"revenue_tier.keyword": query.RevenueTier},
		})
	}
	if query.MinScore > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"maturity_score": map[string]interface{}{"gte": query.MinScore},
			},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if len(boolQuery) == 0 {
		boolQuery["must"] = []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{"indexed_at": map[string]interface{}{"order": "desc"}},
		},
	}
}

func parseSearchResponse(r map[string]interface{}, took time.Duration) (*SearchResult, error) {
	hits, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, stderrors.NewSearchQueryFailedError(fmt.Errorf("malformed search response"))
	}

	var total float64
	if t, ok := hits["total"].(map[string]interface{}); ok {
		total, _ = t["value"].(float64)
	}

	leads := []map[string]interface{}{}
	if hitList, ok := hits["hits"].([]interface{}); ok {
		for _, hit := range hitList {
			if h, ok := hit.(map[string]interface{}); ok {
				if source, ok := h["_source"].(map[string]interface{}); ok {
					leads = append(leads, source)
				}
			}
		}
	}

	return &SearchResult{
		Leads:     leads,
		TotalHits: int64(total),
		Took:      took.Milliseconds(),
	}, nil
}
