package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crosswarped.com/blocks/internal/config"
	"crosswarped.com/blocks/internal/lexicon"
	"crosswarped.com/blocks/internal/runner"
)

const (
	maxBudget   = 200_000
	maxCapacity = 50
)

type SearchRequest struct {
	Strategy      string   `json:"strategy"`
	Objective     string   `json:"objective"`
	Cubes         int      `json:"cubes"`
	Iterations    int      `json:"iterations"`
	Capacity      int      `json:"capacity"`
	Seed          uint64   `json:"seed"`
	WordScope     string   `json:"wordScope"`
	Words         []string `json:"words"`
	ExcludedWords []string `json:"excludedWords"`
}

type SearchRecord struct {
	Score       int    `json:"score"`
	Arrangement string `json:"arrangement"`
	Tag         string `json:"tag"`
}

type SearchResponse struct {
	Success  bool                      `json:"success"`
	Records  map[string][]SearchRecord `json:"records,omitempty"`
	Explored int                       `json:"explored"`
	Error    string                    `json:"error,omitempty"`
}

// loadBigQuery is replaced in tests.
var loadBigQuery = lexicon.LoadBigQuery

func execute(ctx context.Context, cfg config.Config, req SearchRequest) (runner.Summary, error) {
	if req.Strategy != "" {
		cfg.Strategy = req.Strategy
	}
	if req.Objective != "" {
		cfg.Objective = req.Objective
	}
	if req.Cubes != 0 {
		cfg.Cubes = req.Cubes
	}
	if req.Iterations != 0 {
		cfg.Budget = req.Iterations
	}
	if req.Capacity != 0 {
		cfg.Capacity = req.Capacity
		cfg.RecordCapacity = req.Capacity
	}
	cfg.Seed = req.Seed
	cfg.Workers = 1
	cfg.Root = "base"

	if cfg.Budget > maxBudget {
		return runner.Summary{}, fmt.Errorf("iterations must be at most %d", maxBudget)
	}
	if cfg.Capacity > maxCapacity {
		return runner.Summary{}, fmt.Errorf("capacity must be at most %d", maxCapacity)
	}
	if err := cfg.Validate(); err != nil {
		return runner.Summary{}, err
	}

	p := lexicon.Params{ExcludedWords: req.ExcludedWords}
	words := lexicon.Filter(req.Words, p)
	if req.WordScope != "" {
		scoped, err := loadBigQuery(ctx, lexicon.BigQueryParams{
			Project:  cfg.BigQueryProject,
			Table:    cfg.BigQueryTable,
			Scope:    req.WordScope,
			Location: cfg.BigQueryLocation,
			Params:   p,
		})
		if err != nil {
			return runner.Summary{}, fmt.Errorf("load words: %w", err)
		}
		log.Info().Int("words", len(scoped)).Str("scope", req.WordScope).Msg("words-loaded")
		words = lexicon.Filter(append(words, scoped...), p)
	}

	judge, inv, err := runner.Prepare(words, cfg.Cubes)
	if err != nil {
		return runner.Summary{}, err
	}
	params, err := cfg.Params(nil)
	if err != nil {
		return runner.Summary{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout(ctx))
	defer cancel()

	return runner.Run(ctx, runner.Params{
		Judge:          judge,
		Inventory:      inv,
		Logger:         log.Logger,
		Workers:        1,
		Seed:           cfg.Seed,
		RecordCapacity: cfg.RecordCapacity,
	}, runner.Strategies(cfg.Strategy, params, 0))
}

// searchTimeout leaves room before ctx's deadline to write the response,
// never less than half of the time remaining.
func searchTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return time.Minute
	}
	left := time.Until(deadline)
	timeout := max(left/2, left-5*time.Second)
	log.Debug().Dur("timeout", timeout).Msg("deadline")
	return timeout
}

func toResponse(sum runner.Summary) SearchResponse {
	resp := SearchResponse{Success: true, Explored: sum.Explored, Records: map[string][]SearchRecord{}}
	for o, recs := range sum.Records {
		out := make([]SearchRecord, len(recs))
		for i, r := range recs {
			out[i] = SearchRecord{Score: r.Primary, Arrangement: r.Arrangement, Tag: r.Tag}
		}
		resp.Records[o.String()] = out
	}
	return resp
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, resp SearchResponse) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("encode-response")
	}
}

func searchHandler(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// CORS preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, SearchResponse{Error: fmt.Sprintf("Method %s not allowed", r.Method)})
			return
		}

		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn().Err(err).Msg("parse-request")
			writeJSON(w, http.StatusBadRequest, SearchResponse{Error: fmt.Sprintf("Invalid JSON: %v", err)})
			return
		}

		sum, err := execute(r.Context(), cfg, req)
		switch {
		case errors.Is(err, context.DeadlineExceeded) && len(sum.Records) > 0:
			// Out of time; report what was found.
			writeJSON(w, http.StatusOK, toResponse(sum))
		case err != nil:
			writeJSON(w, http.StatusBadRequest, SearchResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusOK, toResponse(sum))
		}
	}
}

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load-config")
	}
	funcframework.RegisterHTTPFunction("/search", searchHandler(cfg))

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatal().Err(err).Msg("start-host-port")
	}
}
