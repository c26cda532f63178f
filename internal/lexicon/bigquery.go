package lexicon

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// BigQueryParams locates a word table with a "word_key" and a "scope" column.
type BigQueryParams struct {
	Project  string
	Table    string
	Scope    string
	Location string
	Params
}

func (p BigQueryParams) validate() error {
	switch {
	case p.Project == "":
		return errors.New("lexicon: bigquery project is required")
	case p.Table == "":
		return errors.New("lexicon: bigquery table is required")
	case p.Scope == "":
		return errors.New("lexicon: word scope is required")
	}
	return nil
}

// LoadBigQuery reads the words of one scope from BigQuery, filtered like Read.
func LoadBigQuery(ctx context.Context, p BigQueryParams) ([]string, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	client, err := bigquery.NewClient(ctx, p.Project)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	q := client.Query(fmt.Sprintf("SELECT word_key FROM `%s` WHERE scope = @scope", p.Table))
	q.Parameters = []bigquery.QueryParameter{{Name: "scope", Value: p.Scope}}
	if p.Location != "" {
		q.Location = p.Location
	}

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var words []string
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}
		word, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		words = append(words, word)
	}
	return asParams(p.Params).filter(words), nil
}
