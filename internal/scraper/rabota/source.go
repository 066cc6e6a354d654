package rabota

import (
	"context"
	"fmt"

	"go-vacancy-collector/internal/config"
	"go-vacancy-collector/internal/scraper"
	"go-vacancy-collector/pkg/logging"
)

const SourceName = "rabota"

// Fetcher retrieves one Batch with an already issued token.
type Fetcher struct {
	client *Client
	token  string
	batch  bool
}

func (f *Fetcher) Fetch(ctx context.Context, ids Batch) ([]byte, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("rabota: empty batch")
	}
	if f.batch {
		return f.client.Vacancies(ctx, f.token, ids)
	}
	return f.client.Vacancy(ctx, f.token, ids[0])
}

// Source authenticates once and then walks the configured ID range.
type Source struct {
	client   *Client
	cfg      config.RabotaConfig
	sentinel string
	retry    scraper.RetryPolicy
	logger   *logging.Logger
}

func NewSource(client *Client, cfg config.RabotaConfig, sentinel string, retry scraper.RetryPolicy, logger *logging.Logger) *Source {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Source{client: client, cfg: cfg, sentinel: sentinel, retry: retry, logger: logger}
}

func (s *Source) Name() string {
	return SourceName
}

// Pipeline builds the fetch loop for an issued token.
func (s *Source) Pipeline(token string) *scraper.Pipeline[Batch, []byte] {
	fetcher := &Fetcher{client: s.client, token: token, batch: s.cfg.BatchSize > 1}
	return &scraper.Pipeline[Batch, []byte]{
		Name:                   SourceName,
		Units:                  NewIDRange(s.cfg.IDFrom, s.cfg.IDTo, s.cfg.BatchSize),
		Fetcher:                scraper.WithRetry[Batch, []byte](fetcher, s.retry),
		Extractor:              NewExtractor(s.sentinel),
		MaxConsecutiveFailures: s.cfg.MaxConsecutiveFailures,
		Logger:                 s.logger,
	}
}

// Run obtains a token and runs the loop. Without a token nothing is
// fetched and an empty ResultSet is returned with the error.
func (s *Source) Run(ctx context.Context) (*scraper.ResultSet, scraper.Stats, error) {
	s.logger.Info("requesting access token")
	token, err := s.client.Token(ctx)
	if err != nil {
		return scraper.NewResultSet(SourceName), scraper.Stats{}, err
	}
	s.logger.Info("token received", "from", s.cfg.IDFrom, "to", s.cfg.IDTo, "batch_size", s.cfg.BatchSize)
	return s.Pipeline(token).Run(ctx)
}
