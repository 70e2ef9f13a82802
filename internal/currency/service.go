package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// fallbackRates covers the common invoice currencies when the rate API is
// unreachable. EUR-denominated: units of currency per one EUR.
var fallbackRates = map[string]float64{
	"USD": 1.08,
	"GBP": 0.86,
	"CHF": 0.93,
	"JPY": 161.50,
	"CAD": 1.47,
	"AUD": 1.65,
}

// rateResponseSchema validates the exchange-rate API body before the table
// is replaced with it.
const rateResponseSchema = `{
  "type": "object",
  "required": ["rates"],
  "properties": {
    "rates": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {"type": "number", "exclusiveMinimum": 0}
    }
  }
}`

// OverrideStore persists manual per-currency rates across restarts.
type OverrideStore interface {
	ManualRates() (map[string]float64, error)
	SetManualRate(code string, rate float64) error
	DeleteManualRate(code string) error
}

// Config holds rate-fetch behavior.
type Config struct {
	APIURL       string        // default exchangerate-api EUR endpoint
	MaxAge       time.Duration // staleness threshold, default 1h
	FetchTimeout time.Duration // default 10s
}

// Service converts amounts to the reference currency. The rate table is
// refreshed lazily, guarded by a mutex so concurrent conversions trigger a
// single fetch. Manual overrides always win over fetched rates and never
// expire.
type Service struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
	schema *jsonschema.Schema
	store  OverrideStore

	mu         sync.Mutex
	rates      map[string]float64
	manual     map[string]float64
	lastUpdate time.Time
}

func NewService(cfg Config, store OverrideStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.exchangerate-api.com/v4/latest/EUR"
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = time.Hour
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	schema := jsonschema.MustCompileString("rates.json", rateResponseSchema)

	s := &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.FetchTimeout},
		logger: logger,
		schema: schema,
		store:  store,
		manual: map[string]float64{},
	}
	if store != nil {
		saved, err := store.ManualRates()
		if err != nil {
			logger.Warn("currency.manual_rates.load_failed", "error", err)
		} else {
			s.manual = saved
		}
	}
	return s
}

// SetManualRate registers a user-supplied rate for code that bypasses any
// network lookup until cleared or replaced.
func (s *Service) SetManualRate(code string, rate float64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || rate <= 0 {
		return fmt.Errorf("invalid manual rate %q=%v", code, rate)
	}
	s.mu.Lock()
	s.manual[code] = rate
	s.mu.Unlock()
	if s.store != nil {
		return s.store.SetManualRate(code, rate)
	}
	return nil
}

// ClearManualRate removes the override for code, if any.
func (s *Service) ClearManualRate(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	s.mu.Lock()
	delete(s.manual, code)
	s.mu.Unlock()
	if s.store != nil {
		return s.store.DeleteManualRate(code)
	}
	return nil
}

// ManualRates returns a copy of the current overrides.
func (s *Service) ManualRates() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.manual))
	for k, v := range s.manual {
		out[k] = v
	}
	return out
}

// ConvertToEUR converts amount from the given currency to EUR. Identity for
// the reference currency (by code or symbol). Unknown currencies are
// returned unchanged with a warning: never an error. Rate-fetch failures
// degrade to the fallback table.
func (s *Service) ConvertToEUR(ctx context.Context, amount float64, fromCurrency string) float64 {
	if fromCurrency == ReferenceCurrency || fromCurrency == "€" {
		return amount
	}
	code := strings.ToUpper(strings.TrimSpace(fromCurrency))
	if code == ReferenceCurrency {
		return amount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rate, ok := s.manual[code]; ok {
		return amount / rate
	}

	if s.rates == nil || time.Since(s.lastUpdate) > s.cfg.MaxAge {
		s.refreshLocked(ctx)
	}

	rate, ok := s.rates[code]
	if !ok {
		s.logger.Warn("currency.rate_missing", "currency", code)
		return amount
	}
	// Rates are EUR-denominated; dividing converts target -> EUR.
	return amount / rate
}

// refreshLocked fetches the rate table, falling back to the static set on
// any failure. Caller holds s.mu.
func (s *Service) refreshLocked(ctx context.Context) {
	rates, err := s.fetch(ctx)
	if err != nil {
		s.logger.Error("currency.refresh_failed", "error", err)
		s.rates = make(map[string]float64, len(fallbackRates))
		for k, v := range fallbackRates {
			s.rates[k] = v
		}
		s.lastUpdate = time.Now()
		return
	}
	s.rates = rates
	s.lastUpdate = time.Now()
	s.logger.Info("currency.rates_updated", "count", len(rates))
}

func (s *Service) fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.APIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("rate response failed validation: %w", err)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	rates := make(map[string]float64, len(body.Rates))
	for k, v := range body.Rates {
		rates[strings.ToUpper(k)] = v
	}
	return rates, nil
}
