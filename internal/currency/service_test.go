package currency

import (
	"context"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIURL = "https://rates.test/v4/latest/EUR"

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(Config{APIURL: testAPIURL}, nil, nil)
	gock.InterceptClient(svc.client)
	t.Cleanup(gock.Off)
	return svc
}

func TestConvertToEURIdentity(t *testing.T) {
	svc := newTestService(t)
	// No mock is mounted: the identity path must not touch the network.
	assert.Equal(t, 123.45, svc.ConvertToEUR(context.Background(), 123.45, "EUR"))
	assert.Equal(t, 123.45, svc.ConvertToEUR(context.Background(), 123.45, "€"))
	assert.Equal(t, 0.0, svc.ConvertToEUR(context.Background(), 0, "eur"))
}

func TestConvertToEURFetchedRates(t *testing.T) {
	svc := newTestService(t)
	gock.New("https://rates.test").
		Get("/v4/latest/EUR").
		Reply(200).
		JSON(map[string]any{
			"base":  "EUR",
			"rates": map[string]float64{"usd": 2.0, "GBP": 0.5},
		})

	assert.InDelta(t, 5.0, svc.ConvertToEUR(context.Background(), 10, "USD"), 1e-9)
	// Table is fresh: the second conversion must not fetch again.
	assert.InDelta(t, 20.0, svc.ConvertToEUR(context.Background(), 10, "gbp"), 1e-9)
	assert.True(t, gock.IsDone())
}

func TestConvertToEURFallbackOnFetchFailure(t *testing.T) {
	svc := newTestService(t)
	gock.New("https://rates.test").
		Get("/v4/latest/EUR").
		Reply(500)

	for code, rate := range map[string]float64{
		"USD": 1.08, "GBP": 0.86, "CHF": 0.93, "JPY": 161.50, "CAD": 1.47, "AUD": 1.65,
	} {
		assert.InDelta(t, 100/rate, svc.ConvertToEUR(context.Background(), 100, code), 1e-9, "code %s", code)
	}
}

func TestConvertToEURFallbackOnInvalidBody(t *testing.T) {
	svc := newTestService(t)
	gock.New("https://rates.test").
		Get("/v4/latest/EUR").
		Reply(200).
		JSON(map[string]any{"rates": map[string]any{"USD": "not-a-number"}})

	assert.InDelta(t, 100/1.08, svc.ConvertToEUR(context.Background(), 100, "USD"), 1e-9)
}

func TestConvertToEURUnknownCurrencyUnchanged(t *testing.T) {
	svc := newTestService(t)
	gock.New("https://rates.test").
		Get("/v4/latest/EUR").
		Reply(500)

	assert.Equal(t, 42.0, svc.ConvertToEUR(context.Background(), 42, "XXX"))
}

func TestManualRateWinsOverTable(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.SetManualRate("usd", 2))

	// Overrides short-circuit before any refresh, so no mock is needed.
	assert.InDelta(t, 5.0, svc.ConvertToEUR(context.Background(), 10, "USD"), 1e-9)

	gock.New("https://rates.test").
		Get("/v4/latest/EUR").
		Reply(500)
	require.NoError(t, svc.ClearManualRate("USD"))
	assert.InDelta(t, 10/1.08, svc.ConvertToEUR(context.Background(), 10, "USD"), 1e-9)
}

func TestSetManualRateValidation(t *testing.T) {
	svc := newTestService(t)
	assert.Error(t, svc.SetManualRate("", 1.5))
	assert.Error(t, svc.SetManualRate("USD", 0))
	assert.Error(t, svc.SetManualRate("USD", -1))
}

func TestManualRatesReturnsCopy(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.SetManualRate("JPY", 160))

	rates := svc.ManualRates()
	rates["JPY"] = 1
	assert.Equal(t, 160.0, svc.ManualRates()["JPY"])
}

type staticStore struct {
	rates map[string]float64
}

func (s *staticStore) ManualRates() (map[string]float64, error) { return s.rates, nil }
func (s *staticStore) SetManualRate(code string, rate float64) error {
	s.rates[code] = rate
	return nil
}
func (s *staticStore) DeleteManualRate(code string) error {
	delete(s.rates, code)
	return nil
}

func TestManualRatesLoadedFromStore(t *testing.T) {
	store := &staticStore{rates: map[string]float64{"CHF": 0.9}}
	svc := NewService(Config{APIURL: testAPIURL, MaxAge: time.Hour}, store, nil)

	assert.InDelta(t, 10/0.9, svc.ConvertToEUR(context.Background(), 10, "CHF"), 1e-9)

	require.NoError(t, svc.SetManualRate("GBP", 0.8))
	assert.Equal(t, 0.8, store.rates["GBP"])
}
