package coffer

import "time"

const (
	DefaultMinBuyPrice          = 100_000
	DefaultMinOfficialPrice     = 10_000
	DefaultCleanupDays          = 3
	DefaultMaxEnrichRetries     = 10
	DefaultJagexRateLimit       = 1200 * time.Millisecond
	DefaultRetryStep            = 500 * time.Millisecond
	DefaultRetryJitter          = 200 * time.Millisecond
	DefaultCacheTTL             = 24 * time.Hour
	DefaultVolumeEstimateFactor = 5
	DefaultTopN                 = 10
)

// Settings — параметры одного пайплайна. Нулевые значения означают «не задано»
// и заменяются значениями по умолчанию в NewPipeline; конфиг не допускает
// нулевых порогов цены, кроме MinTradingValue.
type Settings struct {
	MinBuyPrice      int64
	MinOfficialPrice int64
	// MinTradingValue отсекает кандидатов с volume * buyPrice ниже порога;
	// 0 отключает правило. Применяется только к измеренному объёму.
	MinTradingValue      int64
	VolumeEstimateFactor int64
	MaxCandidates        int

	MaxEnrichRetries int
	RetryStep        time.Duration
	RetryJitter      time.Duration
	OfficialPriceTTL time.Duration
	IneligibleTTL    time.Duration

	CleanupDays int
	TopN        int

	ReferencePages []string
	ExplicitNames  []string
	ExplicitIDs    []int64
}

func DefaultSettings() Settings {
	return Settings{
		MinBuyPrice:          DefaultMinBuyPrice,
		MinOfficialPrice:     DefaultMinOfficialPrice,
		VolumeEstimateFactor: DefaultVolumeEstimateFactor,
		MaxEnrichRetries:     DefaultMaxEnrichRetries,
		RetryStep:            DefaultRetryStep,
		RetryJitter:          DefaultRetryJitter,
		OfficialPriceTTL:     DefaultCacheTTL,
		IneligibleTTL:        DefaultCacheTTL,
		CleanupDays:          DefaultCleanupDays,
		TopN:                 DefaultTopN,
		ReferencePages:       []string{"Leagues_Reward_Shop", "Grid_Master", "Deadman_Reward_Store", "Keel_parts"},
		ExplicitNames:        []string{"old school bond", "belle's folly", "dragon cannon barrel"},
		ExplicitIDs:          []int64{31245, 31585},
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()

	if s.MinBuyPrice <= 0 {
		s.MinBuyPrice = d.MinBuyPrice
	}
	if s.MinOfficialPrice <= 0 {
		s.MinOfficialPrice = d.MinOfficialPrice
	}
	if s.VolumeEstimateFactor <= 0 {
		s.VolumeEstimateFactor = d.VolumeEstimateFactor
	}
	if s.MaxEnrichRetries <= 0 {
		s.MaxEnrichRetries = d.MaxEnrichRetries
	}
	if s.RetryStep < 0 {
		s.RetryStep = d.RetryStep
	}
	if s.RetryJitter < 0 {
		s.RetryJitter = d.RetryJitter
	}
	if s.OfficialPriceTTL <= 0 {
		s.OfficialPriceTTL = d.OfficialPriceTTL
	}
	if s.IneligibleTTL <= 0 {
		s.IneligibleTTL = d.IneligibleTTL
	}
	if s.CleanupDays <= 0 {
		s.CleanupDays = d.CleanupDays
	}
	if s.TopN <= 0 {
		s.TopN = d.TopN
	}
	if s.ReferencePages == nil {
		s.ReferencePages = d.ReferencePages
	}
	if s.ExplicitNames == nil {
		s.ExplicitNames = d.ExplicitNames
	}
	if s.ExplicitIDs == nil {
		s.ExplicitIDs = d.ExplicitIDs
	}

	return s
}
