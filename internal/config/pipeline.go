package config

import "time"

// Pipeline — параметры обновления таблицы ROI.
type Pipeline struct {
	MinBuyPrice          int64 `env:"MIN_BUY_PRICE" envDefault:"100000" validate:"gte=1"`
	MinOfficialPrice     int64 `env:"MIN_OFFICIAL_PRICE" envDefault:"10000" validate:"gte=1"`
	MinTradingValue      int64 `env:"MIN_TRADING_VALUE" envDefault:"0" validate:"gte=0"`
	VolumeEstimateFactor int64 `env:"VOLUME_ESTIMATE_FACTOR" envDefault:"5" validate:"gte=1"`
	MaxCandidates        int   `env:"MAX_CANDIDATES" envDefault:"0" validate:"gte=0"`

	MaxEnrichRetries int           `env:"MAX_ENRICH_RETRIES" envDefault:"10" validate:"gte=1"`
	JagexRateLimit   time.Duration `env:"JAGEX_RATE_LIMIT" envDefault:"1200ms"`
	RetryStep        time.Duration `env:"RETRY_STEP" envDefault:"500ms"`
	RetryJitter      time.Duration `env:"RETRY_JITTER" envDefault:"200ms"`
	OfficialPriceTTL time.Duration `env:"OFFICIAL_PRICE_TTL" envDefault:"24h"`
	IneligibleTTL    time.Duration `env:"INELIGIBLE_TTL" envDefault:"24h"`

	CleanupDays int `env:"CLEANUP_DAYS" envDefault:"3" validate:"gte=1"`
	TopN        int `env:"TOP_N" envDefault:"10" validate:"gte=1"`

	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"6h"`
	RunOnStart      bool          `env:"RUN_ON_START" envDefault:"false"`

	ReferencePages []string `env:"INELIGIBLE_PAGES" envDefault:"Leagues_Reward_Shop,Grid_Master,Deadman_Reward_Store,Keel_parts" envSeparator:","`
	ExplicitNames  []string `env:"INELIGIBLE_NAMES" envDefault:"old school bond,belle's folly,dragon cannon barrel" envSeparator:","`
	ExplicitIDs    []int64  `env:"INELIGIBLE_IDS" envDefault:"31245,31585" envSeparator:","`
}

type Upstream struct {
	PricesURL    string        `env:"PRICES_API_URL" envDefault:"https://prices.runescape.wiki/api/v1/osrs" validate:"url"`
	VolumeWindow string        `env:"PRICES_VOLUME_WINDOW" envDefault:"24h" validate:"oneof=5m 1h 6h 24h"`
	ItemDBURL    string        `env:"ITEMDB_API_URL" envDefault:"https://secure.runescape.com/m=itemdb_oldschool/api/catalogue/detail.json" validate:"url"`
	WikiURL      string        `env:"WIKI_API_URL" envDefault:"https://oldschool.runescape.wiki/api.php" validate:"url"`
	UserAgent    string        `env:"UPSTREAM_USER_AGENT" envDefault:"coffer-scanner/1.0" validate:"required"`
	Timeout      time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	// Повторы массовых запросов (mapping / latest / volumes / wiki).
	BulkMaxRetries  int           `env:"BULK_MAX_RETRIES" envDefault:"2" validate:"gte=0"`
	BulkBaseDelay   time.Duration `env:"BULK_BASE_DELAY" envDefault:"1s"`
	BulkJitter      time.Duration `env:"BULK_JITTER" envDefault:"500ms"`
	WikiMinInterval time.Duration `env:"WIKI_MIN_INTERVAL" envDefault:"500ms"`

	LogHTTP bool `env:"UPSTREAM_LOG_HTTP" envDefault:"false"`
}
