package config

type Redis struct {
	Address            string `env:"REDIS_ADDRESS"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0" validate:"gte=0,lte=15"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
}

// Enabled: без адреса кэш живёт в памяти процесса.
func (r Redis) Enabled() bool {
	return r.Address != ""
}

type Asynq struct {
	Enabled     bool   `env:"ASYNQ_ENABLED" envDefault:"false"`
	Queue       string `env:"ASYNQ_QUEUE" envDefault:"coffer" validate:"required"`
	Concurrency int    `env:"ASYNQ_CONCURRENCY" envDefault:"1" validate:"gte=1"`
}
