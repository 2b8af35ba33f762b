package httpx

type Option func(*LoggingRoundTripper)

func WithLogFieldMaxLen(logFieldMaxLen int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = logFieldMaxLen
	}
}

func WithSensitiveDataMasker(sensitiveDataMasker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.sensitiveDataMasker = sensitiveDataMasker
	}
}

// WithMaxBodyDump отключает дамп тела ответа, если оно больше limit байт
// или его длина неизвестна. Полные фиды цен весят мегабайты.
func WithMaxBodyDump(limit int64) Option {
	return func(rt *LoggingRoundTripper) {
		rt.maxBodyDump = limit
	}
}
