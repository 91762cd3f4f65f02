package config

type Signals struct{}

var _ SignalConfig = Signals{}

func (Signals) GetSignalHistoryLimit() int {
	if n := IntEnv("SIGNAL_HISTORY_LIMIT", 1000); n > 0 {
		return n
	}
	return 1000
}

// GetNormalizePostSignals controls casing normalization on the advisor
// (POST) ingress. The advisor path stores input verbatim by default.
func (Signals) GetNormalizePostSignals() bool {
	return BoolEnv("SIGNAL_NORMALIZE_POST", false)
}

// GetNormalizeGetSignals controls casing normalization on the canonical
// (GET query) ingress.
func (Signals) GetNormalizeGetSignals() bool {
	return BoolEnv("SIGNAL_NORMALIZE_GET", true)
}
