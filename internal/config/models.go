package config

// AnalysisConfig represents the configuration for the analysis engine
type AnalysisConfig struct {
	MaxMessageBytes int
}

// ServerConfig represents the configuration for the serving frontend
type ServerConfig struct {
	Frontend       string
	ListenAddress  string
	Hostname       string
	BlockHighRisk  bool
	RiskHeader     string
	ScoreHeader    string
	FindingsHeader string
	RelayEnabled   bool
	RelayAddress   string
	RelayPort      int
}

// GetAnalysis returns the analysis configuration
func (c *Config) GetAnalysis() AnalysisConfig {
	return AnalysisConfig{
		MaxMessageBytes: c.GetInt("analysis.max_message_bytes"),
	}
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		Frontend:       c.GetString("server.frontend"),
		ListenAddress:  c.GetString("server.listen_address"),
		Hostname:       c.GetString("server.hostname"),
		BlockHighRisk:  c.GetBool("server.block_high_risk"),
		RiskHeader:     c.GetString("server.headers.risk"),
		ScoreHeader:    c.GetString("server.headers.score"),
		FindingsHeader: c.GetString("server.headers.findings"),
		RelayEnabled:   c.GetBool("server.relay.enabled"),
		RelayAddress:   c.GetString("server.relay.address"),
		RelayPort:      c.GetInt("server.relay.port"),
	}
}
