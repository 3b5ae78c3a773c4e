package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/bunrui/data/documents.db"
	}
	if cfg.Storage.SnapshotPath == "" {
		cfg.Storage.SnapshotPath = "/usr/local/var/bunrui/data/index.snap"
	}
	if cfg.Corpus.Extensions == nil {
		cfg.Corpus.Extensions = []string{".txt", ".md", ".rst", ".pdf"}
	}
	if cfg.Clustering.K == 0 {
		cfg.Clustering.K = 8
	}
	if cfg.Clustering.MaxIterations == 0 {
		cfg.Clustering.MaxIterations = 100
	}
	if cfg.Clustering.NInit == 0 {
		cfg.Clustering.NInit = 10
	}
	if cfg.Clustering.Seed == 0 {
		cfg.Clustering.Seed = 42
	}
	if cfg.Search.DefaultTopN == 0 {
		cfg.Search.DefaultTopN = 10
	}
	if cfg.Search.MaxTopN == 0 {
		cfg.Search.MaxTopN = 100
	}
}
