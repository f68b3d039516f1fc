package config

import "time"

// defaultConfig is merged last and only fills what no other source set.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:       "go-doc-verify",
			TokenDuration:     time.Hour,
			ChallengeDuration: 5 * time.Minute,
			MaxFileSize:       10 << 20,
			Version:           "dev",
		},
		Storage: Storage{
			Blobs: Blobs{
				Backend:        "badger",
				CacheSize:      256,
				RequestTimeout: 30 * time.Second,
			},
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Adapter: Adapter{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Workers: Workers{
			FetchTimeout:         15 * time.Second,
			DecryptConcurrency:   8,
			CleanupQueueSize:     256,
			CleanupMaxRetries:    5,
			CleanupRetryInterval: time.Second,
		},
	}
}
