package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validServerConfig() *StructuredConfig {
	cfg := defaultConfig()
	cfg.App.ServerPrivateKey = "pem"
	cfg.App.TokenSignKey = "secret"
	cfg.Storage.DB.DSN = "postgres://localhost/db"
	return cfg
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*StructuredConfig) {}},
		{name: "missing private key", mutate: func(c *StructuredConfig) { c.App.ServerPrivateKey = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "missing sign key", mutate: func(c *StructuredConfig) { c.App.TokenSignKey = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "zero token duration", mutate: func(c *StructuredConfig) { c.App.TokenDuration = 0 }, wantErr: ErrInvalidAppConfigs},
		{name: "missing dsn", mutate: func(c *StructuredConfig) { c.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "unknown driver", mutate: func(c *StructuredConfig) { c.Storage.DB.Driver = "oracle" }, wantErr: ErrInvalidStorageConfigs},
		{name: "unknown blob backend", mutate: func(c *StructuredConfig) { c.Storage.Blobs.Backend = "s3" }, wantErr: ErrInvalidStorageConfigs},
		{name: "ipfs without address", mutate: func(c *StructuredConfig) { c.Storage.Blobs.Backend = "ipfs" }, wantErr: ErrInvalidStorageConfigs},
		{name: "missing http address", mutate: func(c *StructuredConfig) { c.Server.HTTPAddress = "" }, wantErr: ErrInvalidServerConfigs},
		{name: "zero concurrency", mutate: func(c *StructuredConfig) { c.Workers.DecryptConcurrency = 0 }, wantErr: ErrInvalidWorkerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validServerConfig()
			tt.mutate(cfg)

			err := cfg.validateServer()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClientConfigValidate(t *testing.T) {
	valid := func() *ClientConfig {
		return &ClientConfig{
			App:     ClientApp{WalletPrivateKey: "0x01", MaxFileSize: 1 << 20},
			Adapter: ClientAdapter{HTTPAddress: "localhost:8080", RequestTimeout: time.Second},
			Blobs:   Blobs{Backend: "badger"},
			Args:    []string{"list"},
		}
	}

	assert.NoError(t, valid().validate())

	noWallet := valid()
	noWallet.App.WalletPrivateKey = ""
	assert.ErrorIs(t, noWallet.validate(), ErrInvalidAppConfigs)

	keygen := valid()
	keygen.App.WalletPrivateKey = ""
	keygen.Args = []string{"keygen"}
	assert.NoError(t, keygen.validate())
	assert.False(t, keygen.NeedsWallet())

	noAddress := valid()
	noAddress.Adapter.HTTPAddress = ""
	assert.ErrorIs(t, noAddress.validate(), ErrInvalidAdapterConfigs)

	badBackend := valid()
	badBackend.Blobs.Backend = ""
	assert.ErrorIs(t, badBackend.validate(), ErrInvalidStorageConfigs)
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, DriverPostgres, DB{DSN: "postgresql://u@h/db"}.DriverName())
	assert.Equal(t, DriverPostgres, DB{DSN: "host=localhost dbname=x"}.DriverName())
	assert.Equal(t, DriverSQLite, DB{DSN: "file:requests.db"}.DriverName())
	assert.Equal(t, DriverSQLite, DB{DSN: "postgres://x", Driver: DriverSQLite}.DriverName())
}
