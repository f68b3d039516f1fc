package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// stringList is a comma separated flag.Value.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// parseFlags parses args (without the program name).
//
// Flags:
//
//	-a                  server HTTP address in format [host]:[port]
//	-grpc-address       server gRPC address in format [host]:[port]
//	-server             server address used by the client
//	-d                  database DSN
//	-db-driver          database driver (postgres, sqlite)
//	-blobs              blob storage backend (badger, ipfs)
//	-badger-dir         badger data directory
//	-ipfs-api           IPFS Kubo RPC address
//	-c/-config          json file path with configs
//	-server-key         server RSA private key (PEM)
//	-server-public-key  server RSA public key (PEM)
//	-wallet-key         client wallet private key (hex)
//	-token-sign-key     token signing key
//	-token-issuer       token issuer name
//	-token-duration     session duration (e.g., "1h", "30m")
//	-request-timeout    request timeout (e.g., "30s", "1m")
//	-shutdown-timeout   graceful shutdown timeout (e.g., "15s")
//	-admin-wallets      comma separated admin wallet addresses
//	-allowed-origins    comma separated CORS origins
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-doc-verify", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	var adminWallets, allowedOrigins stringList
	var (
		adapterAddress, databaseDSN, databaseDriver     string
		blobBackend, badgerDir, ipfsAPI, jsonConfigPath string
		serverKey, serverPublicKey, walletKey           string
		tokenSignKey, tokenIssuer                       string
		tokenDuration, requestTimeout, shutdownTimeout  time.Duration
	)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&adapterAddress, "server", "", "Server address used by the client")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&databaseDriver, "db-driver", "", "Database driver (postgres, sqlite)")
	fs.StringVar(&blobBackend, "blobs", "", "Blob storage backend (badger, ipfs)")
	fs.StringVar(&badgerDir, "badger-dir", "", "Badger data directory")
	fs.StringVar(&ipfsAPI, "ipfs-api", "", "IPFS Kubo RPC address")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&serverKey, "server-key", "", "Server RSA private key (PEM)")
	fs.StringVar(&serverPublicKey, "server-public-key", "", "Server RSA public key (PEM)")
	fs.StringVar(&walletKey, "wallet-key", "", "Wallet private key (hex)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Session duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout (e.g., 15s)")
	fs.Var(&adminWallets, "admin-wallets", "Comma separated admin wallet addresses")
	fs.Var(&allowedOrigins, "allowed-origins", "Comma separated CORS origins")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			ServerPrivateKey: serverKey,
			ServerPublicKey:  serverPublicKey,
			WalletPrivateKey: walletKey,
			TokenSignKey:     tokenSignKey,
			TokenIssuer:      tokenIssuer,
			TokenDuration:    tokenDuration,
			AdminWallets:     adminWallets,
		},
		Storage: Storage{
			DB: DB{
				DSN:    databaseDSN,
				Driver: databaseDriver,
			},
			Blobs: Blobs{
				Backend:        blobBackend,
				BadgerDir:      badgerDir,
				IPFSAPIAddress: ipfsAPI,
			},
		},
		Server: Server{
			HTTPAddress:     serverAddress.String(),
			GRPCAddress:     grpcServerAddress.String(),
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
			AllowedOrigins:  allowedOrigins,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
		Args:         fs.Args(),
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
