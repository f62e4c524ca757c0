package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Flags holds the values of the configuration flags bound to a command.
// Values are read after the flag set was parsed.
type Flags struct {
	serverAddress   NetAddress
	dsn             string
	tempDir         string
	jsonConfigPath  string
	requestTimeout  time.Duration
	userAgent       string
	proxy           string
	syncInterval    time.Duration
	syncConcurrency int
}

// BindFlags registers all configuration flags on fs.
//
// Flags:
//
//	-a/--address        control API address in format [host]:[port]
//	-d/--dsn            database DSN
//	--temp-dir          download staging directory
//	-c/--config         json file path with configs
//	--request-timeout   per mirror attempt timeout (e.g., "30s", "1m")
//	--user-agent        user agent sent to mirrors
//	--proxy             HTTP proxy URL
//	--sync-interval     background sync interval (e.g., "4h")
//	--sync-concurrency  parallel repository syncs
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}

	fs.VarP(&f.serverAddress, "address", "a", "Control API address host:port")
	fs.StringVarP(&f.dsn, "dsn", "d", "", "Database DSN")
	fs.StringVar(&f.tempDir, "temp-dir", "", "Download staging directory")
	fs.StringVarP(&f.jsonConfigPath, "config", "c", "", "JSON config file path")
	fs.DurationVar(&f.requestTimeout, "request-timeout", 0, "Per mirror attempt timeout (e.g., 30s, 1m)")
	fs.StringVar(&f.userAgent, "user-agent", "", "User agent sent to mirrors")
	fs.StringVar(&f.proxy, "proxy", "", "HTTP proxy URL")
	fs.DurationVar(&f.syncInterval, "sync-interval", 0, "Background sync interval (e.g., 4h)")
	fs.IntVar(&f.syncConcurrency, "sync-concurrency", 0, "Parallel repository syncs")

	return f
}

// Config returns the flag values as a [StructuredConfig] layer.
func (f *Flags) Config() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TempDir: f.tempDir,
		},
		Storage: Storage{
			DB: DB{
				DSN: f.dsn,
			},
		},
		Server: Server{
			HTTPAddress: f.serverAddress.String(),
		},
		Adapter: Adapter{
			RequestTimeout: f.requestTimeout,
			UserAgent:      f.userAgent,
			Proxy:          f.proxy,
		},
		Workers: Workers{
			SyncInterval:    f.syncInterval,
			SyncConcurrency: f.syncConcurrency,
		},
		JSONFilePath: f.jsonConfigPath,
	}
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
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
