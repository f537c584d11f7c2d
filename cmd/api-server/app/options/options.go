package options

import (
	"errors"
	"os"

	"github.com/akamensky/argparse"
	"github.com/caarlos0/env/v6"
)

type Options struct {
	LogFile       *string
	AccessLog     *string
	CertFile      *string
	KeyFile       *string
	Mode          *string
	Port          *int
	ComputeURL    *string
	NetworkURL    *string
	DisableWorker *bool
	Env           EnvConfig
	parser        *argparse.Parser
}

// EnvConfig holds the settings that are read from the environment.
type EnvConfig struct {
	// ServiceToken is sent to the compute and network services when the
	// caller did not forward a token of its own.
	ServiceToken string `env:"OS_AUTH_TOKEN"`
	JWTSecret    string `env:"JWT_SECRET"`
}

func NewOptions() (*Options, error) {
	option := &Options{}

	parser := argparse.NewParser("usage-report-server", "Argument Parser for api-server configurations")
	option.parser = parser

	option.LogFile = parser.String("l", "log-file", &argparse.Options{
		Help:    "log-file name",
		Default: "/var/log/app.log",
	})
	option.AccessLog = parser.String("", "access-log", &argparse.Options{
		Help:    "access log file name, rotated daily",
		Default: "/var/log/access.log",
	})
	option.CertFile = parser.String("", "tls-cert-file", &argparse.Options{
		Help: "CertFile containing the defaultx509 Certificate for HTTPS. (CA cert)",
	})
	option.KeyFile = parser.String("", "tls-private-key-file", &argparse.Options{
		Help: "Private key file containing the default x509 private key matching --tls-cert-file",
	})
	option.Port = parser.Int("p", "port", &argparse.Options{
		Help:    "The port used by api-server",
		Default: 8000,
	})
	option.Mode = parser.Selector("m", "mode", []string{"release", "development", "debug"}, &argparse.Options{
		Help:    "Choose release/development mode (default debug mode)",
		Default: "debug",
	})
	option.ComputeURL = parser.String("", "compute-url", &argparse.Options{
		Help:     "Endpoint of the compute service (e.g. http://nova:8774/v2.1)",
		Required: true,
	})
	option.NetworkURL = parser.String("", "network-url", &argparse.Options{
		Help: "Endpoint of the network service. Network limits are skipped when empty",
	})
	option.DisableWorker = parser.Flag("", "disable-worker", &argparse.Options{
		Help: "Run without the background export worker",
	})

	if err := parser.Parse(os.Args); err != nil {
		return option, err
	}

	if err := env.Parse(&option.Env, env.Options{}); err != nil {
		return option, err
	}

	if err := option.Validate(); err != nil {
		return option, err
	}

	return option, nil
}

func (o *Options) Validate() error {
	var (
		hasCert = o.CertFile != nil && *o.CertFile != ""
		hasKey  = o.KeyFile != nil && *o.KeyFile != ""
	)
	if hasCert != hasKey {
		return errors.New("certificate/private key both must be present or neither must be present")
	}

	if *o.ComputeURL == "" {
		return errors.New("compute service endpoint must be present")
	}
	return nil
}

func (o *Options) Usage(err error) string {
	return o.parser.Usage(err)
}
