package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	"github.com/fivetwenty-io/superfaktura-client/pkg/sfclient"
	"github.com/fivetwenty-io/superfaktura-client/pkg/sflog"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// newAPIClient builds the client used by every command. Tests replace it.
var newAPIClient = createClient

func createClient(settings Settings, stderr io.Writer) (superfaktura.Client, func(), error) {
	if settings.APIKey == "" {
		apiKey, err := promptAPIKey(os.Stdin, stderr)
		if err != nil {
			return nil, nil, err
		}

		settings.APIKey = apiKey
	}

	if settings.APIEmail == "" || settings.CompanyID == "" {
		return nil, nil, sfclient.ErrMissingCredentials
	}

	config, err := superfaktura.NewConfig(settings.APIEmail, settings.APIKey, settings.CompanyID,
		superfaktura.WithSandbox(settings.Sandbox),
		superfaktura.WithTimeout(settings.Timeout),
		superfaktura.WithConnectTimeout(settings.ConnectTimeout),
		superfaktura.WithMaxRetries(settings.MaxRetries),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeEvents, err := createLogger(settings, stderr)
	if err != nil {
		return nil, nil, err
	}

	client, err := sfclient.New(config,
		sfclient.WithLogger(logger),
		sfclient.WithDebug(settings.Verbose),
		sfclient.WithUserAgent("sfapi/"+sfclient.Version),
	)
	if err != nil {
		closeEvents()

		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, closeEvents, nil
}

func createLogger(settings Settings, stderr io.Writer) (superfaktura.Logger, func(), error) {
	logrusLogger, err := sflog.NewLogrusWithLevel(settings.LogLevel, settings.Verbose)
	if err != nil {
		return nil, nil, err
	}

	if base, ok := logrusLogger.FieldLogger().(*logrus.Logger); ok {
		base.SetOutput(stderr)
	}

	if settings.EventsNATSURL == "" {
		return logrusLogger, func() {}, nil
	}

	natsLogger, closeFn, err := sflog.ConnectNATS(settings.EventsNATSURL, settings.EventsSubject,
		sflog.WithFallback(logrusLogger))
	if err != nil {
		return nil, nil, err
	}

	return sflog.Multi(logrusLogger, natsLogger), closeFn, nil
}

func promptAPIKey(stdin *os.File, stderr io.Writer) (string, error) {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", constants.ErrAPIKeyRequired
	}

	fmt.Fprint(stderr, "API key: ")

	apiKey, err := term.ReadPassword(fd)

	fmt.Fprintln(stderr)

	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	if len(apiKey) == 0 {
		return "", constants.ErrAPIKeyRequired
	}

	return string(apiKey), nil
}
