package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// runWithClient creates an API client for the command and hands it to fn.
func runWithClient(cmd *cobra.Command, fn func(ctx context.Context, client superfaktura.Client) error) error {
	client, closeFn, err := newAPIClient(loadSettings(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()
	defer client.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return fn(ctx, client)
}

func outputFormat() string {
	return viper.GetString("output")
}
