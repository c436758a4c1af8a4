package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	grpcadapter "github.com/commodityai/accuracy-backend/internal/adapter/grpc"
)

var (
	host    string
	token   string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "accuracyctl",
	Short:        "Forecast accuracy CLI",
	Long:         `An operator tool to query agent rankings and refresh accuracy metrics on the accuracy server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "localhost:8080", "Accuracy gRPC server address")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("API_TOKEN"), "API token (defaults to $API_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
}

// dial connects to the server and returns a client with a context carrying
// the auth token. The returned cleanup closes both.
func dial(parent context.Context) (*grpcadapter.AccuracyServiceClient, context.Context, func(), error) {
	conn, err := grpc.NewClient(host, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to %s: %w", host, err)
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", token)
	}

	cleanup := func() {
		cancel()
		conn.Close()
	}
	return grpcadapter.NewAccuracyServiceClient(conn), ctx, cleanup, nil
}
