package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-aspectmodel/pkg/mockserver"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/openapi"
)

func mockCmd(a *app) *cobra.Command {
	f := &outputFlags{}
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "mock <input>",
		Short: "Serve the aspect's sample payload from a stub HTTP server",
		Long: "Serve GET /<aspect-name> with a generated sample payload until interrupted.\n" +
			"Requests must accept application/json. Admin routes live under /__admin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if host == "" {
				host = a.cfg.Mock.Host
			}
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Mock.Port
			}
			base, err := f.options()
			if err != nil {
				return err
			}
			base.Format = "json"

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server, err := a.mockServer(ctx, args[0], f.aspect, base, host, port)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mock server listening on %s\n", server.BaseURL())

			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Stop(shutdown)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config, 0 picks a free port)")
	return cmd
}

// mockServer derives stubs from the aspect's OpenAPI document and starts a
// server answering them.
func (a *app) mockServer(ctx context.Context, input, aspect string, opts render.Options, host string, port int) (*mockserver.Server, error) {
	payload := jsonpayload.New(jsonpayload.WithIndent("  "))
	res, err := a.generate(ctx, input, aspect, openapi.New(openapi.WithPayloadRenderer(payload)), opts)
	if err != nil {
		return nil, err
	}
	doc, err := mockserver.LoadOpenAPI(ctx, res.Output)
	if err != nil {
		return nil, err
	}
	stubs, err := mockserver.StubsFromOpenAPI(doc)
	if err != nil {
		return nil, err
	}

	server := mockserver.New(
		mockserver.WithHost(host),
		mockserver.WithPort(port),
		mockserver.WithLogger(a.logger),
	)
	for _, stub := range stubs {
		server.StubFor(stub)
		a.logger.Info("stub registered", "method", stub.Method, "path", stub.Path)
	}
	if err := server.Start(); err != nil {
		return nil, err
	}
	return server, nil
}
