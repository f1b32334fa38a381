package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/carry/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var transport string
	httpOpts := mcp.HTTPOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes journal pages, the marker and highlight
toggles, and rollover through the Model Context Protocol. Unless feed.enabled
is set, journals created through the server are rolled over by the server.`,
		Example: `
carry mcp
carry mcp --transport stdio
carry mcp --http-port 0 --http-tls-cert cert.pem --http-tls-key key.pem
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mcp.ParseTransport(transport)
			if err != nil {
				return err
			}
			e, err := loadEnv(modeServe)
			if err != nil {
				return err
			}
			runner := mcp.Runner{
				App:       e.App,
				Name:      "carry",
				Version:   version,
				Feed:      e.Feed,
				Logger:    e.Logger.Named("mcp"),
				Transport: t,
				HTTP:      httpOpts,
			}
			return runner.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&httpOpts.Host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&httpOpts.Port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&httpOpts.Path, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&httpOpts.CertFile, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&httpOpts.KeyFile, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}
