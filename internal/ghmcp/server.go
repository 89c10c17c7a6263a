package ghmcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/github/github-projects-mcp-server/pkg/auth"
	ghErrors "github.com/github/github-projects-mcp-server/pkg/errors"
	mcpgithub "github.com/github/github-projects-mcp-server/pkg/github"
	"github.com/github/github-projects-mcp-server/pkg/translations"
	gogithub "github.com/google/go-github/v79/github"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
)

// MCPServerConfig carries everything needed to assemble a server instance.
type MCPServerConfig struct {
	// Version of the server, reported in the MCP initialize handshake.
	Version string

	// Token is the GitHub credential. Its capability class is derived from
	// the token itself, never configured.
	Token string

	// EnabledToolsets is the list of toolset names to enable, or "all".
	EnabledToolsets []string

	// ReadOnly drops every write tool from registration.
	ReadOnly bool

	// Translator localizes tool descriptions.
	Translator translations.TranslationHelperFunc

	// Logger receives the audit trail of tool calls.
	Logger *zap.Logger
}

// NewMCPServer builds the MCP server: REST and GraphQL clients, credential
// classification, toolset registration and audit hooks.
func NewMCPServer(cfg MCPServerConfig) (*server.MCPServer, error) {
	if cfg.Translator == nil {
		cfg.Translator = translations.NullTranslationHelper
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	cred := auth.Classify(cfg.Token)
	cfg.Logger.Info("credential classified",
		zap.String("class", string(cred.Class())),
		zap.String("diagnostic", cred.Diagnostic()),
	)

	restClient := gogithub.NewClient(nil).WithAuthToken(cfg.Token)
	restClient.UserAgent = fmt.Sprintf("github-projects-mcp-server/%s", cfg.Version)

	gqlHTTPClient := &http.Client{
		Transport: &bearerAuthTransport{
			transport: http.DefaultTransport,
			token:     cfg.Token,
		},
	}
	gqlClient := githubv4.NewClient(gqlHTTPClient)

	getClient := func(_ context.Context) (*gogithub.Client, error) {
		return restClient, nil
	}
	getGQLClient := func(_ context.Context) (*githubv4.Client, error) {
		return gqlClient, nil
	}

	hooks := &server.Hooks{
		OnBeforeCallTool: []server.OnBeforeCallToolFunc{
			func(_ context.Context, id any, message *mcp.CallToolRequest) {
				args, _ := json.Marshal(message.GetArguments())
				cfg.Logger.Info("tool call",
					zap.Any("id", id),
					zap.String("tool", message.Params.Name),
					zap.ByteString("arguments", args),
				)
			},
		},
		OnAfterCallTool: []server.OnAfterCallToolFunc{
			func(_ context.Context, id any, message *mcp.CallToolRequest, result *mcp.CallToolResult) {
				cfg.Logger.Info("tool result",
					zap.Any("id", id),
					zap.String("tool", message.Params.Name),
					zap.Bool("isError", result != nil && result.IsError),
				)
			},
		},
		OnError: []server.OnErrorHookFunc{
			func(_ context.Context, id any, method mcp.MCPMethod, _ any, err error) {
				cfg.Logger.Error("request failed",
					zap.Any("id", id),
					zap.String("method", string(method)),
					zap.Error(err),
				)
			},
		},
	}

	s := server.NewMCPServer(
		"github-projects-mcp-server",
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithHooks(hooks),
		// Field catalogues are memoized per tool call, never across calls.
		server.WithToolHandlerMiddleware(func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
			return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return next(mcpgithub.ContextWithFieldMemo(ctx), req)
			}
		}),
	)

	tsg := mcpgithub.DefaultToolsetGroup(cfg.ReadOnly, getClient, getGQLClient, cred, cfg.Translator)

	enabled := cfg.EnabledToolsets
	if len(enabled) == 0 {
		enabled = []string{"all"}
	}
	if err := tsg.EnableToolsets(enabled); err != nil {
		return nil, fmt.Errorf("failed to enable toolsets: %w", err)
	}
	tsg.RegisterTools(s)

	return s, nil
}

// StdioServerConfig carries the configuration of a stdio transport run.
type StdioServerConfig struct {
	Version            string
	Token              string
	EnabledToolsets    []string
	ReadOnly           bool
	ExportTranslations bool
	LogFilePath        string
}

// RunStdioServer starts the server on stdin/stdout and blocks until the
// context is cancelled by SIGTERM or SIGINT.
func RunStdioServer(cfg StdioServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(cfg.LogFilePath)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	t, dumpTranslations := translations.TranslationHelper()

	mcpServer, err := NewMCPServer(MCPServerConfig{
		Version:         cfg.Version,
		Token:           cfg.Token,
		EnabledToolsets: cfg.EnabledToolsets,
		ReadOnly:        cfg.ReadOnly,
		Translator:      t,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if cfg.ExportTranslations {
		dumpTranslations()
	}

	stdioServer := server.NewStdioServer(mcpServer)

	errC := make(chan error, 1)
	go func() {
		in, out := os.Stdin, os.Stdout
		errC <- stdioServer.Listen(ghErrors.ContextWithGitHubErrors(ctx), in, out)
	}()

	_, _ = fmt.Fprintf(os.Stderr, "GitHub Projects MCP Server running on stdio\n")

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errC:
		if err != nil {
			return fmt.Errorf("error running server: %w", err)
		}
		return nil
	}
}

// newLogger writes the audit trail to a file when a path is configured, and
// to stderr otherwise. Stdout stays reserved for the protocol stream.
func newLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}

type bearerAuthTransport struct {
	transport http.RoundTripper
	token     string
}

func (t *bearerAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	return t.transport.RoundTrip(req)
}
