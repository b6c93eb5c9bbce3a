package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/clipilot/clipilot/internal/platform"
	"github.com/clipilot/clipilot/internal/session"
)

// mcpServer wraps the MCP server with the platform provider. The
// session lock already serializes full runs; the mutex-free design is
// deliberate because each tool call is itself a single OS interaction.
type mcpServer struct {
	provider *platform.Provider
	mcp      *mcpserver.MCPServer
}

// newMCPServer creates and configures an MCP server with all clipilot
// tools.
func newMCPServer() (*mcpServer, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}

	s := &mcpServer{provider: provider}
	s.mcp = mcpserver.NewMCPServer("clipilot", "1.0.0")
	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the requested transport.
func (s *mcpServer) serve(transport string, port int) error {
	switch transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("run",
			mcp.WithDescription("Launch the target session, paste a payload into it via the clipboard, and submit it. Returns the final state, the stage reached, and the strategy trail."),
			mcp.WithString("payload", mcp.Description("Payload text to deliver (required)")),
			mcp.WithString("command", mcp.Description("Command to launch (default from config)")),
			mcp.WithString("title", mcp.Description("Window title substring hint")),
			mcp.WithNumber("pid", mcp.Description("Process ID hint")),
			mcp.WithBoolean("queue", mcp.Description("Wait for an in-flight session instead of failing busy")),
		),
		s.handleRun,
	)

	s.mcp.AddTool(
		mcp.NewTool("launch",
			mcp.WithDescription("Start the target session in a new terminal window without driving it"),
			mcp.WithString("command", mcp.Description("Command to launch (default from config)")),
		),
		s.handleLaunch,
	)

	s.mcp.AddTool(
		mcp.NewTool("focus",
			mcp.WithDescription("Locate a session window and bring it to the foreground"),
			mcp.WithString("title", mcp.Description("Window title substring")),
			mcp.WithNumber("pid", mcp.Description("Owning process ID")),
		),
		s.handleFocus,
	)

	s.mcp.AddTool(
		mcp.NewTool("clipboard_read",
			mcp.WithDescription("Read the current clipboard text"),
		),
		s.handleClipboardRead,
	)

	s.mcp.AddTool(
		mcp.NewTool("clipboard_write",
			mcp.WithDescription("Write text to the system clipboard"),
			mcp.WithString("text", mcp.Description("Text to write (required)")),
		),
		s.handleClipboardWrite,
	)
}

// stringParam returns a string argument or a default.
func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

// intParam returns a numeric argument or a default. JSON numbers
// arrive as float64.
func intParam(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return def
}

// boolParam returns a boolean argument or a default.
func boolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

func toYAML(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *mcpServer) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	payload := stringParam(params, "payload", "")
	if payload == "" {
		return mcp.NewToolResultError("payload is required"), nil
	}
	command := stringParam(params, "command", cfg.Launch.Command)

	target := platform.ActivationTarget{
		PIDHint:        intParam(params, "pid", 0),
		TitleSubstring: stringParam(params, "title", ""),
	}
	if target.TitleSubstring == "" {
		target.TitleSubstring = firstWord(command)
	}

	runner := session.NewRunner(s.provider, session.Options{
		Timing:                   cfg.Timing,
		MinVerifyLen:             cfg.Verify.MinLength,
		ProceedOnUnverifiedPaste: cfg.Verify.ProceedOnFailure,
		QueueOnBusy:              boolParam(params, "queue", cfg.Automation.QueueOnBusy),
		Logger:                   logger,
	})

	outcome, err := runner.Run(ctx, payload, target, command)
	if outcome == nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := RunResult{
		OK:           outcome.FinalState == session.StateDone,
		Action:       "run",
		Session:      outcome.ID,
		FinalState:   string(outcome.FinalState),
		StageReached: string(outcome.StageReached),
		PID:          outcome.PID,
		Message:      outcome.Message,
		Trail:        outcome.Trail(),
	}
	if err != nil {
		return mcp.NewToolResultError(toYAML(result)), nil
	}
	return mcp.NewToolResultText(toYAML(result)), nil
}

func (s *mcpServer) handleLaunch(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	command := stringParam(params, "command", cfg.Launch.Command)

	handle, err := s.provider.Launcher.Launch(command)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toYAML(LaunchResult{
		OK:      true,
		Action:  "launch",
		Command: command,
		PID:     handle.PID,
	})), nil
}

func (s *mcpServer) handleFocus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	target := platform.ActivationTarget{
		PIDHint:        intParam(params, "pid", 0),
		TitleSubstring: stringParam(params, "title", ""),
	}
	if target.PIDHint == 0 && target.TitleSubstring == "" {
		return mcp.NewToolResultError("specify title or pid"), nil
	}
	handle := &platform.SessionHandle{PID: target.PIDHint, LaunchedAt: time.Time{}}

	for _, ls := range s.provider.Locator.Strategies() {
		refs, err := ls.Locate(target, handle)
		if err != nil || len(refs) == 0 {
			continue
		}
		for _, as := range s.provider.Activator.Strategies() {
			if ok, err := as.Activate(refs[0]); ok && err == nil {
				return mcp.NewToolResultText(toYAML(FocusResult{
					OK:     true,
					Action: "focus",
					Window: refs[0].Title,
					PID:    refs[0].PID,
				})), nil
			}
		}
		return mcp.NewToolResultError(fmt.Sprintf("could not focus %s", refs[0])), nil
	}
	return mcp.NewToolResultError("no window found"), nil
}

func (s *mcpServer) handleClipboardRead(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := s.provider.Clipboard.GetText()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toYAML(ClipboardReadResult{
		OK:     true,
		Action: "clipboard-read",
		Text:   text,
	})), nil
}

func (s *mcpServer) handleClipboardWrite(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := stringParam(params, "text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	if err := s.provider.Clipboard.SetText(text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toYAML(ClipboardWriteResult{
		OK:     true,
		Action: "clipboard-write",
	})), nil
}
