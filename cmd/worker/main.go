// Worker executable for codex-temporal-go
//
// This starts a Temporal worker that executes workflows and activities.
package main

import (
	"log"
	"os"
	"path/filepath"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/agentcore/sessioncore/internal/activities"
	"github.com/agentcore/sessioncore/internal/hooks"
	"github.com/agentcore/sessioncore/internal/llm"
	"github.com/agentcore/sessioncore/internal/tools"
	"github.com/agentcore/sessioncore/internal/tools/handlers"
	"github.com/agentcore/sessioncore/internal/workflow"
)

const (
	TaskQueue = "codex-temporal"
)

func main() {
	// Check for OpenAI API key
	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	// Create Temporal client
	c, err := client.Dial(client.Options{
		HostPort: client.DefaultHostPort, // localhost:7233
	})
	if err != nil {
		log.Fatalf("Failed to create Temporal client: %v", err)
	}
	defer c.Close()

	// Create worker
	w := worker.New(c, TaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflow(workflow.AgenticWorkflow)
	w.RegisterWorkflow(workflow.AgenticWorkflowContinued)

	// Create tool registry with handlers
	// Maps to: codex-rs/core/src/tools/registry.rs ToolRegistry setup
	toolRegistry := tools.NewToolRegistry()
	toolRegistry.Register(handlers.NewShellTool())
	toolRegistry.Register(handlers.NewReadFileTool())

	log.Printf("Registered %d tools", toolRegistry.ToolCount())

	// Create LLM client
	llmClient := llm.NewOpenAIClient()

	// Register activities
	llmActivities := activities.NewLLMActivities(llmClient)
	w.RegisterActivity(llmActivities.ExecuteLLMCall)

	toolActivities := activities.NewToolActivities(toolRegistry)
	w.RegisterActivity(toolActivities.ExecuteTool)

	// Hook lifecycle engine: loaded once from CodexHome/project layers.
	// Sessions with HooksEnabled=false never call these activities, but the
	// worker still registers them so any session on this task queue can.
	hookActivities := activities.NewHookActivities(buildHookExecutor())
	w.RegisterActivity(hookActivities.EvaluatePreToolUse)
	w.RegisterActivity(hookActivities.RecordPostToolUse)

	// Sub-agent discovery: walks project/user agent directories for
	// Markdown-defined personas. Sessions with SubagentsEnabled=false skip
	// the call entirely (see SessionState.discoverSubagents).
	subagentActivities := activities.NewSubagentActivities()
	w.RegisterActivity(subagentActivities.DiscoverInventory)

	// Rollout persistence: appends conversation items to the session's JSONL
	// rollout file. Sessions with RolloutEnabled=false never call these.
	rolloutActivities := activities.NewRolloutActivities()
	w.RegisterActivity(rolloutActivities.RecordItems)
	w.RegisterActivity(rolloutActivities.Flush)

	// Start worker
	log.Printf("Starting worker on task queue: %s", TaskQueue)
	log.Printf("Temporal server: %s", client.DefaultHostPort)

	err = w.Run(worker.InterruptCh())
	if err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Worker stopped")
}

// buildHookExecutor loads the layered hook configuration (managed, project,
// local-user) from CodexHome, skipping any layer whose file doesn't exist
// rather than hard-erroring like hooks.LoadLayers does for a present-but-bad
// file. Always returns a usable Executor, even with zero configured hooks —
// the built-in dangerous-command guard still applies.
func buildHookExecutor() *hooks.Executor {
	codexHome := os.Getenv("CODEX_HOME")
	if codexHome == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			codexHome = filepath.Join(home, ".codex")
		}
	}

	var sources []hooks.LayerSource
	if codexHome != "" {
		sources = append(sources,
			hooks.LayerSource{Scope: hooks.Scope{Kind: hooks.ScopeManagedPolicy}, Path: filepath.Join(codexHome, "managed-hooks.toml")},
			hooks.LayerSource{Scope: hooks.Scope{Kind: hooks.ScopeLocalUser}, Path: filepath.Join(codexHome, "hooks.toml")},
		)
	}
	if cwd, err := os.Getwd(); err == nil {
		sources = append(sources, hooks.LayerSource{Scope: hooks.Scope{Kind: hooks.ScopeProject}, Path: filepath.Join(cwd, ".codex", "hooks.toml")})
	}

	var present []hooks.LayerSource
	for _, src := range sources {
		if _, err := os.Stat(src.Path); err == nil {
			present = append(present, src)
		}
	}

	var definitions []hooks.Definition
	var summaries []hooks.LayerSummary
	if len(present) > 0 {
		defs, sums, err := hooks.LoadLayers(present)
		if err != nil {
			log.Printf("Failed to load hook config layers, continuing with builtin guard only: %v", err)
		} else {
			definitions, summaries = defs, sums
		}
	}

	registry := hooks.NewRegistry(definitions, summaries)
	runner := activities.NewExecCommandRunner()
	logWriter := hooks.NewLogWriter(hooks.DefaultLogPath(codexHome))
	return hooks.NewExecutor(registry, runner, logWriter)
}
