package cli

import (
	"strings"
	"testing"
)

func TestMCPCommand_Registration(t *testing.T) {
	var found bool
	for _, cmd := range mcpCmd.Commands() {
		if cmd.Name() == "serve" {
			found = true
		}
	}
	if !found {
		t.Error("mcp command missing serve subcommand")
	}
}

func TestMCPServe_RequiresServices(t *testing.T) {
	setupCLI(t)
	Planner = nil

	err := mcpServeCmd.RunE(mcpServeCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("error = %v, want not initialized", err)
	}
}
