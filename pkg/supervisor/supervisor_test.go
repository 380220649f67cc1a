package supervisor

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/foldend/foldend/pkg/daemon"
	"github.com/foldend/foldend/pkg/logging"
)

func TestBootAutoStartsRegisteredHandlers(t *testing.T) {
	root := t.TempDir()
	watched := filepath.Join(root, "watched")
	if err := os.MkdirAll(watched, 0755); err != nil {
		t.Fatal(err)
	}

	pipelinePath := filepath.Join(root, "pipeline.yml")
	pipelineDocument := `
event:
  kinds: [Create]
actions:
  - type: RunCmd
    input: EventFilePath
    command_template: "true"
`
	if err := os.WriteFile(pipelinePath, []byte(pipelineDocument), 0644); err != nil {
		t.Fatal(err)
	}

	mappingPath := filepath.Join(root, "mapping.yml")
	mappingDocument := `
directories:
  ` + watched + `:
    config_path: ` + pipelinePath + `
    auto_start: true
    description: ""
`
	if err := os.WriteFile(mappingPath, []byte(mappingDocument), 0644); err != nil {
		t.Fatal(err)
	}

	logger := logging.NewLogger(logging.LevelError, &bytes.Buffer{})
	configPath := filepath.Join(root, "config.yml")

	config, err := daemon.LoadConfig(configPath, mappingPath, filepath.Join(root, "trace.log"), logger)
	if err != nil {
		t.Fatal("unexpected config load error:", err)
	}

	sup, err := Boot(config, logger)
	if err != nil {
		t.Fatal("unexpected boot error:", err)
	}
	defer sup.Shutdown()

	time.Sleep(50 * time.Millisecond)

	summaries, err := sup.Registry.Summary(watched)
	if err != nil {
		t.Fatal(err)
	}
	if !summaries[watched].IsAlive {
		t.Error("expected the auto_start entry to be alive after boot")
	}
}
