package handler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/foldend/foldend/pkg/logging"
	"github.com/foldend/foldend/pkg/registry"
	"github.com/foldend/foldend/pkg/rpcapi"
	"github.com/foldend/foldend/pkg/supervisor"
	"github.com/foldend/foldend/pkg/trace"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	logger := logging.NewLogger(logging.LevelError, &bytes.Buffer{})

	sup := &supervisor.Supervisor{
		Registry: registry.New(filepath.Join(root, "mapping.yml"), 10, trace.New(), logger),
		Trace:    trace.New(),
	}
	return New(sup)
}

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "pipeline.yml")
	document := `
event:
  kinds: [Create]
actions:
  - type: RunCmd
    input: EventFilePath
    command_template: "true"
`
	if err := os.WriteFile(path, []byte(document), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestServerRegisterAndStatus(t *testing.T) {
	server := newTestServer(t)
	root := t.TempDir()
	configPath := writeTestConfig(t, root)

	_, err := server.Register(context.Background(), &rpcapi.RegisterRequest{
		DirectoryPath: root,
		ConfigPath:    configPath,
	})
	if err != nil {
		t.Fatal("unexpected error on Register:", err)
	}

	status, err := server.GetDirectoryStatus(context.Background(), &rpcapi.GetDirectoryStatusRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := status.Summaries[root]; !ok {
		t.Fatal("expected registered directory in status summaries")
	}
}

func TestServerRegisterConflictMapsToStatusError(t *testing.T) {
	server := newTestServer(t)
	root := t.TempDir()
	configPath := writeTestConfig(t, root)

	if _, err := server.Register(context.Background(), &rpcapi.RegisterRequest{DirectoryPath: root, ConfigPath: configPath}); err != nil {
		t.Fatal(err)
	}

	_, err := server.Register(context.Background(), &rpcapi.RegisterRequest{DirectoryPath: root, ConfigPath: configPath})
	if err == nil {
		t.Fatal("expected an error on duplicate registration")
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatal("expected a grpc/status error")
	}
	if st.Code() != codes.AlreadyExists {
		t.Errorf("expected codes.AlreadyExists, got %v", st.Code())
	}
}

func TestServerStartUnknownDirectory(t *testing.T) {
	server := newTestServer(t)

	_, err := server.StartHandler(context.Background(), &rpcapi.StartHandlerRequest{DirectoryPath: "/nope"})
	if err == nil {
		t.Fatal("expected an error starting an unregistered directory")
	}
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		t.Fatalf("expected codes.NotFound, got %v", err)
	}
}

func TestServerModifyPersistsDescription(t *testing.T) {
	server := newTestServer(t)
	root := t.TempDir()
	configPath := writeTestConfig(t, root)

	if _, err := server.Register(context.Background(), &rpcapi.RegisterRequest{DirectoryPath: root, ConfigPath: configPath}); err != nil {
		t.Fatal(err)
	}

	description := "archived intake directory"
	_, err := server.ModifyHandler(context.Background(), &rpcapi.ModifyHandlerRequest{
		DirectoryPath: root,
		Description:   &description,
	})
	if err != nil {
		t.Fatal(err)
	}

	statusResp, err := server.GetDirectoryStatus(context.Background(), &rpcapi.GetDirectoryStatusRequest{DirectoryPath: root})
	if err != nil {
		t.Fatal(err)
	}
	if statusResp.Summaries[root].Description != description {
		t.Errorf("expected description %q, got %q", description, statusResp.Summaries[root].Description)
	}
}
