package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/outreach-forge/internal/clipboard"
	"github.com/jonathan/outreach-forge/internal/llm"
	"github.com/stretchr/testify/require"
)

const validPayload = `{"subject":"Docs automation at Acme","email":"Hi team,\n\nI built an Adaptive AI documentation platform.","strategyNote":"Hook on docs","followUp3Day":"A short write-up","followUp7Day":"One last idea"}`

type stubClient struct {
	mu      sync.Mutex
	payload string
	err     error
	prompts []string
	apiKey  string
}

func (s *stubClient) GenerateJSON(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.payload, s.err
}

func (s *stubClient) Model() string { return "stub-model" }
func (s *stubClient) Close() error  { return nil }

type recordingClipboard struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingClipboard) WriteText(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return nil
}

// stubCLI swaps the model client and clipboard for the duration of a test.
func stubCLI(t *testing.T, client *stubClient) *recordingClipboard {
	t.Helper()
	board := &recordingClipboard{}

	prevClient, prevBoard, prevDelay, prevInteractive := newLLMClient, clipboardWriter, copyDelay, isInteractive
	newLLMClient = func(_ context.Context, apiKey string) (llm.Client, error) {
		client.apiKey = apiKey
		return client, nil
	}
	clipboardWriter = board
	copyDelay = 10 * time.Millisecond
	isInteractive = func() bool { return false }
	t.Cleanup(func() {
		newLLMClient, clipboardWriter, copyDelay, isInteractive = prevClient, prevBoard, prevDelay, prevInteractive
	})
	return board
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

var _ clipboard.Writer = (*recordingClipboard)(nil)
