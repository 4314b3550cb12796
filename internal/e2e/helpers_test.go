package e2e

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dynens/internal/allocate"
	"dynens/internal/httpapi"
	"dynens/internal/orchestrator"
	"dynens/internal/sampler"
)

// runSettings builds a small settings map that finishes quickly with the stub
// sampler while still exercising both the initial and the dynamic stage.
func runSettings(baseDir, fileRoot string) map[string]any {
	return map[string]any{
		"base_dir":   baseDir,
		"file_root":  fileRoot,
		"seed":       3,
		"max_ndead":  24,
		"posteriors": true,
	}
}

// newServerForSampler wires an orchestrator to the HTTP mux the way the CLI
// does and returns the test server alongside the orchestrator.
func newServerForSampler(t *testing.T, sam sampler.Sampler, goal float64) (*httptest.Server, *orchestrator.Orchestrator) {
	t.Helper()
	orch := orchestrator.New(orchestrator.Options{
		DynamicGoal:     goal,
		NInit:           2,
		InitStep:        2,
		NLiveConst:      4,
		SmoothingFilter: allocate.MovingAverage(1),
		Sampler:         sam,
	})
	srv := httptest.NewServer(httpapi.NewMux(orch))
	t.Cleanup(srv.Close)
	return srv, orch
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}
