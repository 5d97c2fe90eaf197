package acceptance

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testcontainers "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestSimrunnerServiceIntegration builds cmd/simrunner into a real
// container and checks its httpapi surface responds once the run has
// completed, the way the teacher's TestElevatorServiceIntegration built
// and probed its HTTP server in a container.
func TestSimrunnerServiceIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    "../..",
			Dockerfile: "build/package/Dockerfile",
		},
		ExposedPorts: []string{"6660/tcp"},
		Env: map[string]string{
			"ENV":                 "development",
			"LOG_LEVEL":           "WARN",
			"F":                   "10",
			"C":                   "6",
			"N":                   "2",
			"T_VELOCITY":          "0.05",
			"T_ACCEL":             "0.02",
			"T_DOOR":              "0.02",
			"T_DOOR_WAIT":         "0.05",
			"T_PERSON":            "0.01",
			"ARRIVAL_RATE_LAMBDA": "0.5",
			"RANDOM_SEED":         "11",
			"RUN_UNTIL":           "50",
			"PORT":                "6660",
			"METRICS_ENABLED":     "true",
			"WEBSOCKET_ENABLED":   "true",
		},
		WaitingFor: wait.ForHTTP("/v1/health").WithPort("6660/tcp").WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() {
		_ = container.Terminate(ctx)
	}()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6660")
	require.NoError(t, err)

	base := "http://" + host + ":" + port.Port()

	resp, err := http.Get(base + "/v1/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
