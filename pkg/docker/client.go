// pkg/docker/client.go

package docker

import (
	"context"
	"time"

	"github.com/docker/docker/client"
)

const pingTimeout = 5 * time.Second

// New establishes a Docker client from environment configuration with API
// version negotiation enabled.
func New() (*client.Client, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// Ping validates connectivity with the Docker daemon within a short timeout
// window. Used as the post-enable verification that the runtime is actually
// serving its API, not just that systemd reports it started.
func Ping(ctx context.Context) error {
	cli, err := New()
	if err != nil {
		return err
	}
	defer cli.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err = cli.Ping(pingCtx)
	return err
}
