package launcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"termite/pkg/launch"
)

// Docker runs the tool in an ephemeral container, for hosts where it is
// not installed locally. The working directory is bind-mounted into the
// container at the same path so relative object paths keep working.
type Docker struct {
	client *client.Client
	image  string
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewDocker creates a container-based launcher using the given image.
func NewDocker(dockerClient *client.Client, image string, logger *log.Logger) *Docker {
	if logger == nil {
		logger = log.New(os.Stderr, "[termite] ", log.LstdFlags|log.Lmsgprefix)
	}
	return &Docker{
		client: dockerClient,
		image:  image,
		logger: logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetIO redirects the container's output streams.
func (d *Docker) SetIO(stdout, stderr io.Writer) {
	d.stdout = stdout
	d.stderr = stderr
}

// Launch creates, runs, and removes a container executing the tool.
func (d *Docker) Launch(ctx context.Context, req *launch.Request) (*launch.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid launch request: %w", err)
	}
	if d.image == "" {
		return nil, fmt.Errorf("docker launch requires an image (set docker.image in the config)")
	}

	d.logger.Printf("docker launch: %s %v in %s (dir=%s)", req.Tool, req.Args, d.image, req.Dir)

	containerConfig := &container.Config{
		Image:      d.image,
		Cmd:        append([]string{req.Tool}, req.Args...),
		WorkingDir: req.Dir,
		Env:        req.Env,
	}

	hostConfig := &container.HostConfig{
		Binds: []string{
			// Mount the working directory at its own path
			req.Dir + ":" + req.Dir,
		},
	}

	start := time.Now()

	resp, err := d.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}

	defer func() {
		removeCtx := context.Background()
		d.client.ContainerRemove(removeCtx, resp.ID, container.RemoveOptions{Force: true})
	}()

	// Attach before starting so no output is lost
	attachResp, err := d.client.ContainerAttach(ctx, resp.ID, container.AttachOptions{
		Stream: true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("attach container: %w", err)
	}
	defer attachResp.Close()

	if err := d.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	streamDone := make(chan error, 1)
	go func() {
		// Demultiplex the docker stream onto our stdout/stderr
		_, err := stdcopy.StdCopy(d.stdout, d.stderr, attachResp.Reader)
		streamDone <- err
	}()

	statusCh, errCh := d.client.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("wait for container: %w", err)
		}
		return nil, fmt.Errorf("wait for container: no status")
	case status := <-statusCh:
		if err := <-streamDone; err != nil {
			d.logger.Printf("stream error: %v", err)
		}
		return &launch.Result{
			ExitCode: int(status.StatusCode),
			Duration: time.Since(start),
		}, nil
	case <-ctx.Done():
		d.client.ContainerKill(context.Background(), resp.ID, "SIGKILL")
		return nil, ctx.Err()
	}
}
