// Package archicad talks to a running ArchiCAD instance over its JSON
// automation port and dispatches Tapir addon commands through the
// API.ExecuteAddOnCommand envelope.
package archicad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pejotu/archicad-georef/internal/core/domain"
	"github.com/pejotu/archicad-georef/internal/pkg/metrics"
)

const (
	// DefaultAddress is where ArchiCAD listens for automation clients.
	DefaultAddress = "http://127.0.0.1:19723"

	commandNamespace = "TapirCommand"
	versionCommand   = "GetAddOnVersion"
)

// Client implements ports.AddonGateway against the ArchiCAD JSON API.
type Client struct {
	address string
	http    *http.Client
}

// New builds a gateway client. Empty address selects the default local
// automation port; zero timeout selects 30 seconds, long enough for write
// commands that trigger a model rebuild.
func New(address string, timeout time.Duration) *Client {
	if address == "" {
		address = DefaultAddress
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		address: address,
		http:    &http.Client{Timeout: timeout},
	}
}

type commandID struct {
	CommandNamespace string `json:"commandNamespace"`
	CommandName      string `json:"commandName"`
}

type executeRequest struct {
	Command    string         `json:"command"`
	Parameters map[string]any `json:"parameters"`
}

type executeResponse struct {
	Succeeded bool `json:"succeeded"`
	Result    struct {
		AddOnCommandResponse json.RawMessage `json:"addOnCommandResponse"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Execute runs a single Tapir command. Connectivity and protocol failures
// are returned as *domain.CommandError naming the failed command.
func (c *Client) Execute(ctx context.Context, command string, params any) (json.RawMessage, error) {
	start := time.Now()
	raw, err := c.execute(ctx, command, params)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AddonCommandsTotal.WithLabelValues(command, outcome).Inc()
	metrics.AddonCommandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())

	return raw, err
}

func (c *Client) execute(ctx context.Context, command string, params any) (json.RawMessage, error) {
	parameters := map[string]any{
		"addOnCommandId": commandID{
			CommandNamespace: commandNamespace,
			CommandName:      command,
		},
	}
	if params != nil {
		parameters["addOnCommandParameters"] = params
	}

	body, err := json.Marshal(executeRequest{
		Command:    "API.ExecuteAddOnCommand",
		Parameters: parameters,
	})
	if err != nil {
		return nil, &domain.CommandError{Command: command, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.CommandError{Command: command, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.CommandError{
			Command: command,
			Err:     fmt.Errorf("%w (is ArchiCAD running with the JSON API enabled?)", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.CommandError{Command: command, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var envelope executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &domain.CommandError{Command: command, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !envelope.Succeeded {
		msg := "command rejected"
		if envelope.Error != nil {
			msg = fmt.Sprintf("%s (code %d)", envelope.Error.Message, envelope.Error.Code)
		}
		return nil, &domain.CommandError{Command: command, Err: fmt.Errorf("%s", msg)}
	}

	return envelope.Result.AddOnCommandResponse, nil
}

// Check verifies that the Tapir addon is loaded and responding. The error
// text carries install guidance because a missing addon is the most common
// first-run failure.
func (c *Client) Check(ctx context.Context) error {
	if _, err := c.Execute(ctx, versionCommand, nil); err != nil {
		return fmt.Errorf("Tapir addon not available, install it from "+
			"https://github.com/ENZYME-APD/tapir-archicad-automation: %w", err)
	}
	return nil
}
