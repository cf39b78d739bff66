// Package status exposes a running monitor over HTTP: a Connect RPC that
// returns its status, a JSON view of the same, health and readiness checks,
// and Prometheus metrics.
package status

import (
	"context"
	"fmt"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/listmonitor/monitor"
)

// GetStatusProcedure is the full Connect procedure name of the status RPC.
const GetStatusProcedure = "/listmonitor.v1.StatusService/GetStatus"

// Provider reports monitor status. *monitor.Monitor satisfies it.
type Provider interface {
	Status() monitor.Status
}

// ChangeLog reports recent change notifications, oldest first.
type ChangeLog interface {
	Changes() []monitor.Notification
}

// NewHandler returns the Connect handler for GetStatusProcedure.
func NewHandler(p Provider, opts ...connect.HandlerOption) *connect.Handler {
	return connect.NewUnaryHandler(
		GetStatusProcedure,
		func(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
			msg, err := structpb.NewStruct(Map(p.Status()))
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			return connect.NewResponse(msg), nil
		},
		opts...,
	)
}

// Map renders s with JSON-compatible values: durations and times become
// strings, and zero times are omitted.
func Map(s monitor.Status) map[string]any {
	m := map[string]any{
		"source":   s.Source,
		"running":  s.Running,
		"interval": s.Interval.String(),
		"cycles":   s.Cycles,
		"changes":  s.Changes,
		"entries":  s.Entries,
		"last_change": map[string]any{
			"added":    s.LastChange.Added,
			"removed":  s.LastChange.Removed,
			"modified": s.LastChange.Modified,
		},
	}
	if s.LastCycleID != "" {
		m["last_cycle_id"] = s.LastCycleID
	}
	if s.LastOutcome != "" {
		m["last_outcome"] = string(s.LastOutcome)
	}
	if !s.LastCycleAt.IsZero() {
		m["last_cycle_at"] = s.LastCycleAt.UTC().Format(time.RFC3339Nano)
	}
	if !s.LastChangeAt.IsZero() {
		m["last_change_at"] = s.LastChangeAt.UTC().Format(time.RFC3339Nano)
	}
	if s.LastError != "" {
		m["last_error"] = s.LastError
	}
	return m
}

// Client calls the status RPC of a remote instance.
type Client struct {
	client *connect.Client[emptypb.Empty, structpb.Struct]
}

// NewClient creates a Client for the instance at baseURL
// ("http://localhost:9090").
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		client: connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+GetStatusProcedure, opts...),
	}
}

// GetStatus returns the remote status as decoded JSON values. Numbers are
// float64.
func (c *Client) GetStatus(ctx context.Context) (map[string]any, error) {
	resp, err := c.client.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	return resp.Msg.AsMap(), nil
}
