package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/imamik/tenantflare/internal/util/naming"
)

// WorkerRoute is a routing rule binding a URL pattern to a worker script.
// Routes are never cached locally; they are found again by their pattern,
// which is derived deterministically from the hostname.
type WorkerRoute struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
	Script  string `json:"script"`
}

type createRouteRequest struct {
	Pattern string `json:"pattern"`
	Script  string `json:"script"`
}

// AttachWorkerRoute creates a worker route for the hostname, binding
// {hostname}/* to the configured worker script. Returns the new route ID.
func (c *Client) AttachWorkerRoute(ctx context.Context, hostname string) (string, error) {
	if c.zoneID == "" {
		return "", &ConfigError{Field: "zone ID"}
	}
	if c.workerScript == "" {
		return "", &ConfigError{Field: "worker script name"}
	}

	pattern := naming.RoutePattern(hostname)
	payload := createRouteRequest{Pattern: pattern, Script: c.workerScript}

	var resp apiResponse
	path := fmt.Sprintf("/zones/%s/workers/routes", c.zoneID)
	if err := c.call(ctx, "create_worker_route", http.MethodPost, path, payload, &resp); err != nil {
		return "", fmt.Errorf("create worker route %s: %w", pattern, err)
	}

	var route WorkerRoute
	if err := json.Unmarshal(resp.Result, &route); err != nil {
		return "", fmt.Errorf("parse worker route: %w", err)
	}

	log.Printf("created worker route: %s -> %s", pattern, c.workerScript)
	return route.ID, nil
}

// EnsureWorkerRoute makes sure the hostname's worker route exists, creating
// it when the derived pattern is not present in the zone. Reports whether a
// route was created. Re-adding a domain relies on this to pick up a route
// whose initial attach failed.
func (c *Client) EnsureWorkerRoute(ctx context.Context, hostname string) (bool, error) {
	pattern := naming.RoutePattern(hostname)

	routes, err := c.ListWorkerRoutes(ctx)
	if err != nil {
		return false, fmt.Errorf("list worker routes: %w", err)
	}
	for _, route := range routes {
		if route.Pattern == pattern {
			return false, nil
		}
	}

	if _, err := c.AttachWorkerRoute(ctx, hostname); err != nil {
		return false, err
	}
	return true, nil
}

// DetachWorkerRoute finds and deletes the worker route for the hostname.
// The route is located by scanning the zone's routes for the derived
// pattern; route lists are small so no index is assumed. A missing route is
// not an error: detach is inherently best-effort.
func (c *Client) DetachWorkerRoute(ctx context.Context, hostname string) error {
	if c.zoneID == "" {
		return &ConfigError{Field: "zone ID"}
	}

	pattern := naming.RoutePattern(hostname)

	routes, err := c.ListWorkerRoutes(ctx)
	if err != nil {
		return fmt.Errorf("list worker routes: %w", err)
	}

	for _, route := range routes {
		if route.Pattern != pattern {
			continue
		}
		path := fmt.Sprintf("/zones/%s/workers/routes/%s", c.zoneID, route.ID)
		if err := c.call(ctx, "delete_worker_route", http.MethodDelete, path, nil, nil); err != nil {
			if IsNotFound(err) {
				// Another process deleted it between the scan and the
				// delete. The route is gone either way.
				return nil
			}
			return fmt.Errorf("delete worker route %s: %w", pattern, err)
		}
		log.Printf("deleted worker route: %s", pattern)
		return nil
	}

	log.Printf("worker route not found for pattern: %s", pattern)
	return nil
}

// ListWorkerRoutes returns all worker routes in the zone, following result
// pages when the API reports more than one.
func (c *Client) ListWorkerRoutes(ctx context.Context) ([]WorkerRoute, error) {
	if c.zoneID == "" {
		return nil, &ConfigError{Field: "zone ID"}
	}

	var all []WorkerRoute
	page := 1

	for {
		var resp apiResponse
		path := fmt.Sprintf("/zones/%s/workers/routes?per_page=100&page=%d", c.zoneID, page)
		if err := c.call(ctx, "list_worker_routes", http.MethodGet, path, nil, &resp); err != nil {
			return nil, fmt.Errorf("list worker routes page %d: %w", page, err)
		}

		var routes []WorkerRoute
		if err := json.Unmarshal(resp.Result, &routes); err != nil {
			return nil, fmt.Errorf("parse worker routes: %w", err)
		}
		all = append(all, routes...)

		if page >= resp.ResultInfo.TotalPages {
			break
		}
		page++
	}

	return all, nil
}
