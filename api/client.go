// Package api - HTTP-Client fuer den Detektions-Service.
// Dieses Modul enthaelt die Client-Struktur und Basis-Methoden.
// Die Methoden des [Client] entsprechen der REST API des Servers;
// die CLI benutzt dieses Package fuer alle Server-Aufrufe.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"

	"github.com/linyu92/sd-webui-segment-anything/envconfig"
	"github.com/linyu92/sd-webui-segment-anything/version"
)

// Client kapselt den Zustand fuer die Kommunikation mit dem
// Detektions-Server. Mit [ClientFromEnvironment] erstellen.
type Client struct {
	base *url.URL
	http *http.Client
}

func checkError(resp *http.Response, body []byte) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	apiError := StatusError{StatusCode: resp.StatusCode}

	err := json.Unmarshal(body, &apiError)
	if err != nil {
		// Use the full body as the message if we fail to decode a response.
		apiError.ErrorMessage = string(body)
	}

	return apiError
}

// ClientFromEnvironment erstellt einen neuen [Client] aus der
// Environment-Variable DINO_HOST (<scheme>://<host>:<port>).
// Ohne gesetzte Variable wird der Default-Host verwendet.
func ClientFromEnvironment() (*Client, error) {
	return &Client{
		base: envconfig.Host(),
		http: http.DefaultClient,
	}, nil
}

// NewClient erstellt einen Client mit expliziter Basis-URL
func NewClient(base *url.URL, http *http.Client) *Client {
	return &Client{
		base: base,
		http: http,
	}
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	var reqBody io.Reader
	var data []byte
	var err error

	switch reqData := reqData.(type) {
	case io.Reader:
		// reqData is already an io.Reader
		reqBody = reqData
	case nil:
		// noop
	default:
		data, err = json.Marshal(reqData)
		if err != nil {
			return err
		}

		reqBody = bytes.NewReader(data)
	}

	requestURL := c.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reqBody)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", fmt.Sprintf("sd-dino/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version()))

	respObj, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer respObj.Body.Close()

	respBody, err := io.ReadAll(respObj.Body)
	if err != nil {
		return err
	}

	if err := checkError(respObj, respBody); err != nil {
		return err
	}

	if len(respBody) > 0 && respData != nil {
		if err := json.Unmarshal(respBody, respData); err != nil {
			return err
		}
	}
	return nil
}

// Detect fuehrt eine Objekt-Detektion auf dem Server aus
func (c *Client) Detect(ctx context.Context, req *DetectRequest) (*DetectResponse, error) {
	var resp DetectResponse
	if err := c.do(ctx, http.MethodPost, "/api/detect", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Draw rendert Boxen in eine Kopie des Bildes
func (c *Client) Draw(ctx context.Context, req *DrawRequest) (*DrawResponse, error) {
	var resp DrawResponse
	if err := c.do(ctx, http.MethodPost, "/api/draw", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List listet alle registrierten Modelle samt Download-Status
func (c *Client) List(ctx context.Context) (*ListResponse, error) {
	var resp ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Pull laedt den Checkpoint eines Modells herunter.
// Der Aufruf blockiert bis der Download abgeschlossen ist.
func (c *Client) Pull(ctx context.Context, req *PullRequest) (*ProgressResponse, error) {
	var resp ProgressResponse
	if err := c.do(ctx, http.MethodPost, "/api/pull", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearCache entlaedt das gecachte Modell und gibt Speicher frei
func (c *Client) ClearCache(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cache", nil, nil)
}

// Version gibt die Server-Version zurueck
func (c *Client) Version(ctx context.Context) (string, error) {
	var version struct {
		Version string `json:"version"`
	}

	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &version); err != nil {
		return "", err
	}

	return version.Version, nil
}
