// Package vertex implements an image provider backed by the Google Vertex AI
// Imagen predict endpoint.
package vertex

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/phatcz/TiktokClipGenerator/internal/fileutil"
	"github.com/phatcz/TiktokClipGenerator/internal/providers"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
)

const (
	name            = "vertex"
	defaultModel    = "imagen-3.0-generate-001"
	defaultLocation = "us-central1"
)

// Options configure the Vertex image provider. APIKey and ProjectID are
// required. HTTPClient overrides the oauth2-derived client in tests.
type Options struct {
	APIKey     string
	ProjectID  string
	Location   string
	OutputDir  string
	Timeout    time.Duration
	HTTPClient *http.Client

	// BaseURL overrides the computed regional endpoint in tests.
	BaseURL string
}

// ImageProvider calls the Imagen predict API and writes decoded image bytes
// under OutputDir.
type ImageProvider struct {
	opts   Options
	client *http.Client
}

// NewImageProvider validates credentials and builds the authenticated HTTP
// client. Missing credentials fail with an authentication marker so the
// registry's fallback chain can continue.
func NewImageProvider(opts Options) (*ImageProvider, error) {
	if strings.TrimSpace(opts.APIKey) == "" || strings.TrimSpace(opts.ProjectID) == "" {
		return nil, services.Wrap(services.ErrAuthentication, "providers", "vertex",
			"VERTEX_API_KEY and VERTEX_PROJECT_ID must be set", nil)
	}
	if strings.TrimSpace(opts.Location) == "" {
		opts.Location = defaultLocation
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	client := opts.HTTPClient
	if client == nil {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.APIKey})
		client = oauth2.NewClient(context.Background(), source)
		client.Timeout = opts.Timeout
	}

	return &ImageProvider{opts: opts, client: client}, nil
}

func (*ImageProvider) Name() string { return name }

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount       int    `json:"sampleCount"`
	AspectRatio       string `json:"aspectRatio"`
	SafetyFilterLevel string `json:"safetyFilterLevel"`
	PersonGeneration  string `json:"personGeneration"`
	Quality           string `json:"quality,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		GCSURI             string `json:"gcsUri"`
	} `json:"predictions"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateImage issues one predict call. HTTP status codes are normalized to
// the shared error taxonomy: 401/403 authentication, 429 quota, 504 timeout.
func (p *ImageProvider) GenerateImage(ctx context.Context, req providers.ImageRequest) (providers.ImageResult, error) {
	payload := predictRequest{
		Instances: []predictInstance{{Prompt: req.Prompt}},
		Parameters: predictParameters{
			SampleCount:       1,
			AspectRatio:       mapAspectRatio(req.AspectRatio),
			SafetyFilterLevel: "block_some",
			PersonGeneration:  "allow_all",
		},
	}
	if req.Quality == "hd" {
		payload.Parameters.Quality = "hd"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.ImageResult{}, services.Wrap(services.ErrValidation, "providers", "vertex", "encode predict request", err)
	}

	response, err := p.post(ctx, p.endpoint(), body)
	if err != nil {
		return providers.ImageResult{}, p.normalizeTransportError(err)
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return providers.ImageResult{}, services.Wrap(services.ErrAuthentication, "providers", "vertex",
			"invalid API key or insufficient permissions", nil)
	case http.StatusTooManyRequests:
		return providers.ImageResult{}, services.Wrap(services.ErrQuotaExceeded, "providers", "vertex",
			"rate limit or quota exceeded", nil)
	case http.StatusGatewayTimeout:
		return providers.ImageResult{}, services.Wrap(services.ErrTimeout, "providers", "vertex",
			"predict request timed out", nil)
	case http.StatusBadRequest:
		return providers.ImageResult{}, services.Wrap(services.ErrValidation, "providers", "vertex",
			readErrorMessage(response.Body, response.StatusCode), nil)
	default:
		return providers.ImageResult{}, services.Wrap(services.ErrProviderFailure, "providers", "vertex",
			readErrorMessage(response.Body, response.StatusCode), nil)
	}

	var decoded predictResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return providers.ImageResult{}, services.Wrap(services.ErrProviderFailure, "providers", "vertex", "decode predict response", err)
	}
	if len(decoded.Predictions) == 0 {
		return providers.ImageResult{}, services.Wrap(services.ErrProviderFailure, "providers", "vertex", "empty predictions", nil)
	}

	prediction := decoded.Predictions[0]
	result := providers.ImageResult{
		Metadata: map[string]string{
			"provider": name,
			"model":    defaultModel,
			"prompt":   req.Prompt,
		},
	}

	switch {
	case prediction.BytesBase64Encoded != "":
		imageBytes, err := base64.StdEncoding.DecodeString(prediction.BytesBase64Encoded)
		if err != nil {
			return providers.ImageResult{}, services.Wrap(services.ErrProviderFailure, "providers", "vertex", "decode image bytes", err)
		}
		path := filepath.Join(p.opts.OutputDir, fileutil.KeyframeFileName("vertex_image"))
		if err := fileutil.WriteFileAtomic(path, imageBytes, 0o644); err != nil {
			return providers.ImageResult{}, services.Wrap(services.ErrProviderFailure, "providers", "vertex", "write image file", err)
		}
		result.ImagePath = path
	case prediction.GCSURI != "":
		result.ImageURL = prediction.GCSURI
	default:
		return providers.ImageResult{}, services.Wrap(services.ErrProviderFailure, "providers", "vertex", "response missing image data", nil)
	}

	return result, nil
}

func (p *ImageProvider) endpoint() string {
	if p.opts.BaseURL != "" {
		return p.opts.BaseURL
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		p.opts.Location, p.opts.ProjectID, p.opts.Location, defaultModel)
}

func (p *ImageProvider) post(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	return p.client.Do(request)
}

func (p *ImageProvider) normalizeTransportError(err error) error {
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
		return services.Wrap(services.ErrTimeout, "providers", "vertex", "predict request timed out", err)
	}
	return services.Wrap(services.ErrProviderFailure, "providers", "vertex", "predict request failed", err)
}

func readErrorMessage(r io.Reader, status int) string {
	var decoded predictResponse
	if err := json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&decoded); err == nil {
		if decoded.Error != nil && decoded.Error.Message != "" {
			return decoded.Error.Message
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

func mapAspectRatio(ratio string) string {
	switch ratio {
	case "1:1", "9:16", "16:9", "3:4", "4:3":
		return ratio
	default:
		return "1:1"
	}
}
