// AngelaMos | 2026
// cloudinary.go

package media

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // G505: upload signature algorithm is fixed by the API
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pakair-dev/pakair-api/internal/config"
	"github.com/pakair-dev/pakair-api/internal/core"
)

// Images are downscaled server-side so oversized captures do not bloat
// storage; videos pass through untouched.
const imageTransformation = "c_limit,h_1200,w_1200"

// CloudinaryClient implements Uploader against the Cloudinary upload API
// using signed requests.
type CloudinaryClient struct {
	cloudName    string
	apiKey       string
	apiSecret    string
	uploadFolder string
	httpClient   *http.Client
	baseURL      string
}

func NewCloudinaryClient(cfg config.MediaConfig) *CloudinaryClient {
	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &CloudinaryClient{
		cloudName:    cfg.CloudName,
		apiKey:       cfg.APIKey,
		apiSecret:    cfg.APISecret,
		uploadFolder: cfg.UploadFolder,
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      "https://api.cloudinary.com/v1_1",
	}
}

// WithBaseURL points the client at a different API host. Tests use it to
// target an httptest server.
func (c *CloudinaryClient) WithBaseURL(baseURL string) *CloudinaryClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type uploadResponse struct {
	SecureURL        string `json:"secure_url"`
	PublicID         string `json:"public_id"`
	OriginalFilename string `json:"original_filename"`
	ResourceType     string `json:"resource_type"`
}

func (c *CloudinaryClient) Upload(
	ctx context.Context,
	file File,
) (*Asset, error) {
	kind, err := ValidateFile(file)
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
		"folder":    c.uploadFolder,
	}
	if kind == KindImage {
		params["transformation"] = imageTransformation
	}
	params["signature"] = c.sign(params)
	params["api_key"] = c.apiKey

	body, contentType, err := buildMultipartBody(file, params)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"%s/%s/%s/upload",
		c.baseURL,
		c.cloudName,
		string(kind),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w: %w", core.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf(
			"upload media: status %d: %s: %w",
			resp.StatusCode,
			strings.TrimSpace(string(detail)),
			core.ErrUpstream,
		)
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", core.ErrUpstream)
	}

	return &Asset{
		URL:      uploaded.SecureURL,
		PublicID: uploaded.PublicID,
		Filename: file.Filename,
		Kind:     kind,
	}, nil
}

func (c *CloudinaryClient) Delete(
	ctx context.Context,
	publicID string,
	kind Kind,
) error {
	params := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
		"public_id": publicID,
	}
	params["signature"] = c.sign(params)
	params["api_key"] = c.apiKey

	form := make([]string, 0, len(params))
	for k, v := range params {
		form = append(form, k+"="+v)
	}

	endpoint := fmt.Sprintf(
		"%s/%s/%s/destroy",
		c.baseURL,
		c.cloudName,
		string(kind),
	)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		strings.NewReader(strings.Join(form, "&")),
	)
	if err != nil {
		return fmt.Errorf("build destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete media: %w: %w", core.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(
			"delete media: status %d: %w",
			resp.StatusCode,
			core.ErrUpstream,
		)
	}

	return nil
}

// sign produces the request signature: sorted key=value pairs joined by "&"
// then SHA-1 hashed with the API secret appended. api_key and signature
// itself are excluded.
func (c *CloudinaryClient) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	//nolint:gosec // G401: signature algorithm is fixed by the API
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

func buildMultipartBody(
	file File,
	params map[string]string,
) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range params {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write form field: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}

	if _, err := part.Write(file.Content); err != nil {
		return nil, "", fmt.Errorf("write file content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
