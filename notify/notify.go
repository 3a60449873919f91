// Package notify sends push notifications through the LINE Notify API.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// TokenEnv is the environment variable consulted when no token is passed
// explicitly.
const TokenEnv = "LINE_NOTIFY_TOKEN"

const apiURL = "https://notify-api.line.me/api/notify"

// ErrNoToken is returned when neither the options nor the environment
// provide an access token.
var ErrNoToken = errors.New("notify: no token; set " + TokenEnv + " or Options.Token")

// Options configures a notification.
type Options struct {
	// Token is the LINE Notify access token. Defaults to the TokenEnv
	// environment variable.
	Token string

	// ImageFile, when set, attaches the image at this path.
	ImageFile string

	// Client overrides the HTTP client, primarily for tests.
	Client *http.Client
}

func (o Options) token() (string, error) {
	if o.Token != "" {
		return o.Token, nil
	}
	if token := os.Getenv(TokenEnv); token != "" {
		return token, nil
	}
	return "", ErrNoToken
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return http.DefaultClient
}

// Send posts message through LINE Notify. With Options.ImageFile set, the
// image is attached as a multipart upload. Non-2xx responses are returned
// as errors carrying the response body.
func Send(ctx context.Context, message string, opts Options) error {
	token, err := opts.token()
	if err != nil {
		return err
	}

	var body io.Reader
	contentType := ""
	if opts.ImageFile != "" {
		body, contentType, err = multipartBody(message, opts.ImageFile)
		if err != nil {
			return err
		}
	} else {
		form := url.Values{"message": {message}}
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, body)
	if err != nil {
		return fmt.Errorf("notify: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := opts.client().Do(req)
	if err != nil {
		return fmt.Errorf("notify: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notify: api returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}

// multipartBody builds a multipart form carrying the message and the image.
func multipartBody(message, imageFile string) (io.Reader, string, error) {
	image, err := os.ReadFile(imageFile)
	if err != nil {
		return nil, "", fmt.Errorf("notify: failed to read image %s: %w", imageFile, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("message", message); err != nil {
		return nil, "", fmt.Errorf("notify: failed to encode message: %w", err)
	}
	part, err := writer.CreateFormFile("imageFile", filepath.Base(imageFile))
	if err != nil {
		return nil, "", fmt.Errorf("notify: failed to encode image: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("notify: failed to encode image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("notify: failed to finish form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
