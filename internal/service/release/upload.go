package release

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/davedittrich/ocd/internal/logger"
)

var (
	// errNoUpdateFolder is returned when no upload destination is configured.
	errNoUpdateFolder = errors.New("update folder URL is not configured")
	// errBadHTTPStatus is returned for non-2xx responses from the endpoint.
	errBadHTTPStatus = errors.New("unexpected http status")
)

// verifyEndpoint checks the update folder is configured and answering before
// any artifact leaves the machine.
func (s *service) verifyEndpoint(ctx context.Context) error {
	if s.cfg.UpdateFolder == "" {
		return errNoUpdateFolder
	}

	requestCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodHead, s.cfg.UpdateFolder, http.NoBody)
	if err != nil {
		return err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("reach update folder: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	// A PUT-only folder may answer HEAD on the folder itself with 404 or
	// 405, so those do not fail verification. Authorization failures and
	// server errors mean no upload can succeed.
	switch {
	case response.StatusCode == http.StatusUnauthorized,
		response.StatusCode == http.StatusForbidden,
		response.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s, %s: %w", s.cfg.UpdateFolder, response.Status, errBadHTTPStatus)
	}

	logger.InfoKV(ctx, "Verified upload endpoint", "url", s.cfg.UpdateFolder)

	return nil
}

// uploadArtifacts publishes every file under the dist directory.
func (s *service) uploadArtifacts(ctx context.Context) error {
	entries, err := os.ReadDir(s.cfg.DistDir)
	if err != nil {
		return fmt.Errorf("read dist directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if err = s.uploadFile(ctx, entry.Name()); err != nil {
			return err
		}
	}

	return nil
}

// uploadFile PUTs a single artifact to the update folder.
func (s *service) uploadFile(ctx context.Context, name string) error {
	endpoint, err := url.Parse(s.cfg.UpdateFolder)
	if err != nil {
		return err
	}

	// path.Join normalizes duplicate slashes when composing the URL path.
	endpoint.Path = path.Join(endpoint.Path, name)
	finalURL := endpoint.String()

	contents, err := os.Open(filepath.Clean(filepath.Join(s.cfg.DistDir, name)))
	if err != nil {
		return err
	}

	defer func() {
		_ = contents.Close()
	}()

	requestCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPut, finalURL, contents)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/octet-stream")

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s, %s: %w", finalURL, response.Status, errBadHTTPStatus)
	}

	logger.InfoKV(ctx, "Uploaded artifact", "file", name, "url", finalURL)

	return nil
}

// removeDist deletes the dist directory after publication, regardless of
// what it contains.
func (s *service) removeDist(ctx context.Context) error {
	if err := os.RemoveAll(s.cfg.DistDir); err != nil {
		return fmt.Errorf("remove dist directory: %w", err)
	}

	logger.InfoKV(ctx, "Removed dist directory", "path", s.cfg.DistDir)

	return nil
}
