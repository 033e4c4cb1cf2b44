// Package storage provides external blob storage for post images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"parley/internal/observability"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// UploadResult holds the provider handle and the durable public links for an
// uploaded blob. The links are persisted alongside the post, so they must be
// valid for the lifetime of the image record.
type UploadResult struct {
	ExternalID   string
	ViewLink     string
	DownloadLink string
}

// BlobStore is the interface for uploading and releasing post image blobs.
type BlobStore interface {
	Upload(ctx context.Context, name, contentType string, content io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, externalID string) error
}

// DriveStore stores blobs in Google Drive. Uploaded files are made readable
// by anyone with the link so the view/download links work without auth.
type DriveStore struct {
	svc        *drive.Service
	maxRetries uint
	logger     *observability.BlobLogger
}

// NewDriveStore builds a DriveStore from a service account credentials file.
func NewDriveStore(ctx context.Context, credentialsFile string, maxRetries int) (*DriveStore, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveStore{
		svc:        svc,
		maxRetries: uint(maxRetries),
		logger:     observability.NewBlobLogger("google_drive"),
	}, nil
}

// UniqueName prefixes the original filename with a UUID so concurrent uploads
// of the same filename never collide.
func UniqueName(original string) string {
	return uuid.NewString() + "_" + original
}

// isRetryable reports whether a Drive API error is worth retrying. Rate
// limits and server-side failures are transient; 4xx responses other than
// 429 will fail the same way on every attempt.
func isRetryable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		return err
	}
	return backoff.Permanent(err)
}

func (s *DriveStore) retryOptions() []backoff.RetryOption {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	return []backoff.RetryOption{
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(s.maxRetries),
	}
}

// Upload creates the file, grants anyone-with-link read access, and returns
// the provider handle with the public links. Content is buffered so each
// retry attempt re-reads from the start.
func (s *DriveStore) Upload(ctx context.Context, name, contentType string, content io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}

	attempts := 0
	file, err := backoff.Retry(ctx, func() (*drive.File, error) {
		attempts++
		f, callErr := s.svc.Files.Create(&drive.File{Name: name, MimeType: contentType}).
			Media(newSeekReader(data)).
			Fields("id, webViewLink, webContentLink").
			Context(ctx).
			Do()
		return f, classify(callErr)
	}, s.retryOptions()...)
	s.logger.LogOperation(ctx, "upload", attempts, err)
	if err != nil {
		observability.RecordBlobOperation("upload", "failure")
		return nil, fmt.Errorf("drive upload failed: %w", err)
	}

	attempts = 0
	_, err = backoff.Retry(ctx, func() (*drive.Permission, error) {
		attempts++
		p, callErr := s.svc.Permissions.Create(file.Id, &drive.Permission{
			Role: "reader",
			Type: "anyone",
		}).Context(ctx).Do()
		return p, classify(callErr)
	}, s.retryOptions()...)
	s.logger.LogOperation(ctx, "share", attempts, err)
	if err != nil {
		// The blob exists but is not publicly readable; remove it so no
		// orphan accumulates on the provider side.
		if delErr := s.Delete(ctx, file.Id); delErr != nil {
			s.logger.LogOperation(ctx, "share_cleanup", 1, delErr)
		}
		observability.RecordBlobOperation("upload", "failure")
		return nil, fmt.Errorf("drive permission grant failed: %w", err)
	}

	observability.RecordBlobOperation("upload", "success")
	return &UploadResult{
		ExternalID:   file.Id,
		ViewLink:     file.WebViewLink,
		DownloadLink: file.WebContentLink,
	}, nil
}

// Delete removes the blob from the provider. A 404 is treated as success so
// releasing an already-gone blob is idempotent.
func (s *DriveStore) Delete(ctx context.Context, externalID string) error {
	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		callErr := s.svc.Files.Delete(externalID).Context(ctx).Do()
		var apiErr *googleapi.Error
		if errors.As(callErr, &apiErr) && apiErr.Code == 404 {
			callErr = nil
		}
		return struct{}{}, classify(callErr)
	}, s.retryOptions()...)
	s.logger.LogOperation(ctx, "delete", attempts, err)
	if err != nil {
		observability.RecordBlobOperation("delete", "failure")
		return fmt.Errorf("drive delete failed: %w", err)
	}
	observability.RecordBlobOperation("delete", "success")
	return nil
}

type seekReader struct {
	data []byte
	off  int
}

func newSeekReader(data []byte) *seekReader {
	return &seekReader{data: data}
}

func (r *seekReader) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}
