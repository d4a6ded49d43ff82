package storage

import (
	"context"
	"fmt"
	"io"
)

// Attachment kinds stored per asset.
const (
	KindImage    = "image"
	KindDocument = "document"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Attachments stores per-asset image and document uploads in an object
// store, keyed by asset code. One object per kind per asset; a second
// upload overwrites the first.
type Attachments struct {
	backend ObjectStorage
}

// NewAttachments constructs an Attachments store over the provided backend.
func NewAttachments(backend ObjectStorage) *Attachments {
	return &Attachments{backend: backend}
}

// EnsureBucket ensures the configured bucket exists.
func (a *Attachments) EnsureBucket(ctx context.Context) error {
	return a.backend.EnsureBucket(ctx)
}

// Store uploads an attachment of the given kind for the asset.
func (a *Attachments) Store(ctx context.Context, assetCode, kind string, r io.Reader, size int64, contentType string) error {
	return a.backend.Put(ctx, attachmentKey(assetCode, kind), r, size, contentType)
}

// Open returns a reader for the asset's attachment of the given kind.
func (a *Attachments) Open(ctx context.Context, assetCode, kind string) (io.ReadCloser, error) {
	return a.backend.Get(ctx, attachmentKey(assetCode, kind))
}

// Remove deletes the asset's attachment of the given kind. Missing
// objects are not an error worth surfacing; callers delete
// opportunistically when an asset is removed.
func (a *Attachments) Remove(ctx context.Context, assetCode, kind string) error {
	return a.backend.Delete(ctx, attachmentKey(assetCode, kind))
}

// Bucket returns the configured bucket name.
func (a *Attachments) Bucket() string {
	return a.backend.Bucket()
}

func attachmentKey(assetCode, kind string) string {
	return fmt.Sprintf("assets/%s/%s", assetCode, kind)
}
