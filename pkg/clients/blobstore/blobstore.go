package blobstore

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/mamadbah2/autovalue/internal/config"
)

// Store exposes the blob operations used for car photos.
type Store interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
}

// BlobStore is an Azure Blob Storage backed implementation of Store.
type BlobStore struct {
	client    *azblob.Client
	container string
}

// New builds a blob store client from an Azure storage connection string.
// No network call is made until the first upload.
func New(cfg config.StorageConfig) (*BlobStore, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob service client: %w", err)
	}

	return &BlobStore{
		client:    client,
		container: cfg.ContainerName,
	}, nil
}

// Upload writes the blob in a single shot and returns its public URL. The
// caller is expected to make the name collision-free (a uuid prefix), so an
// existing blob is never silently overwritten in practice.
func (s *BlobStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if _, err := s.client.UploadBuffer(ctx, s.container, name, data, nil); err != nil {
		return "", fmt.Errorf("upload blob %s: %w", name, err)
	}

	url := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(name).URL()
	return url, nil
}

// Delete removes a previously uploaded blob. Used as the compensating step
// when the estimate pipeline fails after the image upload succeeded.
func (s *BlobStore) Delete(ctx context.Context, name string) error {
	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		return fmt.Errorf("delete blob %s: %w", name, err)
	}
	return nil
}
