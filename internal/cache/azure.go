package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// BlobCache stores each key as a block blob in one container.
type BlobCache struct {
	client    *azblob.Client
	container string
}

var _ Cache = (*BlobCache)(nil)

// NewBlobCache uses the shared key when one is given and falls back to the
// default Azure credential chain (managed identity, az login, env) otherwise.
func NewBlobCache(account, key, container string) (*BlobCache, error) {
	if account == "" {
		return nil, errors.New("azure storage account is required")
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)

	var (
		client *azblob.Client
		err    error
	)
	if key != "" {
		cred, credErr := azblob.NewSharedKeyCredential(account, key)
		if credErr != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", credErr)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	} else {
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", credErr)
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobCache{
		client:    client,
		container: container,
	}, nil
}

// EnsureContainer creates the container if it does not exist yet.
func (bc *BlobCache) EnsureContainer(ctx context.Context) error {
	_, err := bc.client.CreateContainer(ctx, bc.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("failed to create container %s: %w", bc.container, err)
	}
	return nil
}

func (bc *BlobCache) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	stream, err := bc.client.DownloadStream(ctx, bc.container, key, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		slog.ErrorContext(ctx, "failed to download blob", "key", key, "error", err)
		return nil, err
	}
	return stream.Body, nil
}

func (bc *BlobCache) Exists(ctx context.Context, key string) (bool, error) {
	blobClient := bc.client.ServiceClient().NewContainerClient(bc.container).NewBlobClient(key)
	if _, err := blobClient.GetProperties(ctx, nil); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (bc *BlobCache) Put(ctx context.Context, key, value string) error {
	_, err := bc.client.UploadBuffer(ctx, bc.container, key, []byte(value), nil)
	return err
}

func isNotFound(err error) bool {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return true
	}
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
