package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"loan-approval-metrics/internal/pkg/config"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type GCSClient struct {
	Client     *storage.Client
	BucketName string
	FolderName string
}

func NewGCSClient(ctx context.Context, cfg config.GCSConfig, opts ...option.ClientOption) (*GCSClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSClient{
		Client:     client,
		BucketName: cfg.BucketName,
		FolderName: cfg.FolderName,
	}, nil
}

func (g *GCSClient) Close() error {
	if g.Client == nil {
		return nil
	}
	if err := g.Client.Close(); err != nil {
		logger.Error(log_messages.ErrorClosingGCSClient, err)
		return err
	}
	logger.Info(log_messages.GCSClientClosedSuccessfully)
	return nil
}

// Upload streams the local file to <folder>/<objectName>. Existing objects are
// never overwritten.
func (g *GCSClient) Upload(ctx context.Context, localFilePath, objectName string) error {
	file, err := os.Open(localFilePath)
	if err != nil {
		return fmt.Errorf("failed to open report file: %w", err)
	}
	defer file.Close()

	objectPath := path.Join(g.FolderName, objectName)
	object := g.Client.Bucket(g.BucketName).Object(objectPath)

	writer := object.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = "text/csv"

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		logger.CtxError(ctx, log_messages.ErrorUploadingToGCSBucket, err, zap.String("objectName", objectPath))
		return fmt.Errorf("failed to copy file to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSWriter, err, zap.String("objectName", objectPath))
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}

	logger.CtxInfo(ctx, log_messages.ReportUploadedToGCSBucket,
		zap.String("bucket", g.BucketName),
		zap.String("objectName", objectPath),
	)
	return nil
}
