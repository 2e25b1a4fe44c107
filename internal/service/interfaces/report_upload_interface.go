package interfaces

import "context"

type GcsInterface interface {
	Upload(ctx context.Context, localFilePath, objectName string) error
	Close() error
}

type SFTPUploaderInterface interface {
	Upload(ctx context.Context, localFilePath, remoteFileName string) error
	Close() error
}
