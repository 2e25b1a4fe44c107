package sftp

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strconv"

	"loan-approval-metrics/internal/pkg/config"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// RemoteFS is the part of an SFTP session the uploader needs.
type RemoteFS interface {
	MkdirAll(dir string) error
	Create(remotePath string) (io.WriteCloser, error)
	Close() error
}

// Dialer opens a new RemoteFS session.
type Dialer func(ctx context.Context, cfg config.SFTPConfig) (RemoteFS, error)

type Uploader struct {
	cfg  config.SFTPConfig
	dial Dialer
}

func NewUploader(cfg config.SFTPConfig) *Uploader {
	return NewUploaderWithDialer(cfg, DialSSH)
}

func NewUploaderWithDialer(cfg config.SFTPConfig, dial Dialer) *Uploader {
	return &Uploader{cfg: cfg, dial: dial}
}

// Upload copies the local file into the configured remote directory. A new
// session is opened for every upload and closed before returning.
func (u *Uploader) Upload(ctx context.Context, localFilePath, remoteFileName string) error {
	localFile, err := os.Open(localFilePath)
	if err != nil {
		return fmt.Errorf("could not open local file: %w", err)
	}
	defer localFile.Close()

	fs, err := u.dial(ctx, u.cfg)
	if err != nil {
		return err
	}
	defer fs.Close()

	if err := fs.MkdirAll(u.cfg.RemoteDir); err != nil {
		return fmt.Errorf("failed to create directory on SFTP server: %w", err)
	}

	remotePath := path.Join(u.cfg.RemoteDir, remoteFileName)
	remoteFile, err := fs.Create(remotePath)
	if err != nil {
		return fmt.Errorf("could not create remote file: %w", err)
	}

	if _, err := io.Copy(remoteFile, localFile); err != nil {
		_ = remoteFile.Close()
		return fmt.Errorf("could not upload file to SFTP server: %w", err)
	}
	if err := remoteFile.Close(); err != nil {
		return fmt.Errorf("could not close remote file: %w", err)
	}

	logger.CtxInfo(ctx, log_messages.ReportUploadedToSFTP,
		zap.String("host", u.cfg.Host),
		zap.String("remotePath", remotePath),
	)
	return nil
}

// Close exists so the uploader can be released with the other resources.
// Sessions are per upload, so there is nothing to release.
func (u *Uploader) Close() error {
	return nil
}

// DialSSH connects with password auth and opens an SFTP session on top.
func DialSSH(ctx context.Context, cfg config.SFTPConfig) (RemoteFS, error) {
	sshConfig := &ssh.ClientConfig{
		User: cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
		},
		// #nosec G106: partner SFTP hosts rotate keys without notice
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	var dialer net.Dialer
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, sshConfig)
	if err != nil {
		_ = netConn.Close()
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}
	conn := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}

	return NewRemoteFS(client, conn), nil
}

type sftpFS struct {
	client *sftp.Client
	conn   io.Closer
}

// NewRemoteFS wraps an SFTP client. conn, when not nil, is closed after the client.
func NewRemoteFS(client *sftp.Client, conn io.Closer) RemoteFS {
	return &sftpFS{client: client, conn: conn}
}

func (s *sftpFS) MkdirAll(dir string) error {
	return s.client.MkdirAll(dir)
}

func (s *sftpFS) Create(remotePath string) (io.WriteCloser, error) {
	return s.client.Create(remotePath)
}

func (s *sftpFS) Close() error {
	err := s.client.Close()
	if s.conn != nil {
		if connErr := s.conn.Close(); err == nil {
			err = connErr
		}
	}
	return err
}
