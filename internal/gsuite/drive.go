package gsuite

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/drive/v3"
)

// Drive uploads original documents to a Google Drive folder and returns the
// file's view URL. Implements storage.FileStorage.
type Drive struct {
	auth   *Auth
	logger *slog.Logger
}

func NewDrive(auth *Auth, logger *slog.Logger) *Drive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Drive{auth: auth, logger: logger}
}

func (d *Drive) Upload(ctx context.Context, data []byte, fileName, folderID string) (string, error) {
	if err := d.auth.SignIn(ctx); err != nil {
		return "", err
	}

	meta := &drive.File{Name: fileName}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	created, err := d.auth.Drive().Files.Create(meta).
		Media(bytes.NewReader(data)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive upload: %w", err)
	}

	url := created.WebViewLink
	if url == "" {
		url = fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id)
	}
	d.logger.Info("drive.uploaded", "file", fileName, "url", url)
	return url, nil
}
