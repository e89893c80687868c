// Package media resolves creative names to their stored media assets in
// Google Drive. Each platform has one Drive folder; file names carry the
// creative name, so matching is a case-insensitive substring check.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"adpulse/pkg/contracts/domain"
)

// Config holds the Drive folder IDs per platform, keyed by feed name.
type Config struct {
	// CredentialsFile is the service-account JSON key path. Empty
	// disables the library and every lookup misses.
	CredentialsFile string
	// Folders maps a platform name to its Drive folder ID.
	Folders map[string]string
}

type asset struct {
	name string
	ref  domain.MediaRef
}

// Library indexes the media files of every configured platform folder.
// The index is built once per Refresh and read lock-free between them.
type Library struct {
	config Config
	svc    *drive.Service
	logger *slog.Logger

	mu     sync.RWMutex
	assets map[string][]asset
}

// NewLibrary builds the Drive client. With no credentials configured it
// returns a disabled library rather than an error, so the dashboard works
// without media.
func NewLibrary(ctx context.Context, cfg Config, logger *slog.Logger) (*Library, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lib := &Library{
		config: cfg,
		logger: logger.With(slog.String("component", "media")),
		assets: make(map[string][]asset),
	}
	if cfg.CredentialsFile == "" || len(cfg.Folders) == 0 {
		lib.logger.InfoContext(ctx, "media library disabled", slog.Bool("configured", false))
		return lib, nil
	}

	svc, err := drive.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	lib.svc = svc
	return lib, nil
}

// Refresh re-lists every platform folder and rebuilds the index.
func (l *Library) Refresh(ctx context.Context) error {
	if l.svc == nil {
		return nil
	}

	next := make(map[string][]asset, len(l.config.Folders))
	for platform, folderID := range l.config.Folders {
		files, err := l.listFolder(ctx, folderID)
		if err != nil {
			return fmt.Errorf("list media folder for %s: %w", platform, err)
		}
		next[platform] = files
		l.logger.InfoContext(ctx, "media folder indexed",
			slog.String("platform", platform),
			slog.Int("files", len(files)))
	}

	l.mu.Lock()
	l.assets = next
	l.mu.Unlock()
	return nil
}

func (l *Library) listFolder(ctx context.Context, folderID string) ([]asset, error) {
	var out []asset
	call := l.svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
		Fields("nextPageToken, files(id, name, mimeType)").
		PageSize(200)

	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			out = append(out, asset{
				name: strings.ToLower(f.Name),
				ref: domain.MediaRef{
					URL:  fmt.Sprintf("https://drive.google.com/uc?id=%s", f.Id),
					Type: mediaType(f.MimeType),
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindForCreative returns the media asset whose file name contains the
// creative name, case-insensitively. The first match wins.
func (l *Library) FindForCreative(platform, creativeName string) *domain.MediaRef {
	needle := strings.ToLower(strings.TrimSpace(creativeName))
	if needle == "" {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, a := range l.assets[platform] {
		if strings.Contains(a.name, needle) || strings.Contains(needle, trimExt(a.name)) {
			ref := a.ref
			return &ref
		}
	}
	return nil
}

func trimExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

func mediaType(mime string) string {
	switch {
	case strings.HasPrefix(mime, "video/"):
		return "video"
	case strings.HasPrefix(mime, "image/"):
		return "image"
	default:
		return "file"
	}
}
