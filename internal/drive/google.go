package drive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/driveaccess/internal/logging"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Credentials locate the service-account key. Subject, when set, is the
// Workspace user the service account acts as. Relative paths resolve
// against BaseDir.
type Credentials struct {
	Path    string
	Subject string
	BaseDir string
}

const childFields = "files(id,name,webViewLink)"

type googleAPI struct {
	svc *drivev3.Service
}

func newGoogleAPI(ctx context.Context, creds Credentials, logger logging.Logger) (remote, error) {
	path, fellBack, err := resolveCredentialsPath(creds.Path, creds.BaseDir)
	if err != nil {
		return nil, err
	}
	if fellBack {
		logger.Warn(ctx, "service account file not found at configured path, using fallback", "configured", creds.Path, "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	conf, err := jwtConfig(data, creds.Subject)
	if err != nil {
		return nil, err
	}

	svc, err := drivev3.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &googleAPI{svc: svc}, nil
}

func jwtConfig(data []byte, subject string) (*jwt.Config, error) {
	conf, err := google.JWTConfigFromJSON(data, drivev3.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account file: %w", err)
	}
	conf.Subject = subject
	return conf, nil
}

// resolveCredentialsPath expands ~ and resolves relative paths against
// baseDir. When the resolved file is missing, a file with the same name
// directly in baseDir is accepted instead.
func resolveCredentialsPath(raw, baseDir string) (string, bool, error) {
	if raw == "" {
		return "", false, errors.New("GOOGLE_CREDENTIALS_PATH must point to a service-account JSON file")
	}

	p := raw
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	if fileExists(p) {
		return p, false, nil
	}

	fallback := filepath.Join(baseDir, filepath.Base(raw))
	if fallback != p && fileExists(fallback) {
		return fallback, true, nil
	}

	if fallback != p {
		return "", false, fmt.Errorf("service account file not found: %s (also checked %s)", p, fallback)
	}
	return "", false, fmt.Errorf("service account file not found: %s", p)
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func (g *googleAPI) CreatePermission(ctx context.Context, folderID, email string) error {
	perm := &drivev3.Permission{
		Type:         "user",
		Role:         "reader",
		EmailAddress: email,
	}

	_, err := g.svc.Permissions.Create(folderID, perm).
		SendNotificationEmail(false).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	return err
}

func (g *googleAPI) ListChildren(ctx context.Context, folderID string, limit int) ([]File, error) {
	q := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	list, err := g.svc.Files.List().
		Q(q).
		PageSize(int64(limit)).
		OrderBy("modifiedTime desc").
		Fields(childFields).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, File{ID: f.Id, Name: f.Name, Link: f.WebViewLink})
	}
	return files, nil
}
