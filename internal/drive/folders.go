package drive

import (
	"errors"
	"fmt"
	"maps"
)

// ErrNoFolder is returned when a team has no folder mapping and no default
// folder is configured.
var ErrNoFolder = errors.New("no drive folder configured")

const folderURLPrefix = "https://drive.google.com/drive/folders/"

// Folders maps team names to Drive folder ids, with an optional fallback.
// It is read-only after construction.
type Folders struct {
	byTeam   map[string]string
	fallback string
}

func NewFolders(byTeam map[string]string, fallback string) Folders {
	return Folders{byTeam: maps.Clone(byTeam), fallback: fallback}
}

func (f Folders) Resolve(team string) (string, error) {
	if id, ok := f.byTeam[team]; ok && id != "" {
		return id, nil
	}
	if f.fallback != "" {
		return f.fallback, nil
	}
	return "", fmt.Errorf("team %q: %w", team, ErrNoFolder)
}

func folderURL(id string) string {
	return folderURLPrefix + id
}
