package sound

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrNoSoundSource = errors.New("sound: no sound source")

// Source is a playable audio source descriptor.
type Source struct {
	// Path is a local file path; Recorded distinguishes a user recording
	// from a catalog asset.
	Path     string
	Name     string
	Recorded bool
}

// Resolver maps a reminder's sound reference to a playable source. Pure:
// its only input beyond the arguments is the static catalog and the
// directory the catalog assets live in.
type Resolver struct {
	soundsDir string
	byName    map[string]CatalogEntry
}

func NewResolver(soundsDir string) *Resolver {
	byName := make(map[string]CatalogEntry, len(Catalog))
	for _, entry := range Catalog {
		byName[entry.Name] = entry
	}
	return &Resolver{soundsDir: soundsDir, byName: byName}
}

// Resolve picks the authoritative source: a non-empty recording wins over
// a selected catalog sound; an unknown catalog name or neither source is
// ErrNoSoundSource.
func (r *Resolver) Resolve(audioURI, selectedSound string) (Source, error) {
	if uri := strings.TrimSpace(audioURI); uri != "" {
		return Source{Path: stripFileScheme(uri), Name: uri, Recorded: true}, nil
	}
	name := strings.TrimSpace(selectedSound)
	if name == "" {
		return Source{}, ErrNoSoundSource
	}
	entry, ok := r.byName[name]
	if !ok {
		return Source{}, fmt.Errorf("%w: unknown catalog sound %q", ErrNoSoundSource, name)
	}
	return Source{Path: filepath.Join(r.soundsDir, entry.Asset), Name: entry.Name}, nil
}

func stripFileScheme(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
