// Package save reads and writes YAML save games. A save holds the full
// engine session, so a game saved during the player's turn resumes there.
package save

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

const formatVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported save version")

// File is the on-disk layout of a save game.
type File struct {
	Version    int                     `yaml:"version"`
	SavedAt    time.Time               `yaml:"saved_at"`
	Difficulty string                  `yaml:"difficulty,omitempty"`
	Session    sengoku.SessionSnapshot `yaml:"session"`
}

// Write encodes sess. difficulty names the computer lords' strategy so a
// loader can rebuild the same planner.
func Write(w io.Writer, sess *sengoku.Session, difficulty string) error {
	snap, err := sess.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot session: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{
		Version:    formatVersion,
		SavedAt:    time.Now().UTC(),
		Difficulty: difficulty,
		Session:    snap,
	}); err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	return enc.Close()
}

// Decode reads a save without restoring it.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	return &f, nil
}

// Restore rebuilds the engine session.
func (f *File) Restore(catalog *sengoku.EventCatalog, planner sengoku.Planner) (*sengoku.Session, error) {
	return sengoku.RestoreSession(f.Session, catalog, planner)
}

// Read decodes and restores a save in one step.
func Read(r io.Reader, catalog *sengoku.EventCatalog, planner sengoku.Planner) (*sengoku.Session, error) {
	f, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return f.Restore(catalog, planner)
}

// SaveFile writes sess to path, replacing it atomically.
func SaveFile(path string, sess *sengoku.Session, difficulty string) error {
	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create save: %w", err)
	}
	if err := Write(out, sess, difficulty); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close save: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename save: %w", err)
	}
	return nil
}

// LoadFile decodes the save at path.
func LoadFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open save: %w", err)
	}
	defer in.Close()
	return Decode(in)
}
