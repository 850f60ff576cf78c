package credstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	go_json "github.com/goccy/go-json"
)

const (
	oauth1FileName = "oauth1_token.json"
	oauth2FileName = "oauth2_token.json"

	storeDirPerm  = fs.FileMode(0o700)
	storeFilePerm = fs.FileMode(0o600)
)

// FileStore keeps each credential in its own JSON file under a directory,
// one file per token so the pair stays interchangeable with other Garmin
// Connect clients that read the same layout.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the directory if needed and returns a store rooted
// at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, storeDirPerm); err != nil {
		return nil, fmt.Errorf("creating token store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(_ context.Context) (*OAuth1Token, *OAuth2Token, error) {
	var oauth1 OAuth1Token
	if err := s.readToken(oauth1FileName, &oauth1); err != nil {
		return nil, nil, err
	}

	var oauth2 OAuth2Token
	if err := s.readToken(oauth2FileName, &oauth2); err != nil {
		return nil, nil, err
	}

	return &oauth1, &oauth2, nil
}

func (s *FileStore) Save(_ context.Context, oauth1 *OAuth1Token, oauth2 *OAuth2Token) error {
	if oauth1 != nil {
		if err := s.writeToken(oauth1FileName, oauth1); err != nil {
			return err
		}
	}
	if oauth2 != nil {
		if err := s.writeToken(oauth2FileName, oauth2); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) readToken(name string, dst any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	if err := go_json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%s: %w: %v", name, ErrCorrupt, err)
	}
	return nil
}

// writeToken writes to a temp file in the same directory and renames it over
// the target, so an interrupted write never leaves a truncated or missing
// token file.
func (s *FileStore) writeToken(name string, src any) error {
	data, err := go_json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", name, err)
	}

	if err := os.Chmod(tmpName, storeFilePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
