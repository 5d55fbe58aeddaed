package voice

import (
	"fmt"
	"io"
	"os"
)

// spool manages the scratch directory providers stream audio through.
// Every file written under it is removed before the bytes are returned
// to the caller, on success and failure alike.
type spool struct {
	dir string
}

func newSpool() (*spool, error) {
	dir, err := os.MkdirTemp("", "samaira-audio-")
	if err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	return &spool{dir: dir}, nil
}

// capture streams r into a scratch file and reads it back, removing the
// file on every exit path.
func (s *spool) capture(pattern string, r io.Reader) ([]byte, error) {
	f, err := os.CreateTemp(s.dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("create spool file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("spool audio: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close spool file: %w", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read spooled audio: %w", err)
	}
	return data, nil
}

// file writes data to a named scratch file and returns its path along
// with a cleanup func. Used when an external tool needs a real path.
func (s *spool) file(pattern string, data []byte) (string, func(), error) {
	f, err := os.CreateTemp(s.dir, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create spool file: %w", err)
	}
	name := f.Name()
	cleanup := func() { os.Remove(name) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write spool file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close spool file: %w", err)
	}
	return name, cleanup, nil
}

// leftovers lists files still present in the scratch directory.
func (s *spool) leftovers() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *spool) Close() error {
	return os.RemoveAll(s.dir)
}
