package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// ErrStoreClosed lo devuelve un MemoryStore después de Close.
var ErrStoreClosed = errors.New("session: store cerrado")

// FileStore guarda la sesión en un archivo JSON (modo 0600) con escritura atómica.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore crea un store sobre el sistema de archivos del SO.
func NewFileStore(path string) *FileStore {
	return NewFileStoreFs(afero.NewOsFs(), path)
}

// NewFileStoreFs permite inyectar el filesystem (afero.NewMemMapFs en tests).
func NewFileStoreFs(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// DefaultPath ruta por defecto: <UserConfigDir>/marketplace/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("directorio de configuración: %w", err)
	}
	return filepath.Join(dir, "marketplace", "session.json"), nil
}

// Path ruta del archivo.
func (s *FileStore) Path() string { return s.path }

// Load lee el archivo; (nil, nil) si no existe.
func (s *FileStore) Load() ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save escribe en un temporal del mismo directorio y lo renombra sobre el destino.
func (s *FileStore) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := afero.TempFile(s.fs, dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = s.fs.Chmod(tmpName, 0o600)
	}
	if werr == nil {
		werr = s.fs.Rename(tmpName, s.path)
	}
	if werr != nil {
		_ = s.fs.Remove(tmpName)
		return werr
	}
	return nil
}

// Clear elimina el archivo; no falla si no existe.
func (s *FileStore) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryStore guarda la sesión en memoria (tests y procesos efímeros).
type MemoryStore struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

// NewMemoryStore crea un store vacío.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Load devuelve una copia de lo guardado.
func (s *MemoryStore) Load() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	if s.data == nil {
		return nil, nil
	}
	return append([]byte(nil), s.data...), nil
}

// Save reemplaza lo guardado.
func (s *MemoryStore) Save(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.data = append([]byte(nil), data...)
	return nil
}

// Clear borra lo guardado.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.data = nil
	return nil
}

// Close hace fallar las operaciones siguientes; simula un almacenamiento no disponible.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
