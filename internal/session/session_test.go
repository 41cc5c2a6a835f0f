package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/session"
)

var editor = entity.Identity{
	ID: "u1", Email: "editor@test.com", DisplayName: "Editor User", Role: entity.RoleEditor, BusinessID: "b1",
}

type fakeAuth struct {
	identity entity.Identity
	token    string
	calls    int
}

func (f *fakeAuth) Authenticate(_ context.Context, email, password string) (entity.Identity, string, error) {
	f.calls++
	if email != f.identity.Email || password != "password123" {
		return entity.Identity{}, "", domain.ErrInvalidCredentials
	}
	return f.identity, f.token, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newManager(store session.Store, c *clock) *session.Manager {
	return session.NewManager(&fakeAuth{identity: editor, token: "tok"}, store, session.WithClock(c.now))
}

func TestManager_LoginCurrentLogout(t *testing.T) {
	store := session.NewMemoryStore()
	m := newManager(store, &clock{t: time.Now()})

	got, err := m.Login(context.Background(), editor.Email, "password123")
	require.NoError(t, err)
	if diff := cmp.Diff(editor, got); diff != "" {
		t.Fatalf("identidad de login (-want +got):\n%s", diff)
	}

	current, err := m.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	if diff := cmp.Diff(editor, *current); diff != "" {
		t.Fatalf("identidad actual (-want +got):\n%s", diff)
	}
	token, err := m.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, m.Logout())
	require.NoError(t, m.Logout())
	current, err = m.Current()
	require.NoError(t, err)
	assert.Nil(t, current)
	token, err = m.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestManager_CredencialesInvalidasNoTocanElEstado(t *testing.T) {
	store := session.NewMemoryStore()
	m := newManager(store, &clock{t: time.Now()})
	_, err := m.Login(context.Background(), editor.Email, "password123")
	require.NoError(t, err)

	_, err = m.Login(context.Background(), editor.Email, "mala")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	current, err := m.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, editor.ID, current.ID)
}

func TestManager_Expira(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := session.NewMemoryStore()
	m := newManager(store, c)
	_, err := m.Login(context.Background(), editor.Email, "password123")
	require.NoError(t, err)

	c.t = c.t.Add(session.DefaultTTL - time.Second)
	current, err := m.Current()
	require.NoError(t, err)
	assert.NotNil(t, current)

	c.t = c.t.Add(2 * time.Second)
	current, err = m.Current()
	require.NoError(t, err)
	assert.Nil(t, current)

	data, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestManager_DatosCorruptos(t *testing.T) {
	cases := map[string][]byte{
		"json roto":       []byte("{not json"),
		"sin identidad":   mustJSON(t, map[string]any{"token": "t", "expires_at": time.Now().Add(time.Hour)}),
		"rol inventado":   mustJSON(t, map[string]any{"identity": map[string]any{"id": "u", "role": "root", "business_id": "b"}, "token": "t", "expires_at": time.Now().Add(time.Hour)}),
		"sin token":       mustJSON(t, map[string]any{"identity": editor, "expires_at": time.Now().Add(time.Hour)}),
		"tipo incorrecto": []byte(`{"identity": 42}`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			store := session.NewMemoryStore()
			require.NoError(t, store.Save(raw))
			m := newManager(store, &clock{t: time.Now()})

			current, err := m.Current()
			require.NoError(t, err)
			assert.Nil(t, current)

			data, err := store.Load()
			require.NoError(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestManager_ErrorDelStoreSeReporta(t *testing.T) {
	store := session.NewMemoryStore()
	m := newManager(store, &clock{t: time.Now()})
	store.Close()

	_, err := m.Login(context.Background(), editor.Email, "password123")
	assert.ErrorIs(t, err, session.ErrStoreClosed)
	_, err = m.Current()
	assert.ErrorIs(t, err, session.ErrStoreClosed)
	assert.ErrorIs(t, m.Logout(), session.ErrStoreClosed)
}

func TestFileStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := session.NewFileStoreFs(fs, "/home/u/.config/marketplace/session.json")

	data, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, data)
	require.NoError(t, store.Clear())

	require.NoError(t, store.Save([]byte(`{"a":1}`)))
	info, err := fs.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	require.NoError(t, store.Save([]byte(`{"a":2}`)))
	data, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	leftovers, err := afero.Glob(fs, "/home/u/.config/marketplace/.session-*")
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	require.NoError(t, store.Clear())
	data, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_ConManager(t *testing.T) {
	store := session.NewFileStoreFs(afero.NewMemMapFs(), "/tmp/s/session.json")
	m := newManager(store, &clock{t: time.Now()})
	_, err := m.Login(context.Background(), editor.Email, "password123")
	require.NoError(t, err)

	// Un segundo Manager sobre el mismo archivo ve la sesión.
	other := newManager(store, &clock{t: time.Now()})
	current, err := other.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, editor.Email, current.Email)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
