package loader_test

import (
	"errors"
	"net/http"
	"testing"

	"webboot/core/loader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type route struct{ method, path string }

type recordingRouter struct{ routes []route }

func (r *recordingRouter) Handle(method, path string, _ http.Handler) {
	r.routes = append(r.routes, route{method, path})
}

type testFeature struct {
	name     string
	enabled  bool
	loadErr  error
	closeErr error
	closed   *[]string
}

func (f *testFeature) Name() string    { return f.name }
func (f *testFeature) IsEnabled() bool { return f.enabled }

func (f *testFeature) Load(r loader.Router) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	r.Handle(http.MethodGet, "/"+f.name, http.NotFoundHandler())
	return nil
}

func (f *testFeature) Close() error {
	*f.closed = append(*f.closed, f.name)
	return f.closeErr
}

func TestManager_LoadAll(t *testing.T) {
	var closed []string
	m := loader.NewManager(nil)
	m.Register(&testFeature{name: "a", enabled: true, closed: &closed})
	m.Register(&testFeature{name: "off", enabled: false, closed: &closed})
	m.Register(&testFeature{name: "b", enabled: true, closed: &closed})

	r := &recordingRouter{}
	require.NoError(t, m.LoadAll(r))
	assert.Equal(t, []route{{http.MethodGet, "/a"}, {http.MethodGet, "/b"}}, r.routes)
	assert.Len(t, m.Features(), 3)

	require.NoError(t, m.Close())
	assert.Equal(t, []string{"b", "a"}, closed)

	// nothing left to close
	require.NoError(t, m.Close())
	assert.Equal(t, []string{"b", "a"}, closed)
}

func TestManager_LoadAllFails(t *testing.T) {
	boom := errors.New("boom")
	var closed []string
	m := loader.NewManager(nil)
	m.Register(&testFeature{name: "a", enabled: true, closed: &closed})
	m.Register(&testFeature{name: "bad", enabled: true, loadErr: boom, closed: &closed})
	m.Register(&testFeature{name: "c", enabled: true, closed: &closed})

	r := &recordingRouter{}
	err := m.LoadAll(r)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad")
	assert.Equal(t, []route{{http.MethodGet, "/a"}}, r.routes)

	require.NoError(t, m.Close())
	assert.Equal(t, []string{"a"}, closed)
}

func TestManager_CloseJoinsErrors(t *testing.T) {
	e1, e2 := errors.New("e1"), errors.New("e2")
	var closed []string
	m := loader.NewManager(nil)
	m.Register(&testFeature{name: "a", enabled: true, closeErr: e1, closed: &closed})
	m.Register(&testFeature{name: "b", enabled: true, closeErr: e2, closed: &closed})
	require.NoError(t, m.LoadAll(&recordingRouter{}))

	err := m.Close()
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
	assert.Equal(t, []string{"b", "a"}, closed)
}
