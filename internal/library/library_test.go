package library_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/repo"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/validate"
)

// setupService creates an initialised store in a temp directory and opens
// a Service on it with cfg.
func setupService(t *testing.T, cfg *config.Config) *library.Service {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, library.Init(false, "", false, dir))

	svc, err := library.Open(filepath.Join(dir, repo.Dir, repo.DBFile), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func noteRaw(title string, sources ...string) content.Raw {
	blocks := make([]any, len(sources))
	for i, s := range sources {
		blocks[i] = map[string]any{"kind": "markdown", "source": s}
	}
	return content.Raw{"type": "note", "title": title, "blocks": blocks}
}

// recorder collects events fired by the service.
type recorder struct {
	mu     sync.Mutex
	events []extension.Event
}

func (r *recorder) Name() string                 { return "library-test-recorder" }
func (r *recorder) Commands() []*cobra.Command   { return nil }
func (r *recorder) MCPTools() []extension.MCPTool { return nil }

func (r *recorder) HandleEvent(_ extension.Context, e extension.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) take() []extension.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

var rec = &recorder{}

func init() { extension.Register(rec) }

func TestCreate(t *testing.T) {
	svc := setupService(t, &config.Config{})
	ctx := context.Background()

	it, res, err := svc.Create(ctx, noteRaw("  Hello   world ", "# Hi\r\n"), "alice", "first")
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.Equal(t, 1, it.Version)
	assert.Equal(t, "Hello world", it.Title)
	assert.Equal(t, "alice", it.Author)

	got, err := svc.Latest(ctx, it.Key, false)
	require.NoError(t, err)
	assert.Equal(t, "note", got.Type)
	assert.Equal(t, "# Hi\n", got.Blocks[0]["source"])
}

func TestCreate_DefaultAuthor(t *testing.T) {
	svc := setupService(t, &config.Config{})

	it, _, err := svc.Create(context.Background(), noteRaw("t", "x"), "", "")
	require.NoError(t, err)
	assert.Equal(t, library.DefaultAuthor, it.Author)
}

func TestCreate_Invalid(t *testing.T) {
	svc := setupService(t, &config.Config{})
	ctx := context.Background()

	it, res, err := svc.Create(ctx, content.Raw{"title": "no type or blocks"}, "alice", "")
	assert.Nil(t, it)
	require.ErrorIs(t, err, library.ErrInvalid)

	var ie *library.InvalidError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, res, ie.Result)
	assert.Equal(t, []string{"type", "blocks"}, res.Fields())
	assert.Equal(t, "content is invalid: 2 errors", err.Error())

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "invalid content is never stored")
}

func TestCreate_SanitizationFailure(t *testing.T) {
	svc := setupService(t, &config.Config{})

	_, res, err := svc.Create(context.Background(), content.Raw{
		"type":   "note",
		"blocks": []any{map[string]any{"kind": "video", "source": "x"}},
	}, "alice", "")
	require.ErrorIs(t, err, library.ErrInvalid)
	assert.Equal(t, []string{validate.Sanitization}, res.Fields())
}

func TestCreate_ConfiguredLimits(t *testing.T) {
	one := 1
	svc := setupService(t, &config.Config{Limits: config.Limits{MaxBlocks: &one}})

	_, res, err := svc.Create(context.Background(), noteRaw("t", "a", "b"), "alice", "")
	require.ErrorIs(t, err, library.ErrInvalid)
	assert.Equal(t, []string{"blocks must not contain more than 1 blocks"}, res.FieldErrors("blocks"))
	assert.Equal(t, 1, svc.Limits().MaxBlocks)
}

func TestUpdate(t *testing.T) {
	svc := setupService(t, &config.Config{})
	ctx := context.Background()

	v1, _, err := svc.Create(ctx, noteRaw("Draft", "body"), "alice", "")
	require.NoError(t, err)

	v2, res, err := svc.Update(ctx, v1.Key, content.Raw{"title": "  Final "}, "bob", "retitle")
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, "Final", v2.Title)
	assert.Equal(t, "note", v2.Type, "absent fields are kept")
	assert.Equal(t, v1.Blocks, v2.Blocks)
	assert.Equal(t, "bob", v2.Author)

	old, err := svc.Version(ctx, v1.Key, 1)
	require.NoError(t, err)
	assert.Equal(t, "Draft", old.Title)
}

func TestUpdate_Errors(t *testing.T) {
	svc := setupService(t, &config.Config{})
	ctx := context.Background()

	v1, _, err := svc.Create(ctx, noteRaw("Draft", "body"), "alice", "")
	require.NoError(t, err)

	t.Run("invalid", func(t *testing.T) {
		_, res, err := svc.Update(ctx, v1.Key, content.Raw{"type": ""}, "bob", "")
		require.ErrorIs(t, err, library.ErrInvalid)
		assert.Equal(t, []string{"type cannot be empty"}, res.FieldErrors("type"))
	})

	t.Run("unchanged", func(t *testing.T) {
		cur, _, err := svc.Update(ctx, v1.Key, content.Raw{"title": "Draft"}, "bob", "")
		require.ErrorIs(t, err, library.ErrUnchanged)
		assert.Equal(t, 1, cur.Version)
	})

	t.Run("missing item", func(t *testing.T) {
		_, _, err := svc.Update(ctx, "no-such-key", content.Raw{"title": "x"}, "bob", "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	hist, err := svc.History(ctx, v1.Key, 0, false)
	require.NoError(t, err)
	assert.Len(t, hist, 1, "failed updates store nothing")
}

func TestDeleteRestore(t *testing.T) {
	svc := setupService(t, &config.Config{})
	ctx := context.Background()

	it, _, err := svc.Create(ctx, noteRaw("t", "x"), "alice", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, it.Key))
	_, err = svc.Latest(ctx, it.Key, false)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, it.Key), store.ErrNotFound)

	require.NoError(t, svc.Restore(ctx, it.Key))
	ok, err := svc.Exists(ctx, it.Key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvents(t *testing.T) {
	svc := setupService(t, &config.Config{})
	svc.SetExtensionContext(extension.NewContext(svc, svc.DB(), &config.Config{}))
	ctx := context.Background()
	rec.take()

	it, _, err := svc.Create(ctx, noteRaw("t", "a", "b"), "alice", "m")
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, content.Raw{"type": "note"}, "alice", "")
	require.Error(t, err)
	require.NoError(t, svc.Delete(ctx, it.Key))
	require.NoError(t, svc.Restore(ctx, it.Key))

	events := rec.take()
	require.Len(t, events, 3, "no event for rejected content")
	assert.Equal(t, extension.ItemWriteEvent{
		Key: it.Key, Version: 1, Type: "note", Blocks: 2, Author: "alice", Message: "m",
	}, events[0])
	assert.Equal(t, extension.ItemDeleteEvent{Key: it.Key}, events[1])
	assert.Equal(t, extension.ItemRestoreEvent{Key: it.Key, Version: 1}, events[2])
}

func TestDiff(t *testing.T) {
	svc := setupService(t, &config.Config{})
	ctx := context.Background()

	v1, _, err := svc.Create(ctx, noteRaw("Title", "first line"), "alice", "")
	require.NoError(t, err)
	_, _, err = svc.Update(ctx, v1.Key, content.Raw{
		"blocks": []any{map[string]any{"kind": "markdown", "source": "second line"}},
	}, "alice", "")
	require.NoError(t, err)

	d, err := svc.Diff(ctx, v1.Key, 1, 0)
	require.NoError(t, err)
	assert.True(t, d.Changed())
	assert.Equal(t, v1.Key+" v1", d.Old)
	assert.Equal(t, v1.Key+" v2", d.New)
	assert.Contains(t, d.Diff, "second")

	_, err = svc.Diff(ctx, v1.Key, 9, 0)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestValidateAndDetails(t *testing.T) {
	svc := setupService(t, &config.Config{})

	res := svc.Validate(noteRaw(" t ", "x"), validate.Create)
	require.True(t, res.Valid())

	d := svc.Details(noteRaw(" t ", "x"), validate.Create)
	assert.True(t, d.Result.Valid())
	require.Len(t, d.Changes, 1)
	assert.Equal(t, "title", d.Changes[0].Field)

	assert.Equal(t, []string{"code", "html", "markdown"}, svc.Kinds())
}

func TestNew_Discovers(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := library.New("")
	require.ErrorIs(t, err, repo.ErrNotInitialised)

	require.NoError(t, library.Init(false, "", false, ""))
	svc, err := library.New("")
	require.NoError(t, err)
	defer svc.Close()
	assert.Equal(t, repo.Dir, filepath.Base(svc.Dir()))
}
