package update

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soamn/aterna/internal/config"
	"github.com/soamn/aterna/internal/eventbus"
	"github.com/soamn/aterna/internal/models"
	"github.com/soamn/aterna/internal/selector"
)

type recordingSender struct {
	requests []models.PendingRequest
}

func (r *recordingSender) Dispatch(req models.PendingRequest) {
	r.requests = append(r.requests, req)
}

type stubCatalog struct {
	ids  []string
	err  error
	cred config.Credential
}

func (s *stubCatalog) ListModels(ctx context.Context, cred config.Credential) ([]string, error) {
	s.cred = cred
	return s.ids, s.err
}

type fixture struct {
	h       *Handler
	sender  *recordingSender
	catalog *stubCatalog
	bus     *eventbus.EventBus
	s       models.Session
}

func newFixture() *fixture {
	f := &fixture{
		sender:  &recordingSender{},
		catalog: &stubCatalog{},
		bus:     eventbus.NewEventBus(),
	}
	f.h = &Handler{Sender: f.sender, Catalog: f.catalog, Bus: f.bus}
	f.s = models.NewSession("base-model", config.Credential{Value: "key"})
	return f
}

func (f *fixture) press(keys ...tea.KeyMsg) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		last = f.h.HandleKeyMsg(&f.s, k)
	}
	return last
}

func (f *fixture) typeText(text string) {
	for _, r := range text {
		f.press(runes(string(r)))
	}
}

func TestTypingConcatenates(t *testing.T) {
	f := newFixture()
	f.typeText("hello, wörld")
	assert.Equal(t, "hello, wörld", f.s.Input)
	assert.Equal(t, models.Normal, f.s.Mode)
}

func TestBackspace(t *testing.T) {
	f := newFixture()
	f.press(bsKey)
	assert.Empty(t, f.s.Input)

	f.typeText("añ")
	f.press(bsKey)
	assert.Equal(t, "a", f.s.Input)
	f.press(bsKey, bsKey)
	assert.Empty(t, f.s.Input)
}

func TestSubmitBlankDoesNotDispatch(t *testing.T) {
	for _, input := range []string{"", "   ", "\t "} {
		f := newFixture()
		f.s.Input = input
		f.press(enterKey)

		assert.Empty(t, f.sender.requests)
		assert.Empty(t, f.s.Input)
		assert.Equal(t, EmptyInputNotice, f.s.Response)
		assert.Zero(t, f.s.LatestSeq)
		assert.False(t, f.s.Waiting)
	}
}

func TestSubmitDispatchesOnce(t *testing.T) {
	f := newFixture()
	f.typeText("hi")
	cmd := f.press(enterKey)

	assert.Nil(t, cmd)
	assert.Empty(t, f.s.Input)
	assert.Equal(t, ThinkingNotice, f.s.Response)
	assert.True(t, f.s.Waiting)
	require.Len(t, f.sender.requests, 1)
	assert.Equal(t, models.PendingRequest{
		Seq:        1,
		Prompt:     "hi",
		Model:      "base-model",
		Credential: config.Credential{Value: "key"},
	}, f.sender.requests[0])
}

func TestSubmitCarriesMissingCredential(t *testing.T) {
	f := newFixture()
	f.s.Credential = config.Credential{Value: config.PlaceholderKey, Missing: true}
	f.typeText("x")
	f.press(enterKey)

	require.Len(t, f.sender.requests, 1)
	assert.True(t, f.sender.requests[0].Credential.IsMissing())
}

func TestCommandModeEffects(t *testing.T) {
	t.Run("clear", func(t *testing.T) {
		f := newFixture()
		f.typeText("draft")
		f.press(escKey, runes("c"))
		assert.Empty(t, f.s.Input)
		assert.Equal(t, ClearedNotice, f.s.Response)
		assert.Equal(t, models.Command, f.s.Mode)
		assert.Equal(t, "base-model", f.s.ActiveModel)
	})

	t.Run("reset keeps input", func(t *testing.T) {
		f := newFixture()
		f.typeText("draft")
		f.press(escKey, runes("r"))
		assert.Equal(t, "draft", f.s.Input)
		assert.Equal(t, ResetNotice, f.s.Response)
		assert.NotEqual(t, models.Greeting, f.s.Response)
		assert.Equal(t, models.Command, f.s.Mode)
	})

	t.Run("quit", func(t *testing.T) {
		f := newFixture()
		f.typeText("draft")
		cmd := f.press(escKey, runes("q"))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Equal(t, "draft", f.s.Input)
		assert.Equal(t, models.Greeting, f.s.Response)
	})

	t.Run("help", func(t *testing.T) {
		f := newFixture()
		f.typeText("draft")
		f.press(escKey, runes("z"))
		assert.Equal(t, HelpText, f.s.Response)
		assert.Equal(t, "draft", f.s.Input)
		assert.Equal(t, models.Command, f.s.Mode)
	})

	t.Run("no dispatch from command mode", func(t *testing.T) {
		f := newFixture()
		f.typeText("draft")
		f.press(escKey, enterKey)
		assert.Empty(t, f.sender.requests)
	})
}

func TestGlobalQuitWhileTyping(t *testing.T) {
	f := newFixture()
	f.typeText("abc")
	cmd := f.press(ctrlQ)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "abc", f.s.Input)
}

func openSelector(t *testing.T, f *fixture) {
	t.Helper()
	cmd := f.press(escKey, runes("m"))
	require.NotNil(t, cmd)
	assert.Equal(t, models.ModelSelect, f.s.Mode)
	assert.Equal(t, selector.Loading, f.s.Selector.Phase())

	msg := cmd()
	require.IsType(t, CatalogMsg{}, msg)
	f.h.HandleCatalogMsg(&f.s, msg.(CatalogMsg))
}

func TestModelSelectChoose(t *testing.T) {
	f := newFixture()
	f.catalog.ids = []string{"a", "b", "c"}
	openSelector(t, f)
	assert.Equal(t, "key", f.catalog.cred.Value)
	require.Equal(t, selector.Ready, f.s.Selector.Phase())

	f.press(tea.KeyMsg{Type: tea.KeyDown}, enterKey)

	assert.Equal(t, "b", f.s.ActiveModel)
	assert.Equal(t, "Model changed to b", f.s.Response)
	assert.Equal(t, models.Command, f.s.Mode)
	assert.Equal(t, selector.Closed, f.s.Selector.Phase())
}

func TestModelSelectCancel(t *testing.T) {
	f := newFixture()
	f.catalog.ids = []string{"a", "b"}
	openSelector(t, f)

	f.press(tea.KeyMsg{Type: tea.KeyDown}, escKey)

	assert.Equal(t, "base-model", f.s.ActiveModel)
	assert.Equal(t, CancelledNotice, f.s.Response)
	assert.Equal(t, models.Command, f.s.Mode)
}

func TestModelSelectEmptyCatalog(t *testing.T) {
	f := newFixture()
	openSelector(t, f)

	assert.Equal(t, CancelledNotice, f.s.Response)
	assert.Equal(t, models.Command, f.s.Mode)
	assert.Equal(t, "base-model", f.s.ActiveModel)
}

func TestModelSelectFetchFailure(t *testing.T) {
	f := newFixture()
	f.catalog.err = errors.New("list models: 401 Unauthorized")
	openSelector(t, f)

	assert.Equal(t, "Model selection failed: list models: 401 Unauthorized", f.s.Response)
	assert.Equal(t, models.Command, f.s.Mode)
	assert.Equal(t, selector.Closed, f.s.Selector.Phase())
}

func TestKeysIgnoredWhileCatalogLoads(t *testing.T) {
	f := newFixture()
	f.press(escKey, runes("m"))
	before := f.s

	f.press(escKey, enterKey, runes("x"))

	assert.Equal(t, before, f.s)
}

func TestLateCatalogIgnored(t *testing.T) {
	f := newFixture()
	f.s.Mode = models.Command
	f.h.HandleCatalogMsg(&f.s, CatalogMsg{Models: []string{"a"}})
	assert.Equal(t, selector.Closed, f.s.Selector.Phase())
	assert.Equal(t, models.Greeting, f.s.Response)
}

func TestCompletionReplacesPlaceholder(t *testing.T) {
	f := newFixture()
	f.typeText("hi")
	f.press(enterKey)

	require.NoError(t, f.bus.Publish(models.Completion{Seq: 1, Text: "hello!"}))
	cmd := f.h.HandleTickMsg(&f.s)

	assert.NotNil(t, cmd)
	assert.Equal(t, "hello!", f.s.Response)
	assert.False(t, f.s.Waiting)
}

func TestCompletionErrorShown(t *testing.T) {
	f := newFixture()
	f.typeText("hi")
	f.press(enterKey)

	require.NoError(t, f.bus.Publish(models.Completion{Seq: 1, Err: errors.New("dial tcp: timeout")}))
	f.h.HandleTickMsg(&f.s)

	assert.Equal(t, "Error: dial tcp: timeout", f.s.Response)
}

func TestOnlyLatestCompletionApplies(t *testing.T) {
	f := newFixture()
	f.typeText("first")
	f.press(enterKey)
	f.typeText("second")
	f.press(enterKey)
	require.Len(t, f.sender.requests, 2)
	assert.Equal(t, uint64(2), f.sender.requests[1].Seq)

	// The newer reply lands first; the stale one must not overwrite it.
	require.NoError(t, f.bus.Publish(models.Completion{Seq: 2, Text: "second reply"}))
	require.NoError(t, f.bus.Publish(models.Completion{Seq: 1, Text: "first reply"}))
	f.h.HandleTickMsg(&f.s)
	f.h.HandleTickMsg(&f.s)

	assert.Equal(t, "second reply", f.s.Response)
	assert.Zero(t, f.bus.Len())
}

func TestStaleCompletionKeepsPlaceholder(t *testing.T) {
	f := newFixture()
	f.typeText("first")
	f.press(enterKey)
	f.typeText("second")
	f.press(enterKey)

	require.NoError(t, f.bus.Publish(models.Completion{Seq: 1, Text: "first reply"}))
	f.h.HandleTickMsg(&f.s)

	assert.Equal(t, ThinkingNotice, f.s.Response)
	assert.True(t, f.s.Waiting)
}

func TestOneCompletionPerTick(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.bus.Publish(models.Completion{Seq: 5}))
	require.NoError(t, f.bus.Publish(models.Completion{Seq: 6}))

	f.h.HandleTickMsg(&f.s)

	assert.Equal(t, 1, f.bus.Len())
}

func TestTickAnimatesWhileWaiting(t *testing.T) {
	f := newFixture()
	f.h.HandleTickMsg(&f.s)
	assert.Zero(t, f.s.LoadingDots)

	f.typeText("hi")
	f.press(enterKey)
	f.h.HandleTickMsg(&f.s)
	f.h.HandleTickMsg(&f.s)
	assert.Equal(t, 2, f.s.LoadingDots)
}

func TestHandleUpdateWindowSize(t *testing.T) {
	f := newFixture()
	cmd := f.h.HandleUpdate(&f.s, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 120, f.s.Width)
	assert.Equal(t, 40, f.s.Height)
}

func TestOnlyRepliesAreMarkedForMarkdown(t *testing.T) {
	f := newFixture()
	assert.False(t, f.s.IsReply)

	f.typeText("hi")
	f.press(enterKey)
	assert.False(t, f.s.IsReply, "placeholder is a notice")

	require.NoError(t, f.bus.Publish(models.Completion{Seq: 1, Text: "**bold** reply"}))
	f.h.HandleTickMsg(&f.s)
	assert.Equal(t, "**bold** reply", f.s.Response)
	assert.True(t, f.s.IsReply)

	f.press(escKey, runes("z"))
	assert.Equal(t, HelpText, f.s.Response)
	assert.False(t, f.s.IsReply)

	f.press(escKey)
	f.typeText("again")
	f.press(enterKey)
	require.NoError(t, f.bus.Publish(models.Completion{Seq: 2, Err: errors.New("timeout")}))
	f.h.HandleTickMsg(&f.s)
	assert.Equal(t, "Error: timeout", f.s.Response)
	assert.False(t, f.s.IsReply)
}
