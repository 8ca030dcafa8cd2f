package studio

import (
	"errors"
	"testing"
	"time"

	"post-tools-web/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePackage(prompt string) *domain.ContentPackage {
	return &domain.ContentPackage{Headline: "h", CTA: "c", ImagePrompt: prompt}
}

func sampleInput() domain.UserInput {
	return domain.UserInput{Niche: "Fitness", Format: domain.FormatCarousel, Topic: "stretches"}
}

func readyWorkspace(t *testing.T, prompt string) *Workspace {
	t.Helper()
	ws := NewWorkspace("ws")
	ticket, err := ws.BeginContent()
	require.NoError(t, err)
	require.True(t, ws.CompleteContent(ticket, sampleInput(), samplePackage(prompt), nil))
	return ws
}

func TestWorkspaceReference(t *testing.T) {
	ws := NewWorkspace("ws")
	assert.Nil(t, ws.Reference())

	first := &domain.InlineImage{Data: []byte("a"), MIMEType: "image/png"}
	second := &domain.InlineImage{Data: []byte("b"), MIMEType: "image/jpeg"}
	ws.SetReference(first)
	ws.SetReference(second)
	assert.Same(t, second, ws.Reference())

	ws.ClearReference()
	assert.Nil(t, ws.Reference())
	assert.Nil(t, ws.Snapshot().Reference)
}

func TestWorkspaceContentFlow(t *testing.T) {
	ws := NewWorkspace("ws")

	ticket, err := ws.BeginContent()
	require.NoError(t, err)
	assert.True(t, ws.Snapshot().ContentLoading)

	_, err = ws.BeginContent()
	assert.ErrorIs(t, err, ErrInProgress)

	require.True(t, ws.CompleteContent(ticket, sampleInput(), samplePackage("prompt A"), nil))
	v := ws.Snapshot()
	assert.False(t, v.ContentLoading)
	require.NotNil(t, v.Package)
	assert.Equal(t, PhaseIdle, v.Image.Phase)
	assert.Equal(t, "prompt A", v.Image.Prompt)
	require.NotNil(t, v.Input)
	assert.Equal(t, "Fitness", v.Input.Niche)
}

func TestWorkspaceContentFailureShowsNoPackage(t *testing.T) {
	ws := readyWorkspace(t, "prompt A")

	ticket, err := ws.BeginContent()
	require.NoError(t, err)
	require.True(t, ws.CompleteContent(ticket, sampleInput(), nil, errors.New("upstream error: boom")))

	v := ws.Snapshot()
	assert.Nil(t, v.Package)
	assert.Equal(t, "upstream error: boom", v.ContentError)
	assert.Equal(t, ImageState{}, v.Image)
}

func TestWorkspaceNewPackageResetsImageState(t *testing.T) {
	ws := readyWorkspace(t, "prompt A")

	ticket, prompt, err := ws.BeginImage(ActionGenerate, "")
	require.NoError(t, err)
	assert.Equal(t, "prompt A", prompt)
	require.True(t, ws.CompleteImage(ticket, firstImage, nil))
	require.NoError(t, ws.EditImage())

	content, err := ws.BeginContent()
	require.NoError(t, err)
	require.True(t, ws.CompleteContent(content, sampleInput(), samplePackage("prompt B"), nil))

	v := ws.Snapshot()
	assert.Equal(t, PhaseIdle, v.Image.Phase)
	assert.Nil(t, v.Image.Image)
	assert.Empty(t, v.Image.Error)
	assert.Equal(t, "prompt B", v.Image.Prompt)
}

func TestWorkspaceStaleImageResultIsDiscarded(t *testing.T) {
	ws := readyWorkspace(t, "prompt A")

	stale, _, err := ws.BeginImage(ActionGenerate, "")
	require.NoError(t, err)

	content, err := ws.BeginContent()
	require.NoError(t, err)
	require.True(t, ws.CompleteContent(content, sampleInput(), samplePackage("prompt B"), nil))

	assert.False(t, ws.CompleteImage(stale, firstImage, nil))
	v := ws.Snapshot()
	assert.Equal(t, PhaseIdle, v.Image.Phase)
	assert.Nil(t, v.Image.Image)
}

func TestWorkspaceImageTriggerWhileLoading(t *testing.T) {
	ws := readyWorkspace(t, "prompt A")

	_, _, err := ws.BeginImage(ActionGenerate, "")
	require.NoError(t, err)

	_, _, err = ws.BeginImage(ActionGenerate, "")
	assert.ErrorIs(t, err, ErrInProgress)
}

func TestWorkspaceImageWithoutPackage(t *testing.T) {
	ws := NewWorkspace("ws")
	_, _, err := ws.BeginImage(ActionGenerate, "p")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestWorkspaceReleaseDiscardsInFlight(t *testing.T) {
	ws := readyWorkspace(t, "prompt A")
	ws.SetReference(&domain.InlineImage{Data: []byte("a"), MIMEType: "image/png"})

	ticket, _, err := ws.BeginImage(ActionGenerate, "")
	require.NoError(t, err)

	ws.Release()
	assert.False(t, ws.CompleteImage(ticket, firstImage, nil))

	v := ws.Snapshot()
	assert.Nil(t, v.Reference)
	assert.Nil(t, v.Package)
}

func TestStore(t *testing.T) {
	s := NewStore(time.Hour)

	ws := s.Create()
	require.NotEmpty(t, ws.ID)

	got, ok := s.Get(ws.ID)
	require.True(t, ok)
	assert.Same(t, ws, got)

	same, created := s.GetOrCreate(ws.ID)
	assert.False(t, created)
	assert.Same(t, ws, same)

	fresh, created := s.GetOrCreate("unknown")
	assert.True(t, created)
	assert.NotEqual(t, ws.ID, fresh.ID)
	assert.Equal(t, 2, s.Len())

	ws.SetReference(&domain.InlineImage{Data: []byte("a"), MIMEType: "image/png"})
	s.Delete(ws.ID)
	_, ok = s.Get(ws.ID)
	assert.False(t, ok)
	assert.Nil(t, ws.Reference(), "deleted workspaces release their preview")
}

func TestStoreExpiryReleasesIdleWorkspace(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	ws := s.Create()
	ws.SetReference(&domain.InlineImage{Data: []byte("a"), MIMEType: "image/png"})

	// Get は有効期限を延長するため、期限切れまでは触らない
	assert.Eventually(t, func() bool {
		return ws.Reference() == nil
	}, time.Second, 10*time.Millisecond, "the janitor releases evicted workspaces")

	_, ok := s.Get(ws.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStoreGetExtendsExpiry(t *testing.T) {
	s := NewStore(200 * time.Millisecond)
	ws := s.Create()

	for i := 0; i < 4; i++ {
		time.Sleep(80 * time.Millisecond)
		_, ok := s.Get(ws.ID)
		require.True(t, ok, "access %d within the TTL keeps the workspace", i)
	}
}
