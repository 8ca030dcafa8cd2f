package studio

import (
	"testing"

	"post-tools-web/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	firstImage  = &domain.GeneratedImage{Data: []byte("first"), MIMEType: "image/png"}
	secondImage = &domain.GeneratedImage{Data: []byte("second"), MIMEType: "image/png"}
)

func TestImageStateZeroValueRejectsEverything(t *testing.T) {
	var s ImageState
	_, err := s.Begin(ActionGenerate, "anything")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, s.Edit(), domain.ErrInvalidTransition)
}

func TestImageStateIdleToReady(t *testing.T) {
	s := NewImageState("sunrise stretch")
	assert.Equal(t, PhaseIdle, s.Phase)

	prompt, err := s.Begin(ActionGenerate, "")
	require.NoError(t, err)
	assert.Equal(t, "sunrise stretch", prompt)
	assert.Equal(t, PhaseLoading, s.Phase)

	require.NoError(t, s.Succeed(firstImage))
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Same(t, firstImage, s.Image)
}

func TestImageStateBeginWhileLoadingIsNoop(t *testing.T) {
	s := NewImageState("p")
	_, err := s.Begin(ActionGenerate, "")
	require.NoError(t, err)

	for _, action := range []ImageAction{ActionGenerate, ActionRegenerate, ActionAnother} {
		_, err := s.Begin(action, "other")
		assert.ErrorIs(t, err, ErrInProgress, action.String())
	}
	assert.Equal(t, PhaseLoading, s.Phase)
	assert.Equal(t, "p", s.Prompt)
}

func TestImageStateFailureKeepsPreviousImage(t *testing.T) {
	s := NewImageState("p")
	_, _ = s.Begin(ActionGenerate, "")
	require.NoError(t, s.Succeed(firstImage))

	_, err := s.Begin(ActionAnother, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "p", s.Prompt)

	require.NoError(t, s.Fail("no image generated"))
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, "no image generated", s.Error)
	assert.Same(t, firstImage, s.Image)

	_, err = s.Approved()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestImageStateEditRegenerate(t *testing.T) {
	s := NewImageState("p")
	_, _ = s.Begin(ActionGenerate, "")
	require.NoError(t, s.Succeed(firstImage))

	require.NoError(t, s.Edit())
	assert.Equal(t, PhaseEditing, s.Phase)

	_, err := s.Begin(ActionAnother, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	prompt, err := s.Begin(ActionRegenerate, "  edited prompt ")
	require.NoError(t, err)
	assert.Equal(t, "edited prompt", prompt)
	assert.Same(t, firstImage, s.Image, "image changes only on success")

	require.NoError(t, s.Succeed(secondImage))
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Same(t, secondImage, s.Image)
	assert.Equal(t, "edited prompt", s.Prompt)
}

func TestImageStateCancelAndApprove(t *testing.T) {
	s := NewImageState("p")
	_, _ = s.Begin(ActionGenerate, "")
	require.NoError(t, s.Succeed(firstImage))

	require.NoError(t, s.Edit())
	require.NoError(t, s.Cancel())
	assert.Equal(t, PhaseReady, s.Phase)

	img, err := s.Approved()
	require.NoError(t, err)
	assert.Same(t, firstImage, img)
	assert.Equal(t, PhaseReady, s.Phase)

	assert.ErrorIs(t, s.Cancel(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, s.Succeed(secondImage), domain.ErrInvalidTransition)
	assert.ErrorIs(t, s.Fail("x"), domain.ErrInvalidTransition)
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabCopy, ParseTab(""))
	assert.Equal(t, TabCopy, ParseTab("nonsense"))
	assert.Equal(t, TabDesign, ParseTab("design"))
	assert.Equal(t, TabVisual, ParseTab("visual"))
	assert.Equal(t, TabVisual, ParseTab("visuals"))
	assert.Len(t, Tabs(), 3)
	assert.Equal(t, "Visual Studio", TabVisual.Label())
}
