package studio

import (
	"errors"
	"fmt"
	"strings"

	"post-tools-web/internal/domain"
)

// ErrInProgress は同じ対象へのリクエストが既に処理中であることを表します。
// 呼び出し側はトリガーを無効化されたものとして扱い、何もしません。
var ErrInProgress = errors.New("request already in flight")

// Phase は Visual Studio の画像生成ステートです。
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseEditing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseEditing:
		return "editing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ImageAction は画像生成を開始するユーザー操作の種類です。
type ImageAction int

const (
	// ActionGenerate は Idle からの初回生成（編集済みプロンプト可）です。
	ActionGenerate ImageAction = iota
	// ActionRegenerate は Editing で編集したプロンプトでの再生成です。
	ActionRegenerate
	// ActionAnother は Ready から同じプロンプトでもう1枚生成します。
	ActionAnother
)

func (a ImageAction) String() string {
	switch a {
	case ActionGenerate:
		return "generate"
	case ActionRegenerate:
		return "regenerate"
	case ActionAnother:
		return "another"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ImageState は1つのコンテンツパッケージに紐づく画像生成の状態です。
// ゼロ値はパッケージ未生成の状態を表し、どの操作も受け付けません。
type ImageState struct {
	Phase  Phase
	Prompt string
	// Image は最後に生成に成功した画像です。生成失敗時も表示用に保持します。
	Image *domain.GeneratedImage
	Error string
}

// NewImageState はパッケージの image_prompt をそのまま初期プロンプトとする Idle 状態を返します。
func NewImageState(prompt string) ImageState {
	return ImageState{Phase: PhaseIdle, Prompt: prompt}
}

func (s ImageState) active() bool {
	return strings.TrimSpace(s.Prompt) != ""
}

// Begin は action に応じて Loading へ遷移し、送信すべきプロンプトを返します。
// prompt が空の場合は現在のプロンプトを使います。ActionAnother では prompt を無視します。
func (s *ImageState) Begin(action ImageAction, prompt string) (string, error) {
	if !s.active() {
		return "", fmt.Errorf("%w: no content package yet", domain.ErrInvalidTransition)
	}
	if s.Phase == PhaseLoading {
		return "", ErrInProgress
	}

	switch action {
	case ActionGenerate:
		if s.Phase != PhaseIdle {
			return "", fmt.Errorf("%w: generate from %s", domain.ErrInvalidTransition, s.Phase)
		}
	case ActionRegenerate:
		if s.Phase != PhaseEditing {
			return "", fmt.Errorf("%w: regenerate from %s", domain.ErrInvalidTransition, s.Phase)
		}
	case ActionAnother:
		if s.Phase != PhaseReady {
			return "", fmt.Errorf("%w: generate another from %s", domain.ErrInvalidTransition, s.Phase)
		}
		prompt = ""
	default:
		return "", fmt.Errorf("%w: unknown action %s", domain.ErrInvalidTransition, action)
	}

	if p := strings.TrimSpace(prompt); p != "" {
		s.Prompt = p
	}
	s.Phase = PhaseLoading
	s.Error = ""
	return s.Prompt, nil
}

// Succeed は Loading から Ready へ遷移し、表示画像を差し替えます。
func (s *ImageState) Succeed(img *domain.GeneratedImage) error {
	if s.Phase != PhaseLoading {
		return fmt.Errorf("%w: succeed from %s", domain.ErrInvalidTransition, s.Phase)
	}
	s.Phase = PhaseReady
	s.Image = img
	s.Error = ""
	return nil
}

// Fail は Loading から Idle へ遷移し、エラーメッセージを設定します。表示画像は変更しません。
func (s *ImageState) Fail(message string) error {
	if s.Phase != PhaseLoading {
		return fmt.Errorf("%w: fail from %s", domain.ErrInvalidTransition, s.Phase)
	}
	s.Phase = PhaseIdle
	s.Error = message
	return nil
}

// Edit は Ready から Editing へ遷移します。
func (s *ImageState) Edit() error {
	if s.Phase != PhaseReady {
		return fmt.Errorf("%w: edit from %s", domain.ErrInvalidTransition, s.Phase)
	}
	s.Phase = PhaseEditing
	return nil
}

// Cancel は Editing から Ready へ戻ります。
func (s *ImageState) Cancel() error {
	if s.Phase != PhaseEditing {
		return fmt.Errorf("%w: cancel from %s", domain.ErrInvalidTransition, s.Phase)
	}
	s.Phase = PhaseReady
	return nil
}

// Approved は Ready の画像を返します。保存はクライアント側で行うため状態は変わりません。
func (s ImageState) Approved() (*domain.GeneratedImage, error) {
	if s.Phase != PhaseReady || s.Image == nil {
		return nil, fmt.Errorf("%w: approve from %s", domain.ErrInvalidTransition, s.Phase)
	}
	return s.Image, nil
}
