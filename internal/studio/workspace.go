package studio

import (
	"fmt"
	"sync"
	"time"

	"post-tools-web/internal/domain"
)

// Ticket は開始したリクエストの世代です。完了時に世代が変わっていれば結果は破棄されます。
type Ticket struct {
	epoch uint64
}

// Workspace は1つのブラウザセッションに対応する UI 状態の保持者です。
// 参照画像のプレビュー、現在のコンテンツパッケージ、画像生成状態を排他的に所有します。
// バックエンド呼び出し中はロックを保持しません。
type Workspace struct {
	ID string

	mu             sync.Mutex
	reference      *domain.InlineImage
	input          *domain.UserInput
	pkg            *domain.ContentPackage
	contentLoading bool
	contentError   string
	image          ImageState
	epoch          uint64
	updatedAt      time.Time
}

// NewWorkspace は空のワークスペースを生成します。
func NewWorkspace(id string) *Workspace {
	return &Workspace{ID: id, updatedAt: time.Now()}
}

// View は描画用に取り出したワークスペースの複製です。
type View struct {
	ID             string
	Reference      *domain.InlineImage
	Input          *domain.UserInput
	Package        *domain.ContentPackage
	ContentLoading bool
	ContentError   string
	Image          ImageState
	UpdatedAt      time.Time
}

// Snapshot は現在の状態の複製を返します。
func (w *Workspace) Snapshot() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		ID:             w.ID,
		Reference:      w.reference,
		ContentLoading: w.contentLoading,
		ContentError:   w.contentError,
		Image:          w.image,
		UpdatedAt:      w.updatedAt,
	}
	if w.input != nil {
		in := *w.input
		in.Image = nil
		v.Input = &in
	}
	if w.pkg != nil {
		pkg := *w.pkg
		v.Package = &pkg
	}
	return v
}

func (w *Workspace) touch() {
	w.updatedAt = time.Now()
}

// SetReference は参照画像を差し替えます。以前のプレビューは解放されます。
func (w *Workspace) SetReference(img *domain.InlineImage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reference = img
	w.touch()
}

// ClearReference は参照画像を破棄します。以降の送信には画像パートが含まれません。
func (w *Workspace) ClearReference() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reference = nil
	w.touch()
}

// Reference は現在の参照画像を返します。未設定の場合は nil です。
func (w *Workspace) Reference() *domain.InlineImage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reference
}

// BeginContent はコンテンツ生成を開始します。
// 表示中のパッケージと画像状態は即座に破棄され、処理中の画像リクエストの結果も無効になります。
func (w *Workspace) BeginContent() (Ticket, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.contentLoading {
		return Ticket{}, ErrInProgress
	}
	w.epoch++
	w.contentLoading = true
	w.contentError = ""
	w.pkg = nil
	w.input = nil
	w.image = ImageState{}
	w.touch()
	return Ticket{epoch: w.epoch}, nil
}

// CompleteContent はコンテンツ生成の結果を反映します。
// 成功時は画像状態を新しいパッケージの image_prompt で初期化します。
// 世代が変わっていた場合は何もせず false を返します。
func (w *Workspace) CompleteContent(t Ticket, in domain.UserInput, pkg *domain.ContentPackage, err error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t.epoch != w.epoch {
		return false
	}
	w.contentLoading = false
	w.touch()

	in.Image = nil
	w.input = &in

	if err != nil {
		w.contentError = err.Error()
		return true
	}
	if pkg == nil {
		w.contentError = fmt.Errorf("%w: empty content package", domain.ErrUpstream).Error()
		return true
	}

	w.pkg = pkg
	w.image = NewImageState(pkg.ImagePrompt)
	return true
}

// BeginImage は画像生成を開始し、送信すべきプロンプトを返します。
// 既に処理中の場合は ErrInProgress を返します。
func (w *Workspace) BeginImage(action ImageAction, prompt string) (Ticket, string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pkg == nil {
		return Ticket{}, "", fmt.Errorf("%w: no content package yet", domain.ErrInvalidTransition)
	}
	p, err := w.image.Begin(action, prompt)
	if err != nil {
		return Ticket{}, "", err
	}
	w.touch()
	return Ticket{epoch: w.epoch}, p, nil
}

// CompleteImage は画像生成の結果を反映します。
// 新しいパッケージが届いた後に完了した古いリクエストの結果は破棄し false を返します。
func (w *Workspace) CompleteImage(t Ticket, img *domain.GeneratedImage, err error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t.epoch != w.epoch {
		return false
	}
	w.touch()
	if err != nil {
		return w.image.Fail(err.Error()) == nil
	}
	return w.image.Succeed(img) == nil
}

// EditImage は Ready から Editing へ遷移します。
func (w *Workspace) EditImage() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	return w.image.Edit()
}

// CancelEdit は Editing から Ready へ戻ります。
func (w *Workspace) CancelEdit() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	return w.image.Cancel()
}

// ApprovedImage は承認対象の画像を返します。状態は変わりません。
func (w *Workspace) ApprovedImage() (*domain.GeneratedImage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.image.Approved()
}

// Release はワークスペースが所有するプレビューと生成画像をすべて解放します。
// 処理中のリクエストは世代の更新により結果が破棄されます。
func (w *Workspace) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.epoch++
	w.reference = nil
	w.input = nil
	w.pkg = nil
	w.contentLoading = false
	w.contentError = ""
	w.image = ImageState{}
}
