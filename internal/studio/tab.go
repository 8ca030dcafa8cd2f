package studio

// Tab は結果表示の3つのタブです。
type Tab string

const (
	TabCopy   Tab = "copy"
	TabDesign Tab = "design"
	TabVisual Tab = "visual"
)

// Tabs は表示順のタブ一覧です。
func Tabs() []Tab {
	return []Tab{TabCopy, TabDesign, TabVisual}
}

// Label はタブの見出しです。
func (t Tab) Label() string {
	switch t {
	case TabDesign:
		return "Design Guide"
	case TabVisual:
		return "Visual Studio"
	default:
		return "Copy & Structure"
	}
}

// ParseTab はクエリ値をタブに変換します。未知の値は TabCopy になります。
func ParseTab(s string) Tab {
	switch Tab(s) {
	case TabDesign:
		return TabDesign
	case TabVisual, "visuals":
		return TabVisual
	default:
		return TabCopy
	}
}
