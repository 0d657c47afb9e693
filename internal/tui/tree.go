package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vvka-141/temporarily/pkg/temporarily"
)

const (
	branchMid   = "├── "
	branchLast  = "└── "
	pipeIndent  = "│   "
	spaceIndent = "    "
)

// TreeRenderer formats an entry tree for display.
type TreeRenderer struct {
	styled bool
}

// NewTreeRenderer returns a renderer. When styled is false the output has
// no escape sequences.
func NewTreeRenderer(styled bool) *TreeRenderer {
	return &TreeRenderer{styled: styled}
}

// Render prints root with its full path followed by its descendants by base
// name, one per line. Directories end with a slash. Entries without a
// cleanup are tagged "(kept)".
func (r *TreeRenderer) Render(root temporarily.Entry) string {
	var sb strings.Builder
	sb.WriteString(r.label(root, root.Path()))
	sb.WriteByte('\n')
	r.children(&sb, root, "")
	return sb.String()
}

func (r *TreeRenderer) children(sb *strings.Builder, e temporarily.Entry, prefix string) {
	dir, ok := e.(*temporarily.DirEntry)
	if !ok {
		return
	}
	for i, child := range dir.Children {
		last := i == len(dir.Children)-1
		branch, indent := branchMid, pipeIndent
		if last {
			branch, indent = branchLast, spaceIndent
		}
		sb.WriteString(r.style(BranchStyle, prefix+branch))
		sb.WriteString(r.label(child, filepath.Base(child.Path())))
		sb.WriteByte('\n')
		r.children(sb, child, prefix+indent)
	}
}

func (r *TreeRenderer) label(e temporarily.Entry, name string) string {
	var text string
	if e.IsDir() {
		text = r.style(DirStyle, name+"/")
	} else {
		text = r.style(FileStyle, name)
	}
	text += " " + r.style(ModeStyle, fmt.Sprintf("(%#o)", uint32(e.Mode().Perm())))
	if !e.HasCleanup() {
		text += " " + r.style(KeptStyle, "(kept)")
	}
	return text
}

func (r *TreeRenderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// Success formats a one-line confirmation.
func (r *TreeRenderer) Success(msg string) string {
	if !r.styled {
		return msg
	}
	return SuccessStyle.Render(SymbolCheck + " " + msg)
}
