package output

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Branch glyphs used by RenderFileTree.
const (
	branchMid = "├── "
	branchEnd = "└── "
	indentBar = "│   "
	indentGap = "    "
)

// treeEntry is one file or directory of a rendered project tree.
type treeEntry struct {
	name     string
	note     string
	dir      bool
	children map[string]*treeEntry
}

type treeLine struct {
	text string
	note string
}

// RenderFileTree draws files under rootName. Keys are slash-separated
// relative paths, values are notes printed in one column after the longest
// line. A trailing slash marks a directory with no listed children.
func RenderFileTree(rootName string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	root := &treeEntry{name: rootName, dir: true}
	for p, note := range files {
		p = filepath.ToSlash(p)
		dir := strings.HasSuffix(p, "/")
		parts := strings.Split(strings.TrimSuffix(p, "/"), "/")

		cur := root
		for i, part := range parts {
			cur = cur.child(part)
			if i < len(parts)-1 || dir {
				cur.dir = true
			}
		}
		cur.note = note
	}

	var lines []treeLine
	root.collect("", &lines)

	width := 0
	for _, l := range lines {
		if w := lipgloss.Width(l.text); w > width {
			width = w
		}
	}

	styles := GetStyles()
	var sb strings.Builder
	sb.WriteString(styles.Bold.Render(rootName + "/"))
	sb.WriteString("\n")
	for _, l := range lines {
		sb.WriteString(l.text)
		if l.note != "" {
			sb.WriteString(strings.Repeat(" ", width-lipgloss.Width(l.text)+2))
			sb.WriteString(styles.Muted.Render(l.note))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e *treeEntry) child(name string) *treeEntry {
	if e.children == nil {
		e.children = make(map[string]*treeEntry)
	}
	c, ok := e.children[name]
	if !ok {
		c = &treeEntry{name: name}
		e.children[name] = c
	}
	return c
}

// sorted lists children with directories first, then by name.
func (e *treeEntry) sorted() []*treeEntry {
	out := make([]*treeEntry, 0, len(e.children))
	for _, c := range e.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].dir != out[j].dir {
			return out[i].dir
		}
		return out[i].name < out[j].name
	})
	return out
}

func (e *treeEntry) collect(prefix string, lines *[]treeLine) {
	kids := e.sorted()
	for i, k := range kids {
		branch, indent := branchMid, indentBar
		if i == len(kids)-1 {
			branch, indent = branchEnd, indentGap
		}
		name := k.name
		if k.dir {
			name += "/"
		}
		*lines = append(*lines, treeLine{text: prefix + branch + name, note: k.note})
		k.collect(prefix+indent, lines)
	}
}
