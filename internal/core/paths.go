package core

import "strings"

// Separator joins state names into a path, e.g. "Game.Playing.Alive".
const Separator = "."

// JoinPath appends name to the parent path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + Separator + name
}

// SplitPath splits a path into its parent path and last segment.
// "Game.Playing" returns ("Game", "Playing"); "Game" returns ("", "Game").
func SplitPath(path string) (parent, name string) {
	idx := strings.LastIndex(path, Separator)
	if idx == -1 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// Segments returns the names along path, outermost first.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Ancestors returns every prefix path of path including path itself,
// outermost first.
func Ancestors(path string) []string {
	segments := Segments(path)
	ancestors := make([]string, len(segments))

	current := ""
	for i, seg := range segments {
		current = JoinPath(current, seg)
		ancestors[i] = current
	}
	return ancestors
}

// IsDescendant reports whether path lies strictly below ancestor.
func IsDescendant(path, ancestor string) bool {
	if ancestor == "" {
		return path != ""
	}
	return strings.HasPrefix(path, ancestor+Separator)
}

// CommonAncestor returns the deepest path shared by a and b, or "" when the
// two paths have no common root.
func CommonAncestor(a, b string) string {
	as, bs := Segments(a), Segments(b)
	n := min(len(as), len(bs))

	i := 0
	for i < n && as[i] == bs[i] {
		i++
	}
	return strings.Join(as[:i], Separator)
}
