// Package doctree models the virtual tree of parsed documents: paths,
// documents with their fragments and configuration, and cursors for
// navigating the tree with access to the parent chain.
package doctree

import "strings"

// Path addresses a document or directory inside the virtual tree. Paths
// are always absolute within the tree; the zero value is the tree root.
type Path struct {
	segments []string
}

// Root is the tree root path "/".
var Root = Path{}

// ParsePath builds a Path from a "/"-separated string. Leading slashes
// and empty segments are ignored.
func ParsePath(s string) Path {
	var segs []string
	for _, seg := range strings.Split(s, "/") {
		if seg != "" && seg != "." {
			segs = append(segs, seg)
		}
	}
	return Path{segments: segs}
}

// Name returns the last segment, or "/" for the root.
func (p Path) Name() string {
	if len(p.segments) == 0 {
		return "/"
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the path with the last segment removed. The root is its
// own parent.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return p
	}
	return Path{segments: p.segments[:len(p.segments)-1]}
}

// Depth returns the number of segments.
func (p Path) Depth() int { return len(p.segments) }

// IsRoot reports whether p is the tree root.
func (p Path) IsRoot() bool { return len(p.segments) == 0 }

// Child returns the path extended by one segment.
func (p Path) Child(name string) Path {
	segs := make([]string, len(p.segments), len(p.segments)+1)
	copy(segs, p.segments)
	return Path{segments: append(segs, name)}
}

func (p Path) String() string {
	return "/" + strings.Join(p.segments, "/")
}

// Basename returns the name without its extension.
func (p Path) Basename() string {
	name := p.Name()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// WithSuffix returns the path with the name's extension replaced.
func (p Path) WithSuffix(ext string) Path {
	if len(p.segments) == 0 {
		return p
	}
	return p.Parent().Child(p.Basename() + "." + strings.TrimPrefix(ext, "."))
}

// Equal reports segment-wise equality.
func (p Path) Equal(o Path) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}

// RelativeTo returns p expressed relative to the directory containing
// from. A document at /b/child.md referring to /a/intro.md gets
// "../a/intro.md".
func (p Path) RelativeTo(from Path) string {
	base := from.Parent().segments
	target := p.segments
	common := 0
	for common < len(base) && common < len(target) && base[common] == target[common] {
		common++
	}
	var parts []string
	for i := common; i < len(base); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, target[common:]...)
	if len(parts) == 0 {
		return p.Name()
	}
	return strings.Join(parts, "/")
}

// Resolve interprets a possibly relative reference against the directory
// containing p, returning an absolute tree path.
func (p Path) Resolve(ref string) Path {
	if strings.HasPrefix(ref, "/") {
		return ParsePath(ref)
	}
	cur := p.Parent()
	for _, seg := range strings.Split(ref, "/") {
		switch seg {
		case "", ".":
		case "..":
			cur = cur.Parent()
		default:
			cur = cur.Child(seg)
		}
	}
	return cur
}
