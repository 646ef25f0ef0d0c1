package rewrite

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/doctree"
)

// TargetKind classifies what a resolved reference points at.
type TargetKind int

const (
	KindHeader TargetKind = iota
	KindAnchor             // explicit {#id} targets and explicit header ids
	KindLinkDef            // [id]: url definitions
	KindFootnote
	KindCitation
)

// Target is one resolvable definition with its finally assigned id.
// Headers, anchors and link definitions are global (addressable from
// other documents); footnotes and citations are local.
type Target struct {
	Kind  TargetKind
	Id    string // rendered fragment id inside its document
	Path  doctree.Path
	URL   string // link definitions only
	Title string
	Level int    // headers only
	Label string // rendered footnote/citation label
}

// Global reports whether the target is addressable from other documents.
func (t *Target) Global() bool {
	return t.Kind == KindHeader || t.Kind == KindAnchor || t.Kind == KindLinkDef
}

// autosymbols is the label sequence for [^*] footnotes; after one round
// the symbols repeat doubled, then tripled.
var autosymbols = []string{"*", "†", "‡", "§", "¶"}

func autosymbolLabel(n int) string {
	sym := autosymbols[n%len(autosymbols)]
	return strings.Repeat(sym, n/len(autosymbols)+1)
}

// DocumentTargets is the precomputed target table of one document. It is
// built in a single scan before the rewrite rule runs, so the rule itself
// only reads.
type DocumentTargets struct {
	Path doctree.Path
	Ids  *IdMap

	headers map[string][]*Target // suggested slug -> headers carrying it
	anchors map[string][]*Target // explicit ids and link defs; >1 = duplicate

	// Footnotes and citations keep every occurrence of a label in
	// document order, so duplicate labels still yield distinct ids.
	footnotes  map[string][]*Target // by explicit id or autonumber name
	citations  map[string][]*Target
	anonymous  []*Target // [*]: definitions in document order
	autonumber []*Target // [^#]: definitions in document order
	autosymbol []*Target
}

// ScanDocument walks the document content in document order, assigns
// final ids and footnote labels and builds the lookup maps.
func ScanDocument(doc *doctree.Document) *DocumentTargets {
	dt := &DocumentTargets{
		Path:      doc.Path,
		Ids:       NewIdMap(),
		headers:   make(map[string][]*Target),
		anchors:   make(map[string][]*Target),
		footnotes: make(map[string][]*Target),
		citations: make(map[string][]*Target),
	}
	nextNumber := 1
	scan := func(el ast.Element) bool {
		switch n := el.(type) {
		case ast.Header:
			suggested := n.Options.Id
			if suggested == "" {
				suggested = headerSlug(n.Content)
			}
			t := &Target{
				Kind:  KindHeader,
				Id:    dt.Ids.Register(suggested),
				Path:  doc.Path,
				Level: n.Level,
			}
			dt.headers[suggested] = append(dt.headers[suggested], t)
			if n.Options.Id != "" {
				dt.addAnchor(suggested, t)
			}
		case ast.InternalLinkTarget:
			t := &Target{
				Kind: KindAnchor,
				Id:   dt.Ids.Register(n.Options.Id),
				Path: doc.Path,
			}
			dt.addAnchor(n.Options.Id, t)
		case ast.LinkDefinition:
			t := &Target{
				Kind:  KindLinkDef,
				Path:  doc.Path,
				URL:   n.URL,
				Title: n.Title,
			}
			if n.Id == "" {
				dt.anonymous = append(dt.anonymous, t)
			} else {
				dt.addAnchor(n.Id, t)
			}
		case ast.FootnoteDefinition:
			label := strconv.Itoa(nextNumber)
			suggested := "fn-" + label
			if n.Label.Kind == ast.LabelAutosymbol {
				label = autosymbolLabel(len(dt.autosymbol))
				suggested = "fn-sym"
			} else {
				nextNumber++
			}
			if n.Label.Name != "" {
				suggested = "fn-" + slugChars(strings.ToLower(n.Label.Name))
			}
			t := &Target{
				Kind:  KindFootnote,
				Id:    dt.Ids.Register(suggested),
				Path:  doc.Path,
				Label: label,
			}
			switch n.Label.Kind {
			case ast.LabelId, ast.LabelAutonumberName:
				dt.footnotes[n.Label.Name] = append(dt.footnotes[n.Label.Name], t)
			case ast.LabelAutonumber:
				dt.autonumber = append(dt.autonumber, t)
			case ast.LabelAutosymbol:
				dt.autosymbol = append(dt.autosymbol, t)
			}
		case ast.Citation:
			dt.citations[n.Label] = append(dt.citations[n.Label], &Target{
				Kind:  KindCitation,
				Id:    dt.Ids.Register("citation-" + n.Label),
				Path:  doc.Path,
				Label: n.Label,
			})
		}
		return true
	}
	ast.Walk(doc.Content, scan)
	// Fragments scan in name order so positional queues stay deterministic.
	names := make([]string, 0, len(doc.Fragments))
	for name := range doc.Fragments {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, b := range doc.Fragments[name] {
			ast.Walk(b, scan)
		}
	}
	return dt
}

// addAnchor records an explicitly named target. A second definition of
// the same name inside one document makes the name ambiguous.
func (dt *DocumentTargets) addAnchor(name string, t *Target) {
	dt.anchors[name] = append(dt.anchors[name], t)
}

// Lookup resolves a plain id within this document: explicit targets win
// over headers; among headers sharing a slug the lowest level wins and a
// same-level tie is ambiguous.
func (dt *DocumentTargets) Lookup(name string) (*Target, LookupStatus) {
	return resolveCandidates(dt.anchors[name], dt.headers[name])
}

// resolveCandidates applies the shared precedence rule for one name:
// exactly one explicitly named target wins, several are a duplicate
// error, none defers to header disambiguation by level.
func resolveCandidates(anchors, headers []*Target) (*Target, LookupStatus) {
	switch len(anchors) {
	case 1:
		return anchors[0], LookupFound
	case 0:
		return pickHeader(headers)
	}
	return nil, LookupDuplicate
}

// LookupStatus is the outcome of a target table lookup.
type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupMissing
	LookupDuplicate
)

// pickHeader disambiguates headers sharing one suggested id by nesting
// level: level 1 beats level 3. Two candidates on the lowest level are a
// hard error rather than a document-order guess.
func pickHeader(cands []*Target) (*Target, LookupStatus) {
	switch len(cands) {
	case 0:
		return nil, LookupMissing
	case 1:
		return cands[0], LookupFound
	}
	best := cands[0]
	tie := false
	for _, c := range cands[1:] {
		switch {
		case c.Level < best.Level:
			best, tie = c, false
		case c.Level == best.Level:
			tie = true
		}
	}
	if tie {
		return nil, LookupDuplicate
	}
	return best, LookupFound
}

// headerSlug derives the suggested id from header text.
func headerSlug(content []ast.Span) string {
	return slugChars(strings.ToLower(ast.SpanText(content)))
}

func slugChars(text string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.TrimSpace(text) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(sb.String(), "-")
}
