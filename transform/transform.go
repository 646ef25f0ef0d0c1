// Package transform runs the whole pipeline: classify inputs, parse
// markup documents, assemble the document tree, resolve references,
// build sections, merge templates and render HTML.
package transform

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/config"
	"github.com/hesusruiz/docweave/doctree"
	"github.com/hesusruiz/docweave/engine"
	"github.com/hesusruiz/docweave/render"
	"github.com/hesusruiz/docweave/rewrite"
	"github.com/hesusruiz/docweave/source"
	"github.com/hesusruiz/docweave/textedit"
	"github.com/hesusruiz/docweave/tmpl"
)

// DocumentKind classifies one input file.
type DocumentKind int

const (
	KindIgnored DocumentKind = iota
	KindMarkup
	KindTemplate
	KindConfig
	KindStatic
)

// Classifier decides what an input path contains.
type Classifier func(p doctree.Path) DocumentKind

// DefaultClassifier classifies by file name: *.md is markup,
// default.template.html a template, directory.yaml per-directory
// configuration; everything else is static content.
func DefaultClassifier(p doctree.Path) DocumentKind {
	switch {
	case p.Name() == "directory.yaml":
		return KindConfig
	case p.Name() == "default.template.html":
		return KindTemplate
	case strings.HasSuffix(p.Name(), ".md"):
		return KindMarkup
	}
	return KindStatic
}

// Input is one file handed to the transformer.
type Input struct {
	Path doctree.Path
	Text string
}

// Output is one rendered document.
type Output struct {
	Path doctree.Path
	HTML []byte
}

// PathError is a fatal problem with one input; it never blocks the
// processing of sibling documents.
type PathError struct {
	Path doctree.Path
	Err  error
}

func (e *PathError) Error() string {
	return e.Path.String() + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }

// DocMessage is one runtime message collected from a rendered document.
type DocMessage struct {
	Path     doctree.Path
	Severity ast.Severity
	Content  string
}

// MessageError fails a run whose documents contain messages at or above
// the failure threshold.
type MessageError struct {
	Messages []DocMessage
}

func (e *MessageError) Error() string {
	var sb strings.Builder
	sb.WriteString("documents contain errors:")
	for _, m := range e.Messages {
		sb.WriteString("\n  ")
		sb.WriteString(m.Path.String())
		sb.WriteString(" [")
		sb.WriteString(m.Severity.String())
		sb.WriteString("] ")
		sb.WriteString(m.Content)
	}
	return sb.String()
}

// Result carries everything a run produced.
type Result struct {
	Outputs  []Output
	Tree     *doctree.DocumentTree
	Messages []DocMessage
	Errors   []*PathError
}

// Transformer drives the pipeline for one format.
type Transformer struct {
	Format   *engine.Format
	Classify Classifier
	Config   *config.Config
	Log      *zap.SugaredLogger

	// RenderMessages renders runtime messages in place instead of
	// failing the run when one reaches FailSeverity.
	RenderMessages bool
	// FailSeverity is the threshold for failing the run; zero means the
	// default, Error.
	FailSeverity ast.Severity
}

func New(format *engine.Format, logger *zap.SugaredLogger) *Transformer {
	if logger == nil {
		logger = zap.S()
	}
	return &Transformer{
		Format:       format,
		Classify:     DefaultClassifier,
		Config:       config.New(nil),
		Log:          logger,
		FailSeverity: ast.Error,
	}
}

// Transform runs the pipeline over a set of inputs. Fatal per-document
// problems are collected in Result.Errors; the returned error is non-nil
// when the run as a whole must be considered failed.
func (t *Transformer) Transform(ctx context.Context, inputs []Input) (*Result, error) {
	res := &Result{}

	var markup, templates []Input
	configs := make(map[string]string)
	for _, in := range inputs {
		switch t.Classify(in.Path) {
		case KindMarkup:
			markup = append(markup, in)
		case KindTemplate:
			templates = append(templates, in)
		case KindConfig:
			configs[in.Path.Parent().String()] = in.Text
		}
	}

	dirCfg := t.directoryConfigs(markup, configs, res)
	docs := t.parseDocuments(ctx, markup, dirCfg, res)
	tree := assembleTree(docs, dirCfg, t.Config)
	res.Tree = tree

	tpls := t.parseTemplates(templates, res)
	t.rewriteAll(ctx, tree)
	t.renderAll(ctx, tree, tpls, res)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if !t.RenderMessages {
		var above []DocMessage
		for _, m := range res.Messages {
			if m.Severity >= t.failSeverity() {
				above = append(above, m)
			}
		}
		if len(above) > 0 {
			return res, &MessageError{Messages: above}
		}
	}
	return res, nil
}

func (t *Transformer) failSeverity() ast.Severity {
	if t.FailSeverity == 0 {
		return ast.Error
	}
	return t.FailSeverity
}

// directoryConfigs builds one config layer per directory that holds
// documents, chained parent to child from the transformer's base config.
func (t *Transformer) directoryConfigs(markup []Input, configs map[string]string, res *Result) map[string]*config.Config {
	dirs := map[string]bool{doctree.Root.String(): true}
	for _, in := range markup {
		for dir := in.Path.Parent(); ; dir = dir.Parent() {
			dirs[dir.String()] = true
			if dir.IsRoot() {
				break
			}
		}
	}
	names := make([]string, 0, len(dirs))
	for d := range dirs {
		names = append(names, d)
	}
	sort.Strings(names) // parents sort before children

	out := make(map[string]*config.Config, len(names))
	for _, name := range names {
		p := doctree.ParsePath(name)
		parent := t.Config
		if !p.IsRoot() {
			parent = out[p.Parent().String()]
		}
		text, ok := configs[name]
		if !ok {
			out[name] = parent
			continue
		}
		cfg, err := config.Parse(text, parent)
		if err != nil {
			res.Errors = append(res.Errors, &PathError{Path: p.Child("directory.yaml"), Err: err})
			out[name] = parent
			continue
		}
		out[name] = cfg
	}
	return out
}

// parseDocuments parses all markup inputs concurrently. Each document
// gets its front matter as a config layer over its directory config, and
// its named fragments extracted from the main content.
func (t *Transformer) parseDocuments(ctx context.Context, markup []Input, dirCfg map[string]*config.Config, res *Result) []*doctree.Document {
	docs := make([]*doctree.Document, len(markup))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, in := range markup {
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			doc, err := t.parseDocument(in, dirCfg[in.Path.Parent().String()])
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Errors = append(res.Errors, &PathError{Path: in.Path, Err: err})
				return
			}
			docs[i] = doc
		}(i, in)
	}
	wg.Wait()

	kept := docs[:0]
	for _, d := range docs {
		if d != nil {
			kept = append(kept, d)
		}
	}
	return kept
}

func (t *Transformer) parseDocument(in Input, parent *config.Config) (*doctree.Document, error) {
	text := textedit.Normalize(in.Text)
	front, body, bodyLine := config.ExtractFrontMatter(text)

	cfg := parent
	if front != "" {
		var err error
		cfg, err = config.Parse(front, parent)
		if err != nil {
			return nil, err
		}
	}

	frag := source.NewFragment(in.Path.String(), body)
	if bodyLine > 1 {
		frag = source.NewNestedFragment(frag, body, bodyLine)
	}
	root, err := engine.NewRootParser(t.Format).ParseDocument(frag)
	if err != nil {
		return nil, err
	}

	fragments := make(map[string][]ast.Block)
	rewritten, _ := ast.Rewrite(root, func(el ast.Element) (ast.Element, ast.RuleAction) {
		if f, ok := el.(ast.FragmentDefinition); ok {
			fragments[f.Name] = f.Content
			return nil, ast.Remove
		}
		return el, ast.Keep
	})
	root = rewritten.(ast.RootElement)

	t.Log.Debugw("parsed document", "path", in.Path.String(), "blocks", len(root.Blocks), "fragments", len(fragments))
	return &doctree.Document{
		Path:      in.Path,
		Content:   root,
		Fragments: fragments,
		Config:    cfg,
	}, nil
}

// assembleTree builds the directory tree bottom-up from the flat document
// list, fixes the document order and assigns tree positions.
func assembleTree(docs []*doctree.Document, dirCfg map[string]*config.Config, base *config.Config) *doctree.DocumentTree {
	nodes := make(map[string]*doctree.Tree)
	var node func(p doctree.Path) *doctree.Tree
	node = func(p doctree.Path) *doctree.Tree {
		if n, ok := nodes[p.String()]; ok {
			return n
		}
		cfg := dirCfg[p.String()]
		if cfg == nil {
			cfg = base
		}
		n := &doctree.Tree{Path: p, Config: cfg}
		nodes[p.String()] = n
		if !p.IsRoot() {
			parent := node(p.Parent())
			parent.Subtrees = append(parent.Subtrees, n)
		}
		return n
	}
	root := node(doctree.Root)
	for _, d := range docs {
		n := node(d.Path.Parent())
		n.Documents = append(n.Documents, d)
	}
	root.Sort()
	root.AssignPositions(nil)
	return &doctree.DocumentTree{Root: root}
}

// rewriteAll resolves references, builds sections and applies
// autonumbering for every document, concurrently. The target tables are
// built once, before any rewrite starts, because cross-document lookups
// need a complete read-only view of the tree.
func (t *Transformer) rewriteAll(ctx context.Context, tree *doctree.DocumentTree) {
	targets := rewrite.ScanTree(tree)
	cursors := tree.AllDocumentCursors()

	var wg sync.WaitGroup
	for _, cur := range cursors {
		wg.Add(1)
		go func(cur *doctree.DocumentCursor) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			doc := cur.Target
			rule := rewrite.ResolveRule(cur, targets)

			content, _ := ast.Rewrite(doc.Content, rule)
			doc.Content = content.(ast.RootElement)

			names := make([]string, 0, len(doc.Fragments))
			for name := range doc.Fragments {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				doc.Fragments[name] = ast.RewriteBlocks(doc.Fragments[name], rule)
			}

			doc.Content = rewrite.BuildSections(doc.Content)
			doc.Content = rewrite.NumberSections(doc.Content, doc.Position, doc.Config)
		}(cur)
	}
	wg.Wait()
}

// parseTemplates parses every template input, keyed by directory.
func (t *Transformer) parseTemplates(templates []Input, res *Result) map[string]*tmpl.Template {
	out := make(map[string]*tmpl.Template, len(templates))
	for _, in := range templates {
		tp, err := tmpl.Parse(in.Path, in.Text)
		if err != nil {
			res.Errors = append(res.Errors, &PathError{Path: in.Path, Err: err})
			continue
		}
		out[in.Path.Parent().String()] = tp
	}
	return out
}

// templateFor selects the nearest template walking from the document's
// directory up to the root, falling back to the built-in passthrough.
func templateFor(p doctree.Path, tpls map[string]*tmpl.Template) *tmpl.Template {
	for dir := p.Parent(); ; dir = dir.Parent() {
		if tp, ok := tpls[dir.String()]; ok {
			return tp
		}
		if dir.IsRoot() {
			return tmpl.Default()
		}
	}
}

// renderAll merges each document with its template and renders HTML,
// collecting every runtime message with its severity.
func (t *Transformer) renderAll(ctx context.Context, tree *doctree.DocumentTree, tpls map[string]*tmpl.Template, res *Result) {
	type rendered struct {
		out      Output
		messages []DocMessage
	}
	docs := tree.Root.AllDocuments()
	results := make([]*rendered, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc *doctree.Document) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			merged := templateFor(doc.Path, tpls).Merge(doc, doc.Config)
			r := &rendered{messages: collectMessages(doc.Path, merged)}

			h := render.NewHTML(doc.Config, t.Log)
			h.RenderMessages = t.RenderMessages
			r.out = Output{Path: doc.Path.WithSuffix("html"), HTML: h.Render(merged)}
			results[i] = r
		}(i, doc)
	}
	wg.Wait()

	for _, r := range results {
		if r == nil {
			continue
		}
		res.Outputs = append(res.Outputs, r.out)
		res.Messages = append(res.Messages, r.messages...)
	}
}

// collectMessages gathers every runtime message in a document, including
// those wrapped in invalid nodes.
func collectMessages(p doctree.Path, root ast.RootElement) []DocMessage {
	var out []DocMessage
	add := func(m ast.RuntimeMessage) {
		out = append(out, DocMessage{Path: p, Severity: m.Severity, Content: m.Content})
	}
	ast.Walk(root, func(el ast.Element) bool {
		switch n := el.(type) {
		case ast.RuntimeMessage:
			add(n)
		case ast.InvalidSpan:
			add(n.Message)
		case ast.InvalidBlock:
			add(n.Message)
		}
		return true
	})
	return out
}
