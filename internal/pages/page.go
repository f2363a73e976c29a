// Package pages contains the documentation page components. Every page renders
// a static article with embedded code samples, marks its documentation section
// active when mounted and highlights its code blocks once the view is stable.
package pages

import (
	"context"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/lifecycle"
	"github.com/conneroisu/bifrostdocs/internal/nav"
	"github.com/conneroisu/bifrostdocs/internal/view"
)

// Page is a mounted documentation page.
type Page interface {
	Name() string
	Title() string
	Section() string
	SampleFiles() []string
	Initialize(ctx context.Context)
	AfterRenderStable(ctx context.Context, v *view.View) error
	Highlighted() bool
	State() lifecycle.State
	Render(ctx context.Context) templ.Component
}

// Deps are the collaborators handed to every page factory.
type Deps struct {
	Highlighter lifecycle.Highlighter
	Nav         *nav.Store
	Samples     fs.FS
}

// Factory creates a fresh page instance for one mount.
type Factory func(Deps) Page

// Block is one titled section of a documentation article.
type Block struct {
	Heading string
	Text    string
	Sample  string
}

// Doc is the page implementation shared by every documentation topic.
type Doc struct {
	*lifecycle.HighlightOnce

	title   string
	section string
	anchor  string
	intro   string
	blocks  []Block
	samples fs.FS
}

var titleCaser = cases.Title(language.English)

func newDoc(deps Deps, name, section, topic, intro string, blocks []Block) *Doc {
	var setter lifecycle.ActiveSetter
	if deps.Nav != nil {
		setter = nav.Section(deps.Nav, section)
	}
	samples := deps.Samples
	if samples == nil {
		samples = EmbeddedSamples()
	}
	return &Doc{
		HighlightOnce: lifecycle.NewHighlightOnce(name, deps.Highlighter, setter),
		title:         titleCaser.String(topic),
		section:       section,
		anchor:        strings.ReplaceAll(strings.ToLower(topic), " ", "-"),
		intro:         intro,
		blocks:        blocks,
		samples:       samples,
	}
}

// Title returns the human readable page title.
func (d *Doc) Title() string {
	return d.title
}

// Section returns the documentation section the page belongs to.
func (d *Doc) Section() string {
	return d.section
}

// SampleFiles lists the sample sources rendered by the page.
func (d *Doc) SampleFiles() []string {
	files := make([]string, 0, len(d.blocks))
	for _, b := range d.blocks {
		if b.Sample != "" {
			files = append(files, b.Sample)
		}
	}
	return files
}

var docTemplate = template.Must(template.New("doc").Parse(
	`<article class="doc-page" id="{{.Anchor}}" data-page="{{.Name}}" data-section="{{.Section}}">` +
		`<h1>{{.Title}}</h1>` +
		`{{with .Intro}}<p class="intro">{{.}}</p>{{end}}` +
		`{{range .Blocks}}<section>` +
		`{{with .Heading}}<h2>{{.}}</h2>{{end}}` +
		`{{with .Text}}<p>{{.}}</p>{{end}}` +
		`{{if .Language}}<pre><code class="language-{{.Language}}">{{.Source}}</code></pre>{{end}}` +
		`</section>{{end}}` +
		`</article>`))

type docData struct {
	Anchor, Name, Section, Title, Intro string
	Blocks                              []blockData
}

type blockData struct {
	Heading, Text    string
	Language, Source string
}

// Render returns the article markup. Samples are read at render time so an
// override directory is picked up without a restart.
func (d *Doc) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data := docData{
			Anchor:  d.anchor,
			Name:    d.Name(),
			Section: d.section,
			Title:   d.title,
			Intro:   d.intro,
			Blocks:  make([]blockData, 0, len(d.blocks)),
		}
		for _, b := range d.blocks {
			block := blockData{Heading: b.Heading, Text: b.Text}
			if b.Sample != "" {
				src, err := fs.ReadFile(d.samples, b.Sample)
				if err != nil {
					return errors.NewRenderError(errors.CodeSampleMissing, "reading sample "+b.Sample, err).
						WithPage(d.Name())
				}
				block.Language = languageFor(b.Sample)
				block.Source = string(src)
			}
			data.Blocks = append(data.Blocks, block)
		}
		return templ.FromGoHTML(docTemplate, data).Render(ctx, w)
	})
}

func languageFor(file string) string {
	switch path.Ext(file) {
	case ".ts":
		return "ts"
	case ".sh":
		return "bash"
	case ".html":
		return "html"
	default:
		return "plaintext"
	}
}
