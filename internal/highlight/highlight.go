// Package highlight is the highlighting collaborator used by documentation pages.
// It scans a rendered view for <pre><code> blocks and replaces their contents
// with markup produced by the Chroma library.
package highlight

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/logging"
	"github.com/conneroisu/bifrostdocs/internal/view"
)

// Options configures the highlighter.
type Options struct {
	Style       string
	Classes     bool
	LineNumbers bool
	TabWidth    int
}

// Service highlights code blocks in rendered views.
type Service struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	logger    logging.Logger
	// preStyle is the background the formatter would have put on its own <pre>.
	// Empty when highlighting with classes.
	preStyle string

	scans  atomic.Int64
	blocks atomic.Int64
}

// aliases maps the class names used in the samples to Chroma lexer names.
var aliases = map[string]string{
	"ts":    "typescript",
	"js":    "javascript",
	"shell": "bash",
	"sh":    "bash",
	"html":  "html",
	"scss":  "scss",
}

// NewService creates a highlighter. Unknown style names fall back to Chroma's default style.
func NewService(opts Options, logger logging.Logger) *Service {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	formatter := chromahtml.New(
		chromahtml.WithClasses(opts.Classes),
		chromahtml.WithLineNumbers(opts.LineNumbers),
		chromahtml.TabWidth(opts.TabWidth),
		chromahtml.PreventSurroundingPre(true),
	)
	s := &Service{
		style:     styles.Get(opts.Style),
		formatter: formatter,
		logger:    logger.WithComponent("highlight"),
	}
	if !opts.Classes {
		s.preStyle = chromahtml.StyleEntryToCSS(s.style.Get(chroma.Background))
	}
	return s
}

// HighlightAll highlights every code block in v that has not been highlighted yet.
func (s *Service) HighlightAll(ctx context.Context, v *view.View) error {
	s.scans.Add(1)

	for _, block := range v.CodeBlocks() {
		if err := ctx.Err(); err != nil {
			return errors.NewHighlightError(errors.CodeHighlightFailed, "highlighting cancelled", err)
		}
		if block.Highlighted() {
			continue
		}
		markup, err := s.HighlightCode(block.Language, block.Text())
		if err != nil {
			return err
		}
		if err := block.Replace(markup); err != nil {
			return errors.NewHighlightError(errors.CodeHighlightFailed, "replacing code block", err)
		}
		if s.preStyle != "" {
			block.SetPreStyle(s.preStyle)
		}
		s.blocks.Add(1)
	}

	s.logger.Debug(ctx, "View highlighted", "bytes", v.Len())
	return nil
}

// HighlightCode renders code in language lang to highlighted HTML without a surrounding <pre>.
func (s *Service) HighlightCode(lang, code string) (string, error) {
	lexer := lexerFor(lang)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", errors.NewHighlightError(errors.CodeHighlightFailed, "tokenising "+lang, err)
	}

	var buf bytes.Buffer
	if err := s.formatter.Format(&buf, s.style, iterator); err != nil {
		return "", errors.NewHighlightError(errors.CodeHighlightFailed, "formatting "+lang, err)
	}
	return buf.String(), nil
}

// Stylesheet returns the CSS for the configured style. Only needed when Classes is set.
func (s *Service) Stylesheet() (string, error) {
	var buf bytes.Buffer
	if err := s.formatter.WriteCSS(&buf, s.style); err != nil {
		return "", errors.NewHighlightError(errors.CodeHighlightFailed, "writing stylesheet", err)
	}
	return buf.String(), nil
}

// StyleName returns the name of the style in use.
func (s *Service) StyleName() string {
	return s.style.Name
}

// Count returns how many times HighlightAll ran.
func (s *Service) Count() int64 {
	return s.scans.Load()
}

// Blocks returns how many code blocks were highlighted.
func (s *Service) Blocks() int64 {
	return s.blocks.Load()
}

func lexerFor(lang string) chroma.Lexer {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := aliases[lang]; ok {
		lang = alias
	}
	if lang == "" {
		lang = "plaintext"
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Get("plaintext")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
