// Package cssparse reads plain CSS text into a flat document form. It
// understands top-level rule blocks, one level of @media/@supports/@container
// nesting, @keyframes blocks, and /* @scope <id> */ pragma comments. Anything
// else is skipped without error; only a broken input stream aborts the parse.
package cssparse

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Document is the parsed form of one stylesheet source.
type Document struct {
	// Scope is the id named by the first /* @scope <id> */ pragma, or "".
	Scope string

	// Rules holds selector blocks in source order.
	Rules []Rule

	// Keyframes holds @keyframes blocks in source order.
	Keyframes []KeyframeBlock
}

// Rule is a single selector block. Pseudo suffixes stay attached to the
// selector text; callers split them off when they need to.
type Rule struct {
	Selector string

	// Wrapper carries the enclosing at-rule prelude, for example
	// "@media (max-width: 600px)". Empty for top-level rules.
	Wrapper string

	Properties []Property
}

// Property is one declaration, in source order.
type Property struct {
	Name  string
	Value string
}

// KeyframeBlock is an @keyframes rule.
type KeyframeBlock struct {
	Name   string
	Frames []Frame
}

// Frame is one waypoint block inside @keyframes. A selector list such as
// "0%, 100%" yields one Frame per percentage.
type Frame struct {
	Percent    float64
	Properties []Property
}

// parser walks the token stream and accumulates the document.
type parser struct {
	lex *css.Lexer
	doc *Document
}

// Parse reads CSS content into a Document. Unsupported constructs are
// skipped; an error is returned only when the lexer itself fails.
func Parse(content string) (*Document, error) {
	p := &parser{
		lex: css.NewLexer(parse.NewInputString(content)),
		doc: &Document{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func (p *parser) run() error {
	for {
		tt, text := p.lex.Next()
		switch tt {
		case css.ErrorToken:
			return p.lexErr()
		case css.CommentToken:
			p.handleComment(text)
		case css.AtKeywordToken:
			if err := p.handleAtRule(string(text), ""); err != nil {
				return err
			}
		case css.WhitespaceToken, css.SemicolonToken, css.RightBraceToken, css.CDOToken, css.CDCToken:
			// nothing between rules
		default:
			if err := p.handleRule("", string(text)); err != nil {
				return err
			}
		}
	}
}

// lexErr converts the lexer state after an ErrorToken. EOF is the normal
// end of input, not a failure.
func (p *parser) lexErr() error {
	if err := p.lex.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("lex css: %w", err)
	}
	return nil
}

// handleComment records the first @scope pragma it sees.
func (p *parser) handleComment(text []byte) {
	if p.doc.Scope != "" {
		return
	}
	body := strings.TrimSpace(string(text))
	body = strings.TrimPrefix(body, "/*")
	body = strings.TrimSuffix(body, "*/")
	fields := strings.Fields(body)
	if len(fields) == 2 && fields[0] == "@scope" {
		p.doc.Scope = fields[1]
	}
}

// handleAtRule dispatches on the at-keyword. Wrapping at-rules recurse one
// level into their block; @keyframes gets its own reader; the rest are
// skipped wholesale.
func (p *parser) handleAtRule(keyword, wrapper string) error {
	switch keyword {
	case "@keyframes":
		return p.handleKeyframes()
	case "@media", "@supports", "@container":
		if wrapper != "" {
			// one nesting level only
			return p.skipAtRule()
		}
		return p.handleWrapped(keyword)
	default:
		return p.skipAtRule()
	}
}

// handleWrapped reads "@media (…) { rules }" and records the inner rules
// with the at-rule prelude attached as their Wrapper.
func (p *parser) handleWrapped(keyword string) error {
	var prelude []string
	for {
		tt, text := p.lex.Next()
		if tt == css.ErrorToken {
			return p.lexErr()
		}
		if tt == css.LeftBraceToken {
			break
		}
		if tt == css.SemicolonToken {
			// conditionless form, no block follows
			return nil
		}
		prelude = append(prelude, string(text))
	}

	wrapper := strings.TrimSpace(keyword + " " + strings.TrimSpace(strings.Join(prelude, "")))
	for {
		tt, text := p.lex.Next()
		if tt == css.ErrorToken {
			return p.lexErr()
		}
		if tt == css.RightBraceToken {
			return nil
		}
		switch tt {
		case css.WhitespaceToken, css.SemicolonToken:
			// skip
		case css.CommentToken:
			p.handleComment(text)
		case css.AtKeywordToken:
			if err := p.handleAtRule(string(text), wrapper); err != nil {
				return err
			}
		default:
			if err := p.handleRule(wrapper, string(text)); err != nil {
				return err
			}
		}
	}
}

// handleRule collects selector text up to the opening brace, then the
// declarations up to the matching closing brace.
func (p *parser) handleRule(wrapper, lead string) error {
	parts := []string{lead}
	for {
		tt, text := p.lex.Next()
		if tt == css.ErrorToken {
			return p.lexErr()
		}
		if tt == css.LeftBraceToken {
			break
		}
		if tt == css.SemicolonToken {
			// stray tokens without a block
			return nil
		}
		if tt == css.CommentToken {
			continue
		}
		parts = append(parts, string(text))
	}

	selector := strings.Join(strings.Fields(strings.Join(parts, "")), " ")
	props := p.declarations()
	if selector == "" {
		return nil
	}
	p.doc.Rules = append(p.doc.Rules, Rule{Selector: selector, Wrapper: wrapper, Properties: props})
	return nil
}

// handleKeyframes reads "@keyframes name { 0% { … } … }". The keywords
// from and to map to 0 and 100.
func (p *parser) handleKeyframes() error {
	var block KeyframeBlock
	for {
		tt, text := p.lex.Next()
		if tt == css.ErrorToken {
			return p.lexErr()
		}
		if tt == css.LeftBraceToken {
			break
		}
		if tt == css.SemicolonToken {
			return nil
		}
		if tt == css.IdentToken || tt == css.StringToken {
			block.Name = unquote(string(text))
		}
	}

	var percents []float64
	for {
		tt, text := p.lex.Next()
		if tt == css.ErrorToken || tt == css.RightBraceToken {
			break
		}
		switch tt {
		case css.PercentageToken:
			if v, err := strconv.ParseFloat(strings.TrimSuffix(string(text), "%"), 64); err == nil {
				percents = append(percents, v)
			}
		case css.IdentToken:
			switch string(text) {
			case "from":
				percents = append(percents, 0)
			case "to":
				percents = append(percents, 100)
			}
		case css.LeftBraceToken:
			props := p.declarations()
			for _, pc := range percents {
				block.Frames = append(block.Frames, Frame{Percent: pc, Properties: props})
			}
			percents = nil
		}
	}

	if block.Name != "" {
		p.doc.Keyframes = append(p.doc.Keyframes, block)
	}
	return nil
}

// declarations reads "name: value;" pairs until the closing brace,
// preserving source order.
func (p *parser) declarations() []Property {
	var (
		props []Property
		name  string
		value []string
	)
	flush := func() {
		if name != "" {
			if v := strings.TrimSpace(strings.Join(value, "")); v != "" {
				props = append(props, Property{Name: name, Value: v})
			}
		}
		name = ""
		value = nil
	}

	for {
		tt, text := p.lex.Next()
		if tt == css.ErrorToken || tt == css.RightBraceToken {
			flush()
			return props
		}
		switch {
		case tt == css.CommentToken:
			// dropped
		case (tt == css.IdentToken || tt == css.CustomPropertyNameToken) && name == "":
			name = string(text)
		case tt == css.ColonToken && name != "":
			// separator between name and value
		case tt == css.SemicolonToken:
			flush()
		case name != "":
			value = append(value, string(text))
		}
	}
}

// skipAtRule discards an unsupported at-rule, either up to its terminating
// semicolon or across its balanced block.
func (p *parser) skipAtRule() error {
	depth := 0
	for {
		tt, _ := p.lex.Next()
		switch tt {
		case css.ErrorToken:
			return p.lexErr()
		case css.SemicolonToken:
			if depth == 0 {
				return nil
			}
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth <= 0 {
				return nil
			}
		}
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
