package keyframer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gosimple/slug"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/isphillips/keyframer/internal/cssparse"
)

// LoadStats tracks document loading statistics.
type LoadStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesLoaded     int // Documents parsed and applied
	FilesSkipped    int // Files dropped by the two-layer filter
	ScopesCreated   int // Stylesheet instances constructed
	RulesAdded      int // Rules written across all instances
	KeyframeSets    int // Keyframe sets registered
}

// LoadOptions controls how documents are applied.
type LoadOptions struct {
	// Replace lets a document take over a scope id that another document
	// already claimed: the prior instance is purged and the new one wins.
	// Without it a scope collision across files is an error.
	Replace bool
}

// documentData is the format-neutral parse of one stylesheet document.
// Both the YAML and the CSS reader produce it, which is what keeps their
// rendered output identical for equivalent inputs.
type documentData struct {
	path      string
	scope     string
	rules     []documentRule
	keyframes []documentKeyframes
}

// documentRule is one selector block in source order. line is 1-based for
// YAML documents and 0 when the format cannot say.
type documentRule struct {
	selector string
	decl     Declaration
	line     int
}

// documentKeyframes is one named waypoint set in source order.
type documentKeyframes struct {
	name      string
	waypoints []Waypoint
	line      int
}

// documentExts is the fast first layer of the file filter.
var documentExts = map[string]bool{
	".yaml": true,
	".yml":  true,
	".css":  true,
}

var (
	// ignore matcher caching
	ignoreMatchers []*ignore.GitIgnore
	ignoreOnce     sync.Once
)

// ignoreFileNames are consulted for the second filter layer. Missing files
// degrade gracefully.
var ignoreFileNames = []string{".gitignore", ".keyframerignore"}

// loadIgnoreMatchers compiles the ignore files once (thread-safe).
func loadIgnoreMatchers() []*ignore.GitIgnore {
	ignoreOnce.Do(func() {
		for _, name := range ignoreFileNames {
			gi, err := ignore.CompileIgnoreFile(name)
			if err != nil {
				continue
			}
			ignoreMatchers = append(ignoreMatchers, gi)
		}
	})
	return ignoreMatchers
}

// shouldSkipDocument determines if a file should be excluded from loading.
//
// Two-layer filtering:
// 1. Extension check (fast): only .yaml, .yml and .css documents load
// 2. Ignore check: skip files matched by .gitignore or .keyframerignore
// (only for relative paths; absolute paths sit outside the project)
func shouldSkipDocument(path string) bool {
	if !documentExts[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	if !filepath.IsAbs(path) {
		for _, gi := range loadIgnoreMatchers() {
			if gi.MatchesPath(path) {
				return true
			}
		}
	}
	return false
}

// ExpandGlobs expands doublestar patterns to a deduplicated list of
// loadable document paths, counting what was discovered versus skipped.
func ExpandGlobs(patterns []string) ([]string, LoadStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := LoadStats{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, fmt.Errorf("glob %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipDocument(match) {
				stats.FilesSkipped++
				continue
			}
			seen[match] = true
			files = append(files, match)
		}
	}

	return files, stats, nil
}

// ScopeFromPath derives the default scope id for a document that does not
// declare one: the file name without extension, slugified.
func ScopeFromPath(path string) string {
	base := filepath.Base(path)
	return slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Loader reads stylesheet documents from disk into a Keyframer and
// remembers which instance came from which file, so a changed file can be
// reloaded in place. Watch mode leans on that.
type Loader struct {
	kf     *Keyframer
	sheets map[string]*Stylesheet
	loaded map[string]bool
	files  []string
}

// NewLoader returns a loader feeding kf.
func NewLoader(kf *Keyframer) *Loader {
	return &Loader{
		kf:     kf,
		sheets: make(map[string]*Stylesheet),
		loaded: make(map[string]bool),
	}
}

// Files returns every path this loader has applied, in first-load order.
func (l *Loader) Files() []string {
	out := make([]string, len(l.files))
	copy(out, l.files)
	return out
}

// LoadGlobs expands the patterns and loads every matching document.
// Per-file failures are aggregated; the remaining documents still load.
func (l *Loader) LoadGlobs(patterns []string, opts LoadOptions) (LoadStats, error) {
	files, stats, err := ExpandGlobs(patterns)
	if err != nil {
		return stats, err
	}

	var errs error
	for _, path := range files {
		if err := l.loadPath(path, opts, &stats); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		stats.FilesLoaded++
		l.notePath(path)
	}
	return stats, errs
}

// LoadFile loads or reloads a single document. A document previously loaded
// from the same path is purged and replaced.
func (l *Loader) LoadFile(path string, opts LoadOptions) (LoadStats, error) {
	var stats LoadStats
	if err := l.loadPath(path, opts, &stats); err != nil {
		return stats, err
	}
	stats.FilesLoaded++
	l.notePath(path)
	return stats, nil
}

// Loaded reports whether the loader has applied a document from path.
func (l *Loader) Loaded(path string) bool { return l.loaded[path] }

// Forget drops a path from the loader and purges the stylesheet instance
// its document produced. Watch mode calls this when a document is deleted.
// The return reports whether the path was known.
func (l *Loader) Forget(path string) bool {
	if !l.loaded[path] {
		return false
	}
	if sheet, ok := l.sheets[path]; ok {
		sheet.Purge()
		delete(l.sheets, path)
	}
	delete(l.loaded, path)
	for i, p := range l.files {
		if p == path {
			l.files = append(l.files[:i], l.files[i+1:]...)
			break
		}
	}
	return true
}

func (l *Loader) notePath(path string) {
	if !l.loaded[path] {
		l.loaded[path] = true
		l.files = append(l.files, path)
	}
}

func (l *Loader) loadPath(path string, opts LoadOptions, stats *LoadStats) error {
	// #nosec G304 - paths come from user-supplied glob patterns
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := parseDocument(path, content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return l.applyDocument(doc, opts, stats)
}

// applyDocument turns one parsed document into stylesheet state: an
// instance for its rules plus globally registered keyframe sets.
func (l *Loader) applyDocument(doc *documentData, opts LoadOptions, stats *LoadStats) error {
	if prior, ok := l.sheets[doc.path]; ok {
		prior.Purge()
		delete(l.sheets, doc.path)
	}

	scope := doc.scope
	if scope == "" {
		scope = ScopeFromPath(doc.path)
	}

	var errs error
	if len(doc.rules) > 0 {
		sheet, err := l.kf.NewStylesheet(scope, nil)
		if errors.Is(err, ErrDuplicateScope) && opts.Replace {
			if prior, ok := l.kf.Stylesheet(scope); ok {
				prior.Purge()
			}
			sheet, err = l.kf.NewStylesheet(scope, nil)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", doc.path, err)
		}
		l.sheets[doc.path] = sheet
		stats.ScopesCreated++

		for _, rule := range doc.rules {
			if err := sheet.AddRule(rule.selector, rule.decl); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: rule %q: %w", doc.path, rule.selector, err))
				continue
			}
			stats.RulesAdded++
		}
	}

	for _, set := range doc.keyframes {
		if _, err := l.kf.AddKeyframes(set.name, waypointMap(set.waypoints)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: keyframes %q: %w", doc.path, set.name, err))
			continue
		}
		stats.KeyframeSets++
	}

	l.kf.log.Debug("document loaded",
		zap.String("path", doc.path),
		zap.String("scope", scope),
		zap.Int("rules", len(doc.rules)),
		zap.Int("keyframes", len(doc.keyframes)))
	return errs
}

// LoadGlobs is the one-shot form: it loads every document matching the
// patterns into kf with a throwaway loader.
func LoadGlobs(kf *Keyframer, patterns []string, opts LoadOptions) (LoadStats, error) {
	return NewLoader(kf).LoadGlobs(patterns, opts)
}

// parseDocument dispatches on the file extension.
func parseDocument(path string, content []byte) (*documentData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLDocument(path, content)
	case ".css":
		return parseCSSDocument(path, string(content))
	default:
		return nil, fmt.Errorf("unsupported document type %q", filepath.Ext(path))
	}
}

// parseYAMLDocument reads the scope/rules/keyframes sections. Rule and
// waypoint order follow the document, which yaml.Node preserves and plain
// map decoding would lose.
func parseYAMLDocument(path string, content []byte) (*documentData, error) {
	var raw struct {
		Scope     string    `yaml:"scope"`
		Rules     yaml.Node `yaml:"rules"`
		Keyframes yaml.Node `yaml:"keyframes"`
	}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	doc := &documentData{path: path, scope: raw.Scope}

	err := walkMapping(&raw.Rules, "rules", func(selector string, value *yaml.Node, line int) error {
		var decl map[string]any
		if err := value.Decode(&decl); err != nil {
			return fmt.Errorf("rule %q: %w", selector, err)
		}
		doc.rules = append(doc.rules, documentRule{selector: selector, decl: Declaration(decl), line: line})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = walkMapping(&raw.Keyframes, "keyframes", func(name string, value *yaml.Node, line int) error {
		set := documentKeyframes{name: name, line: line}
		werr := walkMapping(value, fmt.Sprintf("keyframes %q", name), func(key string, frame *yaml.Node, _ int) error {
			percent, err := parseWaypointKey(key)
			if err != nil {
				return fmt.Errorf("keyframes %q: %w", name, err)
			}
			var style map[string]any
			if err := frame.Decode(&style); err != nil {
				return fmt.Errorf("keyframes %q waypoint %s: %w", name, key, err)
			}
			set.waypoints = append(set.waypoints, Waypoint{Percent: percent, Style: Declaration(style)})
			return nil
		})
		if werr != nil {
			return werr
		}
		doc.keyframes = append(doc.keyframes, set)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// walkMapping visits a YAML mapping's entries in document order. An absent
// node visits nothing; a node of any other kind fails with the label.
func walkMapping(node *yaml.Node, label string, visit func(key string, value *yaml.Node, line int) error) error {
	if node == nil || node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: expected a mapping", label)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if err := visit(keyNode.Value, valNode, keyNode.Line); err != nil {
			return err
		}
	}
	return nil
}

// parseWaypointKey reads a YAML waypoint key: a number with optional "%"
// suffix, or the CSS keywords from and to.
func parseWaypointKey(key string) (float64, error) {
	switch key {
	case "from":
		return 0, nil
	case "to":
		return 100, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(key, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: waypoint key %q is not a percentage", ErrInvalidWaypoint, key)
	}
	return v, nil
}

// parseCSSDocument folds flat CSS into the nested declaration form: a
// ".btn:hover" block becomes a ":hover" sub-declaration of ".btn", and a
// rule inside "@media (…)" becomes an at-rule sub-declaration.
func parseCSSDocument(path, content string) (*documentData, error) {
	parsed, err := cssparse.Parse(content)
	if err != nil {
		return nil, err
	}

	doc := &documentData{path: path, scope: parsed.Scope}
	index := make(map[string]int)
	addRule := func(selector string, decl Declaration) {
		if i, ok := index[selector]; ok {
			doc.rules[i].decl = doc.rules[i].decl.Merge(decl)
			return
		}
		index[selector] = len(doc.rules)
		doc.rules = append(doc.rules, documentRule{selector: selector, decl: decl})
	}

	for _, rule := range parsed.Rules {
		decl := make(Declaration, len(rule.Properties))
		for _, p := range rule.Properties {
			decl[p.Name] = p.Value
		}
		if rule.Wrapper != "" {
			addRule(rule.Selector, Declaration{rule.Wrapper: decl})
			continue
		}
		if base, pseudo := splitPseudoSuffix(rule.Selector); pseudo != "" {
			addRule(base, Declaration{pseudo: decl})
			continue
		}
		addRule(rule.Selector, decl)
	}

	for _, block := range parsed.Keyframes {
		set := documentKeyframes{name: block.Name}
		for _, frame := range block.Frames {
			style := make(Declaration, len(frame.Properties))
			for _, p := range frame.Properties {
				style[p.Name] = p.Value
			}
			set.waypoints = append(set.waypoints, Waypoint{Percent: frame.Percent, Style: style})
		}
		doc.keyframes = append(doc.keyframes, set)
	}

	return doc, nil
}

// splitPseudoSuffix splits ".btn:hover" into ".btn" and ":hover" when the
// suffix is a single known pseudo token on a single simple selector.
// Anything else stays whole and the store treats it as an opaque selector.
func splitPseudoSuffix(selector string) (base, pseudo string) {
	idx := strings.Index(selector, ":")
	if idx <= 0 || strings.ContainsAny(selector[:idx], ", ") {
		return selector, ""
	}
	token := strings.ToLower(strings.TrimLeft(selector[idx:], ":"))
	if !knownPseudoTokens[token] {
		return selector, ""
	}
	return selector[:idx], selector[idx:]
}

// waypointMap converts the ordered waypoint list to the registration form.
func waypointMap(list []Waypoint) map[float64]Declaration {
	out := make(map[float64]Declaration, len(list))
	for _, wp := range list {
		out[wp.Percent] = wp.Style
	}
	return out
}

// FromCSS constructs a stylesheet instance from raw CSS text, preserving
// the text's rule order. @keyframes blocks in the text register globally.
// An empty scopeID defers to the text's /* @scope <id> */ pragma.
func (k *Keyframer) FromCSS(scopeID, cssText string) (*Stylesheet, error) {
	doc, err := parseCSSDocument("", cssText)
	if err != nil {
		return nil, err
	}
	if scopeID == "" {
		scopeID = doc.scope
	}

	sheet, err := k.NewStylesheet(scopeID, nil)
	if err != nil {
		return nil, err
	}

	var errs error
	for _, rule := range doc.rules {
		if err := sheet.AddRule(rule.selector, rule.decl); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rule %q: %w", rule.selector, err))
		}
	}
	for _, set := range doc.keyframes {
		if _, err := k.AddKeyframes(set.name, waypointMap(set.waypoints)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("keyframes %q: %w", set.name, err))
		}
	}
	if errs != nil {
		sheet.Purge()
		return nil, errs
	}
	return sheet, nil
}

// FromCSS constructs a stylesheet instance from CSS text on the package
// default.
func FromCSS(scopeID, cssText string) (*Stylesheet, error) {
	return Default().FromCSS(scopeID, cssText)
}
