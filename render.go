package keyframer

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// sectionWriter assembles the document's CSS from block sections separated
// by blank lines, keeping the byte-count and error plumbing of io.WriterTo.
type sectionWriter struct {
	w       io.Writer
	total   int64
	started bool
	err     error
}

func (sw *sectionWriter) section(write func(io.Writer) (int64, error)) {
	if sw.err != nil {
		return
	}
	if sw.started {
		n, err := fmt.Fprint(sw.w, "\n")
		sw.total += int64(n)
		if err != nil {
			sw.err = err
			return
		}
	}
	n, err := write(sw.w)
	sw.total += n
	sw.err = err
	sw.started = true
}

// WriteTo writes the full resolved document: every global instance's block
// unscoped and first, then every scoped instance's block introduced by a
// "/* scope: <id> */" marker comment, then all @keyframes blocks. Scoped
// blocks come after global ones so standard cascade order lets scoped rules
// win on selector collisions. Selectors are emitted exactly as stored; the
// marker comments are the hook a host's scoping layer attributes blocks by.
func (k *Keyframer) WriteTo(w io.Writer) (int64, error) {
	sw := &sectionWriter{w: w}
	k.writeGlobalSections(sw)
	for _, s := range k.reg.scopedInOrder() {
		k.writeScopedSection(sw, s)
	}
	k.writeKeyframeSection(sw)
	return sw.total, sw.err
}

// Render returns the full resolved document as CSS text.
func (k *Keyframer) Render() string {
	var sb strings.Builder
	k.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// ResolveScope returns the CSS visible to an element carrying the given
// scope marker: every global block followed by that scope's block. The
// reserved global id and unknown scope ids resolve to the global blocks
// alone.
func (k *Keyframer) ResolveScope(scopeID string) string {
	var sb strings.Builder
	sw := &sectionWriter{w: &sb}
	k.writeGlobalSections(sw)
	if s, ok := k.reg.byScope(scopeID); ok {
		k.writeScopedSection(sw, s)
	}
	k.writeKeyframeSection(sw)
	return sb.String()
}

func (k *Keyframer) writeGlobalSections(sw *sectionWriter) {
	for _, s := range k.reg.globalsInOrder() {
		if s.Len() == 0 {
			continue
		}
		sw.section(s.WriteTo)
	}
}

func (k *Keyframer) writeScopedSection(sw *sectionWriter, s *Stylesheet) {
	if s.Len() == 0 {
		return
	}
	sw.section(func(w io.Writer) (int64, error) {
		n, err := fmt.Fprintf(w, "/* scope: %s */\n", s.scopeID)
		if err != nil {
			return int64(n), err
		}
		m, err := s.WriteTo(w)
		return int64(n) + m, err
	})
}

func (k *Keyframer) writeKeyframeSection(sw *sectionWriter) {
	if len(k.kfs.order) == 0 {
		return
	}
	sw.section(k.kfs.writeTo)
}

// noteMutation records a rule-level mutation and schedules the coalesced
// re-render pass.
func (k *Keyframer) noteMutation(what, scopeID, name string) {
	k.log.Debug(what, zap.String("scope", scopeID), zap.String("name", name))
	k.scheduleRender()
}

// scheduleRender posts one flush onto the runtime for however many
// mutations arrive before it runs. The flush pushes the freshly resolved
// document to the surface, so a batch of mutations is observably identical
// to rendering once after the last of them.
func (k *Keyframer) scheduleRender() {
	k.dirty = true
	if k.renderPending {
		return
	}
	k.renderPending = true
	k.rt.Post(k.flushRender)
}

func (k *Keyframer) flushRender() {
	k.renderPending = false
	if !k.dirty {
		return
	}
	k.dirty = false
	if k.surface == nil {
		return
	}
	css := k.Render()
	if err := k.surface.ApplyStyles(css); err != nil {
		k.log.Error("applying styles to surface", zap.Error(err))
		return
	}
	k.log.Debug("styles applied", zap.Int("bytes", len(css)))
}
