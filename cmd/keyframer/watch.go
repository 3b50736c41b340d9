package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/isphillips/keyframer"
	"github.com/isphillips/keyframer/internal/report"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render whenever a stylesheet document changes",
	Long: `Load documents, write the rendered CSS, then keep watching their
directories. A changed document reloads in place and replaces its scope's
rules; a deleted document purges them. The output rewrites after every
pass.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringSlice("patterns", nil, "Glob patterns for stylesheet documents")
	f.StringP("output", "o", "", "Write CSS to this file after every reload")
	f.Bool("scoped", false, "Rewrite scoped selectors with the scope marker attribute")
	f.Duration("debounce", 250*time.Millisecond, "Quiet window after a burst of file events")
}

func runWatch(_ *cobra.Command, _ []string) error {
	log := newLogger()
	kf := keyframer.New(keyframer.WithLogger(log))
	loader := keyframer.NewLoader(kf)

	patterns := loadPatterns()
	stats, err := loader.LoadGlobs(patterns, keyframer.LoadOptions{Replace: true})
	if err != nil {
		// Keep going; a broken document may be mid-edit.
		log.Warn("initial load incomplete", zap.Error(err))
	}

	useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
	summary := report.NewSummary(os.Stderr, useColors)
	summary.PrintLoadStats(stats)

	if err := writeCSS(renderOutput(kf)); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directories rather than the files themselves, so
	// editors that replace files on save and newly created documents are
	// both seen.
	dirs := make(map[string]bool)
	for _, path := range loader.Files() {
		dirs[filepath.Dir(path)] = true
	}
	for _, pattern := range patterns {
		dirs[patternRoot(pattern)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			log.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		log.Info("watching", zap.String("dir", dir))
	}

	debounce := getDurationWithFallback("debounce", "watch.debounce", 250*time.Millisecond)
	wait := time.Now()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if wait.After(time.Now()) {
				continue
			}
			if !handleWatchEvent(loader, event) {
				continue
			}
			wait = time.Now().Add(debounce)
			fmt.Fprintf(os.Stderr, "%s %s\n",
				report.RenderStyle(report.StyleDim, "reload", useColors), event.Name)
			if err := writeCSS(renderOutput(kf)); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

// handleWatchEvent applies one file event to the loader. The return
// reports whether stylesheet state changed and the output needs a rewrite.
func handleWatchEvent(loader *keyframer.Loader, event fsnotify.Event) bool {
	if !isDocumentPath(event.Name) {
		return false
	}
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return loader.Forget(event.Name)
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	if _, err := loader.LoadFile(event.Name, keyframer.LoadOptions{Replace: true}); err != nil {
		fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
		return false
	}
	return true
}

func isDocumentPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".css":
		return true
	}
	return false
}

// patternRoot returns the fixed directory prefix of a glob pattern, the
// part before the first meta character.
func patternRoot(pattern string) string {
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	var fixed []string
	for _, part := range parts {
		if strings.ContainsAny(part, "*?[{") {
			break
		}
		fixed = append(fixed, part)
	}
	root := strings.Join(fixed, "/")
	if root == "" {
		return "."
	}
	root = filepath.FromSlash(root)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}
