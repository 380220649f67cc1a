package watch

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/foldend/foldend/pkg/pipeline"
)

// translateEvent maps a raw fsnotify event to a pipeline.Event, or returns
// nil if the event's operation bits don't correspond to any recognized
// kind (fsnotify reports a handful of platform-specific bits we don't
// classify).
func translateEvent(event fsnotify.Event) *pipeline.Event {
	var kinds []pipeline.Kind
	if event.Op&fsnotify.Create != 0 {
		kinds = append(kinds, pipeline.KindCreate)
	}
	if event.Op&fsnotify.Write != 0 {
		kinds = append(kinds, pipeline.KindModify)
	}
	if event.Op&fsnotify.Chmod != 0 {
		kinds = append(kinds, pipeline.KindAccess)
	}
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		kinds = append(kinds, pipeline.KindRemove)
	}
	if len(kinds) == 0 {
		return nil
	}
	return &pipeline.Event{Path: event.Name, Kinds: kinds}
}

// addWatches subscribes watcher to root, and, if recursive is set, to every
// subdirectory beneath it.
func addWatches(watcher *fsnotify.Watcher, root string, recursive bool) error {
	if !recursive {
		return watcher.Add(root)
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
