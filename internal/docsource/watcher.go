package docsource

import (
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates a DirSource's listing cache when the corpus changes
// on disk. It is optional: a DirSource without a watcher simply caches
// listings for the life of the process.
type Watcher struct {
	source  *DirSource
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching the source's root directory.
func NewWatcher(source *DirSource) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(source.Root()); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		source:  source,
		watcher: fsw,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.source.Invalidate()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[docsource] watch error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
