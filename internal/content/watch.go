package content

import (
	"context"
	"log"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Live is the site content currently served. It is swapped atomically when
// the backing file changes.
type Live struct {
	site atomic.Pointer[Site]
}

func NewLive(s *Site) *Live {
	l := &Live{}
	l.site.Store(s)
	return l
}

func (l *Live) Site() *Site { return l.site.Load() }

// Watch reloads path into l whenever it is written or replaced, until ctx is
// done. The parent directory is watched so editors that save by rename are
// picked up. A document that fails to parse is logged and the previous
// content stays live.
func (l *Live) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				site, err := LoadFile(abs)
				if err != nil {
					log.Printf("content: keeping previous content, reload failed: %v", err)
					continue
				}
				l.site.Store(site)
				log.Printf("content: reloaded %s", abs)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("content: watcher error: %v", err)
			}
		}
	}()
	return nil
}
