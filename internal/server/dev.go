package server

import (
	"context"
	"time"

	"github.com/conneroisu/bifrostdocs/internal/nav"
	"github.com/conneroisu/bifrostdocs/internal/watcher"
)

// forwardNavEvents pushes navigation changes from events to websocket clients.
func (s *DocsServer) forwardNavEvents(ctx context.Context, events <-chan nav.Event) {
	defer s.app.Nav.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !ev.Changed {
				continue
			}
			navEv := ev
			s.hub.Broadcast(UpdateMessage{Type: MessageNav, Nav: &navEv, Timestamp: ev.Timestamp})
		}
	}
}

// watchSamples reloads browsers when a sample in the override directory changes.
func (s *DocsServer) watchSamples(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(300*time.Millisecond, s.app.Logger)
	if err != nil {
		return err
	}
	fw.AddFilter(watcher.SampleFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.NoEditorTempFilter)
	fw.AddHandler(s.handleSampleChanges)

	if err := fw.AddPath(s.config.Docs.SamplesDir); err != nil {
		_ = fw.Stop()
		return err
	}
	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return err
	}
	s.watcher = fw
	s.logger.Info(ctx, "Watching samples", "dir", s.config.Docs.SamplesDir)
	return nil
}

func (s *DocsServer) handleSampleChanges(events []watcher.ChangeEvent) error {
	var touched []string
	for _, event := range events {
		s.logger.Info(context.Background(), "Sample changed", "file", event.Name(), "change", event.Type.String())
		touched = append(touched, s.app.Registry.Touch(event.Name())...)
	}
	if len(touched) == 0 {
		return nil
	}
	s.errors.Clear()
	s.hub.Broadcast(UpdateMessage{Type: MessageReload, Pages: touched})
	return nil
}
