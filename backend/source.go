package backend

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/fsnotify/fsnotify"
)

// Mode describes how a session acquires its data.
type Mode uint8

const (
	ModeNone Mode = iota
	// ModeReplaying reads a finished trace once.
	ModeReplaying
	// ModeFollowing tails a trace file that is still being written.
	ModeFollowing
	// ModeGenerating consumes the built-in synthetic trace generator.
	ModeGenerating
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeReplaying:
		return "replaying"
	case ModeFollowing:
		return "following"
	case ModeGenerating:
		return "generating"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Session is the evolving state of one loaded trace. Values received
// from a session stream are point-in-time snapshots and must be treated
// as read-only.
type Session struct {
	ID   string
	Data Trace
	Mode Mode
	Err  error
}

type inputKind uint8

const (
	kindHeadings inputKind = iota
	kindRow
	kindErr
)

type input struct {
	kind     inputKind
	headings []string
	row      []string
	err      error
}

// Source owns every loaded trace session and publishes their updates
// through a mutation pool.
type Source struct {
	pool    *stream.MutationPool[string, Session]
	watcher *fsnotify.Watcher
	appCtx  context.Context
}

func NewSource(appCtx context.Context, mutator *stream.Mutator) (*Source, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	return &Source{
		pool:    stream.NewMutationPool[string, Session](mutator),
		watcher: watcher,
		appCtx:  appCtx,
	}, nil
}

// SessionStream emits the set of live sessions whenever it changes.
func (s *Source) SessionStream(ctx context.Context) <-chan map[string]*stream.Mutation[Session] {
	return s.pool.Stream(ctx)
}

// StreamSession emits snapshots of one session as it evolves.
func (s *Source) StreamSession(ctx context.Context, sessionID string) <-chan Session {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	return (<-s.SessionStream(subCtx))[sessionID].Stream(ctx)
}

// Latest follows whichever session was started most recently, switching
// streams as new sessions appear.
func (s *Source) Latest(ctx context.Context) <-chan Session {
	return stream.Multiplex(s.SessionStream(ctx), func(ctx context.Context, state string, mutations map[string]*stream.Mutation[Session]) (<-chan Session, string) {
		newest := ""
		for id := range mutations {
			if id > newest {
				newest = id
			}
		}
		if newest == "" || newest == state {
			return nil, state
		}
		return mutations[newest].Stream(ctx), newest
	})
}

// Session IDs order lexicographically by start time.
func generateSessionID() string {
	return strings.Replace(time.Now().UTC().Format("20060102150405.000000000"), ".", "", 1)
}

// LoadFromFile asks the platform file picker for a trace and replays it.
func (s *Source) LoadFromFile(expl *explorer.Explorer) (string, error) {
	file, err := expl.ChooseFile()
	if err != nil {
		return "", err
	}
	return s.LoadFromStream(ModeReplaying, file), nil
}

// LoadFromStream replays a trace from an open reader.
func (s *Source) LoadFromStream(mode Mode, trace io.ReadCloser) string {
	id := generateSessionID()
	s.recordSession(id, mode, trace, false)
	return id
}

// FollowFile tails path, appending rows to the session as the file
// grows.
func (s *Source) FollowFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open trace: %w", err)
	}
	if err := s.watcher.Add(path); err != nil {
		file.Close()
		return "", fmt.Errorf("could not watch trace: %w", err)
	}
	id := generateSessionID()
	s.recordSession(id, ModeFollowing, file, true)
	return id, nil
}

// StartDemo begins a session fed by the synthetic trace generator, one
// row per interval.
func (s *Source) StartDemo(interval time.Duration) string {
	id := generateSessionID()
	s.recordSession(id, ModeGenerating, Demo(s.appCtx, interval), false)
	return id
}

func (s *Source) recordSession(sessionID string, mode Mode, trace io.ReadCloser, follow bool) *stream.Mutation[Session] {
	box, _ := stream.Mutate(s.pool, sessionID, func(ctx context.Context) <-chan Session {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			defer trace.Close()
			session := Session{
				ID:   sessionID,
				Mode: mode,
			}
			// Emit the empty session immediately.
			out <- session

			inputs := make(chan input, 1024)
			go s.readSource(ctx, trace, follow, inputs)
			for {
				select {
				case <-ctx.Done():
					return
				case in, ok := <-inputs:
					if !ok {
						return
					}
					switch in.kind {
					case kindHeadings:
						session.Data = newTrace(in.headings)
					case kindRow:
						if err := session.Data.appendRow(in.row); err != nil {
							log.Printf("skipping trace row: %v", err)
							continue
						}
					case kindErr:
						session.Err = in.err
					}
					select {
					case out <- session:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
		return out
	})
	return box
}

// readSource parses trace rows and forwards them on inputs. With follow
// set it waits for file writes at EOF instead of finishing.
func (s *Source) readSource(ctx context.Context, source io.Reader, follow bool, inputs chan<- input) {
	defer close(inputs)
	send := func(in input) bool {
		select {
		case <-ctx.Done():
			return false
		case inputs <- in:
			return true
		}
	}
	csvReader := csv.NewReader(newLineReader(source))
	csvReader.TrimLeadingSpace = true
	headings, err := csvReader.Read()
	if err != nil {
		send(input{kind: kindErr, err: fmt.Errorf("could not read trace headings: %w", err)})
		return
	}
	if !send(input{kind: kindHeadings, headings: headings}) {
		return
	}
readLoop:
	for {
		rec, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if !follow {
					return
				}
				for {
					select {
					case <-ctx.Done():
						return
					case ev, ok := <-s.watcher.Events:
						if !ok {
							return
						}
						if ev.Op == fsnotify.Write {
							continue readLoop
						}
					}
				}
			}
			send(input{kind: kindErr, err: fmt.Errorf("could not read trace data: %w", err)})
			return
		}
		if !send(input{kind: kindRow, row: rec}) {
			return
		}
	}
}
