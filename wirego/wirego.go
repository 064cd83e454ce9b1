package wirego

import (
	"context"
	"fmt"
	"sync"
	"time"

	zmq "github.com/go-zeromq/zmq4"
	"go.uber.org/zap"

	"github.com/wippyai/wsp-dissect/errors"
)

const (
	VersionMajor = 2
	VersionMinor = 0
)

// Wirego is a Wirego remote plugin endpoint.
type Wirego struct {
	endpoint string
	listener Listener
	logger   *zap.Logger
	socket   zmq.Socket

	fields          []WiresharkField
	fieldIDs        map[FieldId]bool
	intFilters      []DetectionFilter
	stringFilters   []DetectionFilter
	heuristicParent []string

	mu           sync.Mutex
	cacheEnabled bool
	results      map[int]*flatResult
}

// New validates the listener's catalogue and binds a REP socket on
// endpoint (tcp://, ipc:// or inproc://). verbose enables development
// logging; SetLogger replaces it.
func New(endpoint string, verbose bool, listener Listener) (*Wirego, error) {
	if listener == nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "no listener")
	}

	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}

	wg := &Wirego{
		endpoint:        endpoint,
		listener:        listener,
		logger:          logger.Named("wirego"),
		fieldIDs:        make(map[FieldId]bool),
		heuristicParent: listener.GetDetectionHeuristicsParents(),
		cacheEnabled:    true,
		results:         make(map[int]*flatResult),
	}

	wg.fields = listener.GetFields()
	for _, f := range wg.fields {
		if wg.fieldIDs[f.WiregoFieldId] {
			return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("duplicate field id %d", f.WiregoFieldId))
		}
		wg.fieldIDs[f.WiregoFieldId] = true
	}
	for _, d := range listener.GetDetectionFilters() {
		switch d.FilterType {
		case DetectionFilterTypeInt:
			wg.intFilters = append(wg.intFilters, d)
		case DetectionFilterTypeString:
			wg.stringFilters = append(wg.stringFilters, d)
		default:
			return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("detection filter %q has unknown type %d", d.Name, d.FilterType))
		}
	}

	if err := wg.setup(); err != nil {
		return nil, err
	}
	return wg, nil
}

func (wg *Wirego) setup() error {
	wg.logger.Info("binding", zap.String("endpoint", wg.endpoint))
	wg.socket = zmq.NewRep(context.Background(), zmq.WithDialerRetry(time.Second), zmq.WithAutomaticReconnect(true))
	if err := wg.socket.Listen(wg.endpoint); err != nil {
		_ = wg.socket.Close()
		return errors.Transport("listen on "+wg.endpoint, err)
	}
	return nil
}

// SetLogger replaces the server's logger.
func (wg *Wirego) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	wg.logger = l
}

// CacheResults controls whether dissection results survive result_release.
// With caching on, a packet dissected twice is answered from the cache.
func (wg *Wirego) CacheResults(enable bool) {
	wg.mu.Lock()
	defer wg.mu.Unlock()
	wg.cacheEnabled = enable
}

// Close releases the socket.
func (wg *Wirego) Close() error {
	return wg.socket.Close()
}
