package services

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	prefaberrors "github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
	"github.com/facebookgo/clock"

	"github.com/transitmap/mapscreen/internal/cache"
	"github.com/transitmap/mapscreen/internal/config"
	"github.com/transitmap/mapscreen/internal/lib/geo"
	"github.com/transitmap/mapscreen/internal/lib/itinerary"
	"github.com/transitmap/mapscreen/internal/lib/selection"
)

// ErrClosed is returned by operations on a closed map screen
var ErrClosed = errors.New("map screen closed")

// Listener receives every new screen state
type Listener func(ScreenState)

// request is a payload tagged with the generation it was submitted in
type request struct {
	gen     uint64
	payload itinerary.Payload
}

// MapScreen drives the map screen: payloads are debounced, built (memoized by
// content hash), reduced into a ScreenState and pushed to listeners
type MapScreen struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       *config.Config
	builder   *itinerary.Builder
	cache     *cache.Cache
	debouncer *Debouncer[request]

	mu        sync.Mutex
	gen       uint64
	state     ScreenState
	listeners []Listener
	closed    bool
}

// NewMapScreen creates a map screen controller. A nil cache disables
// memoization; otherwise stale entries are swept every cache TTL until Close.
func NewMapScreen(ctx context.Context, cfg *config.Config, clk clock.Clock, c *cache.Cache) *MapScreen {
	ctx, cancel := context.WithCancel(logging.EnsureLogger(ctx))
	s := &MapScreen{
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		builder: itinerary.NewBuilder(geo.NewGeoUtils(), cfg.Itinerary.FallbackColor),
		cache:   c,
		state:   Reset(),
	}
	s.debouncer = NewDebouncer(ctx, clk, cfg.Debounce.Delay, s.load)

	if c != nil && cfg.Cache.TTL > 0 {
		c.StartPeriodicCleanup(ctx, cfg.Cache.TTL)
	}
	return s
}

// SetPayload schedules a rebuild from new navigation parameters and publishes
// the loading state. Payloads that arrive within the debounce delay supersede
// each other, and a build for an older payload is never applied.
func (s *MapScreen) SetPayload(p itinerary.Payload) {
	s.apply(func(state ScreenState) (ScreenState, bool) {
		s.gen++
		s.debouncer.Submit(request{gen: s.gen, payload: p})

		state.Loading = true
		return state, true
	})
}

// ToggleLeg toggles a leg's booking selection
func (s *MapScreen) ToggleLeg(leg itinerary.RawLeg) ScreenState {
	return s.update(func(state ScreenState) ScreenState {
		return ToggleLeg(state, leg)
	})
}

// ShowDetails opens the journey details panel
func (s *MapScreen) ShowDetails() ScreenState {
	return s.update(ShowDetails)
}

// HideDetails closes the journey details panel
func (s *MapScreen) HideDetails() ScreenState {
	return s.update(HideDetails)
}

// State returns the current screen state
func (s *MapScreen) State() ScreenState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Region returns the camera region to show: the fitted viewport when the
// route has geometry, otherwise the configured default region
func (s *MapScreen) Region() selection.Viewport {
	state := s.State()
	if state.Viewport != nil {
		return *state.Viewport
	}
	return selection.InitialRegion(state.Legs, s.cfg.Viewport.DefaultRegion)
}

// DirectionsURL returns the external directions link for a leg's endpoints
func (s *MapScreen) DirectionsURL(leg itinerary.RawLeg) string {
	return itinerary.DirectionsURL(s.cfg.Itinerary.DirectionsBaseURL,
		leg.From.Lat, leg.From.Lon, leg.To.Lat, leg.To.Lon)
}

// Book builds the booking hand-off for the current selection
func (s *MapScreen) Book() (selection.BookingRequest, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return selection.BookingRequest{}, ErrClosed
	}
	sel := s.state.Selection
	s.mu.Unlock()

	req, err := selection.NewBookingRequest(sel)
	if err != nil {
		return selection.BookingRequest{}, err
	}

	logging.Infow(s.ctx, "MapScreen: booking requested",
		"reference", req.Reference, "legs", len(req.SelectedLegs), "amount", req.Amount)
	return req, nil
}

// Subscribe registers a listener for state changes
func (s *MapScreen) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Close cancels any pending rebuild and stops notifying listeners
func (s *MapScreen) Close() {
	s.debouncer.Stop()
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = nil
}

func (s *MapScreen) load(req request) {
	built, err := s.build(req.payload)
	if err != nil {
		logging.Errorw(s.ctx, "MapScreen: failed to build itinerary", "error", err, "id", req.payload.ID)
	}

	s.apply(func(state ScreenState) (ScreenState, bool) {
		if req.gen != s.gen {
			return state, false
		}
		return Loaded(state, built, err, s.cfg.Viewport.Padding), true
	})
}

func (s *MapScreen) build(p itinerary.Payload) (*itinerary.Itinerary, error) {
	if s.cache == nil {
		return s.builder.Build(p)
	}

	hash := itinerary.PayloadHash(p)
	cached, found, err := s.cache.GetItinerary(hash)
	switch {
	case err != nil:
		logging.Warnw(s.ctx, "MapScreen: dropping unreadable cached itinerary", "error", err)
		s.cache.DeleteItinerary(hash)
	case found:
		return cached, nil
	}

	built, err := s.builder.Build(p)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetItinerary(hash, built, s.cfg.Cache.TTL); err != nil {
		logging.Errorw(s.ctx, "MapScreen: failed to cache itinerary", "error", err)
	}
	return built, nil
}

func (s *MapScreen) update(fn func(ScreenState) ScreenState) ScreenState {
	return s.apply(func(state ScreenState) (ScreenState, bool) {
		return fn(state), true
	})
}

// apply runs fn under the lock so concurrent transitions are never lost, then
// notifies listeners outside it. Nothing is published when fn reports false.
func (s *MapScreen) apply(fn func(ScreenState) (ScreenState, bool)) ScreenState {
	s.mu.Lock()
	if s.closed {
		state := s.state
		s.mu.Unlock()
		return state
	}
	next, changed := fn(s.state)
	if !changed {
		s.mu.Unlock()
		return next
	}
	s.state = next
	state := s.state
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		s.notify(l, state)
	}
	return state
}

func (s *MapScreen) notify(l Listener, state ScreenState) {
	defer func() {
		if r := recover(); r != nil {
			err, _ := prefaberrors.ParseStack(debug.Stack())
			skipFrames := 3
			numFrames := 5
			logging.Errorw(s.ctx, "MapScreen: recovered from panic in listener",
				"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
		}
	}()
	l(state)
}
