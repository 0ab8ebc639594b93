package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"

	"github.com/sarpt/ost-player/internal/mocks"
	"github.com/sarpt/ost-player/pkg/catalog"
	"github.com/sarpt/ost-player/pkg/engine"
	"github.com/sarpt/ost-player/pkg/session"
)

type recordingReflector struct {
	catalogs [][]string
	lock     *sync.Mutex
	selected []int
	states   []session.DisplayState
}

func newRecordingReflector() *recordingReflector {
	return &recordingReflector{
		lock: &sync.Mutex{},
	}
}

func (r *recordingReflector) Reflect(state session.DisplayState) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.states = append(r.states, state)
}

func (r *recordingReflector) ReflectCatalog(names []string, selected int) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.catalogs = append(r.catalogs, names)
	r.selected = append(r.selected, selected)
}

func (r *recordingReflector) last() session.DisplayState {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(r.states) == 0 {
		return session.DisplayState{}
	}

	return r.states[len(r.states)-1]
}

func (r *recordingReflector) count() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.states)
}

// loadRecorder remembers the epoch of the latest load.
type loadRecorder struct {
	epoch uint64
	uris  []string
}

func (l *loadRecorder) record(uri string, epoch uint64) error {
	l.epoch = epoch
	l.uris = append(l.uris, uri)

	return nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Playlist{
		{Name: "Firelink", Tracks: []string{"https://example.com/firelink_shrine.mp3", "https://example.com/Gwyn.flac"}},
		{Name: "Anor Londo", Tracks: []string{"https://example.com/anor_londo.ogg"}},
		{Name: "Ash Lake", Tracks: []string{"ash.wav"}},
	})
}

func TestSelectPlaylist_SelectsEveryValidIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := testCatalog()
	for idx := 0; idx < c.Len(); idx++ {
		// given
		eng := mocks.NewMockEngine(ctrl)
		eng.EXPECT().Stop().Return(nil).Times(1)
		reflector := newRecordingReflector()

		uut := session.NewController(session.Config{
			Catalog:   c,
			Engine:    eng,
			Logger:    zerolog.Nop(),
			Reflector: reflector,
		})

		// when
		err := uut.SelectPlaylist(idx)

		// then
		if err != nil {
			t.Fatalf("Unexpected error reported: %s", err)
		}

		snapshot := uut.Snapshot()
		if snapshot.SelectedPlaylist != idx {
			t.Errorf("Expected selected playlist %d, got %d", idx, snapshot.SelectedPlaylist)
		}

		if snapshot.State != session.Idle {
			t.Errorf("Expected idle state, got %s", snapshot.State)
		}

		playlist, _ := c.Playlist(idx)
		expected := session.DisplayState{ButtonLabel: session.LabelPlay, NowPlaying: "Now Playing: " + playlist.Name}
		if reflector.last() != expected {
			t.Errorf("Expected display %+v, got %+v", expected, reflector.last())
		}
	}
}

func TestSelectPlaylist_OutOfRangeKeepsSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).Times(1)

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(1)

	// when
	errTooBig := uut.SelectPlaylist(3)
	errNegative := uut.SelectPlaylist(-1)

	// then
	if !errors.Is(errTooBig, session.ErrPlaylistIndexOutOfRange) || !errors.Is(errNegative, session.ErrPlaylistIndexOutOfRange) {
		t.Errorf("Expected ErrPlaylistIndexOutOfRange, got %v and %v", errTooBig, errNegative)
	}

	if selected := uut.Snapshot().SelectedPlaylist; selected != 1 {
		t.Errorf("Expected selection 1 to be retained, got %d", selected)
	}
}

func TestPlayRandomTrack_SingleTrackPlaylistAlwaysPlaysIt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	eng.EXPECT().Load("only.mp3", gomock.Any()).Return(nil).Times(50)
	eng.EXPECT().Play().Return(nil).Times(50)

	uut := session.NewController(session.Config{
		Catalog: catalog.New([]catalog.Playlist{{Name: "Solo", Tracks: []string{"only.mp3"}}}),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(0)

	for i := 0; i < 50; i++ {
		// when
		err := uut.PlayRandomTrack()

		// then
		if err != nil {
			t.Fatalf("Unexpected error reported: %s", err)
		}

		if track := uut.Snapshot().Track; track != 0 {
			t.Fatalf("Expected track 0, got %d", track)
		}
	}
}

func TestPlayRandomTrack_UsesRandomIndexAndDerivedTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	eng.EXPECT().Load("https://example.com/firelink_shrine.mp3", uint64(2)).Return(nil)
	eng.EXPECT().Play().Return(nil)
	reflector := newRecordingReflector()

	uut := session.NewController(session.Config{
		Catalog:   testCatalog(),
		Engine:    eng,
		Logger:    zerolog.Nop(),
		Reflector: reflector,
		Intn: func(n int) int {
			if n != 2 {
				t.Errorf("Expected random range of 2 tracks, got %d", n)
			}

			return 0
		},
	})
	uut.SelectPlaylist(0)

	// when
	err := uut.PlayRandomTrack()

	// then
	if err != nil {
		t.Fatalf("Unexpected error reported: %s", err)
	}

	snapshot := uut.Snapshot()
	if snapshot.State != session.Loading {
		t.Errorf("Expected loading state, got %s", snapshot.State)
	}

	expected := session.DisplayState{ButtonLabel: session.LabelBuffering, NowPlaying: "Now Playing: firelink shrine"}
	if reflector.last() != expected {
		t.Errorf("Expected display %+v, got %+v", expected, reflector.last())
	}
}

func TestPlayRandomTrack_EmptyCatalogIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	eng := mocks.NewMockEngine(ctrl)
	uut := session.NewController(session.Config{
		Catalog: catalog.Empty(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})

	// when
	err := uut.PlayRandomTrack()
	toggleErr := uut.TogglePlayPause()

	// then
	if !errors.Is(err, session.ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog, got %v", err)
	}

	if !errors.Is(toggleErr, session.ErrNoPlaylistSelected) {
		t.Errorf("Expected ErrNoPlaylistSelected, got %v", toggleErr)
	}

	if state := uut.Snapshot().State; state != session.Idle {
		t.Errorf("Expected idle state, got %s", state)
	}
}

func TestPlayRandomTrack_NoSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  mocks.NewMockEngine(ctrl),
		Logger:  zerolog.Nop(),
	})

	err := uut.PlayRandomTrack()
	if !errors.Is(err, session.ErrNoPlaylistSelected) {
		t.Errorf("Expected ErrNoPlaylistSelected, got %v", err)
	}
}

func TestTogglePlayPause_ResumesWithoutReload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	loads := &loadRecorder{}
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	eng.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(loads.record).Times(1)
	eng.EXPECT().Play().Return(nil).Times(2)
	eng.EXPECT().Pause().Return(nil).Times(1)

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(1)
	uut.TogglePlayPause()
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.ReachedPlaying})

	// when
	pauseErr := uut.TogglePlayPause()
	pausedState := uut.Snapshot().State
	resumeErr := uut.TogglePlayPause()

	// then
	if pauseErr != nil || resumeErr != nil {
		t.Fatalf("Unexpected errors reported: %v, %v", pauseErr, resumeErr)
	}

	if pausedState != session.Paused {
		t.Errorf("Expected paused state after first toggle, got %s", pausedState)
	}

	if state := uut.Snapshot().State; state != session.Playing {
		t.Errorf("Expected playing state after second toggle, got %s", state)
	}

	if display := uut.Display(); display.ButtonLabel != session.LabelPause {
		t.Errorf("Expected pause label, got %s", display.ButtonLabel)
	}
}

func TestTogglePlayPause_IgnoredWhileLoading(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	eng.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	eng.EXPECT().Play().Return(nil).Times(1)

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(0)
	uut.TogglePlayPause()

	// when
	err := uut.TogglePlayPause()

	// then
	if err != nil {
		t.Errorf("Unexpected error reported: %s", err)
	}

	if state := uut.Snapshot().State; state != session.Loading {
		t.Errorf("Expected loading state, got %s", state)
	}
}

func TestHandleNotification_EndOfStreamAdvancesExactlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	loads := &loadRecorder{}
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	eng.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(loads.record).Times(2)
	eng.EXPECT().Play().Return(nil).Times(2)

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(0)
	uut.PlayRandomTrack()
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.ReachedPlaying})
	finishedEpoch := loads.epoch

	// when
	uut.HandleNotification(engine.Notification{Epoch: finishedEpoch, Kind: engine.EndOfStream})
	uut.HandleNotification(engine.Notification{Epoch: finishedEpoch, Kind: engine.EndOfStream})

	// then
	if state := uut.Snapshot().State; state != session.Loading {
		t.Errorf("Expected loading state after auto advance, got %s", state)
	}

	if loads.epoch == finishedEpoch {
		t.Errorf("Expected the next track to be loaded in a new epoch")
	}
}

func TestHandleNotification_StaleNotificationIsDiscarded(t *testing.T) {
	kinds := []engine.Notification{
		{Kind: engine.ReachedPlaying},
		{Kind: engine.Buffering, Percent: 10},
		{Kind: engine.EndOfStream},
		{Kind: engine.Error, Message: "boom"},
		{Kind: engine.Title, Title: "Old title"},
	}

	for _, n := range kinds {
		t.Run(string(n.Kind), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// given
			loads := &loadRecorder{}
			eng := mocks.NewMockEngine(ctrl)
			eng.EXPECT().Stop().Return(nil).AnyTimes()
			eng.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(loads.record).Times(2)
			eng.EXPECT().Play().Return(nil).Times(2)
			reflector := newRecordingReflector()

			uut := session.NewController(session.Config{
				Catalog:   testCatalog(),
				Engine:    eng,
				Logger:    zerolog.Nop(),
				Reflector: reflector,
			})
			uut.SelectPlaylist(0)
			uut.PlayRandomTrack()
			staleEpoch := loads.epoch
			uut.PlayRandomTrack()

			reflected := reflector.count()
			before := uut.Snapshot()

			// when
			n.Epoch = staleEpoch
			uut.HandleNotification(n)

			// then
			if reflector.count() != reflected {
				t.Errorf("Expected no display update for a stale notification")
			}

			if after := uut.Snapshot(); after != before {
				t.Errorf("Expected unchanged session, got %+v instead of %+v", after, before)
			}
		})
	}
}

func TestHandleNotification_BufferingHoldsPlaybackUntilFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	loads := &loadRecorder{}
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	eng.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(loads.record)
	firstPlay := eng.EXPECT().Play().Return(nil).Times(1)
	hold := eng.EXPECT().Pause().Return(nil).Times(1).After(firstPlay)
	eng.EXPECT().Play().Return(nil).Times(1).After(hold)
	reflector := newRecordingReflector()

	uut := session.NewController(session.Config{
		Catalog:   testCatalog(),
		Engine:    eng,
		Logger:    zerolog.Nop(),
		Reflector: reflector,
	})
	uut.SelectPlaylist(1)
	uut.PlayRandomTrack()

	// when
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.Buffering, Percent: 10})
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.Buffering, Percent: 50})
	bufferingState := uut.Snapshot().State
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.Buffering, Percent: 100})

	// then
	if bufferingState != session.Buffering {
		t.Errorf("Expected buffering state, got %s", bufferingState)
	}

	if state := uut.Snapshot().State; state != session.Playing {
		t.Errorf("Expected playing state, got %s", state)
	}

	expected := session.DisplayState{ButtonLabel: session.LabelPause, NowPlaying: "Now Playing: anor londo"}
	if reflector.last() != expected {
		t.Errorf("Expected display %+v, got %+v", expected, reflector.last())
	}
}

func TestHandleNotification_BufferingIgnoredWhileUserPaused(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	loads := &loadRecorder{}
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	eng.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(loads.record)
	eng.EXPECT().Play().Return(nil).Times(1)
	eng.EXPECT().Pause().Return(nil).Times(1)

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(1)
	uut.PlayRandomTrack()
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.ReachedPlaying})
	uut.TogglePlayPause()

	// when
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.Buffering, Percent: 30})
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.Buffering, Percent: 100})

	// then
	if state := uut.Snapshot().State; state != session.Paused {
		t.Errorf("Expected paused state, got %s", state)
	}
}

func TestHandleNotification_ErrorStopsEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	loads := &loadRecorder{}
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).Times(2)
	eng.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(loads.record)
	eng.EXPECT().Play().Return(nil)
	reflector := newRecordingReflector()

	uut := session.NewController(session.Config{
		Catalog:   testCatalog(),
		Engine:    eng,
		Logger:    zerolog.Nop(),
		Reflector: reflector,
	})
	uut.SelectPlaylist(2)
	uut.PlayRandomTrack()

	// when
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.Error, Message: "404 not found"})

	// then
	snapshot := uut.Snapshot()
	if snapshot.State != session.Error {
		t.Errorf("Expected error state, got %s", snapshot.State)
	}

	if snapshot.LastError != "404 not found" {
		t.Errorf("Expected last error to be reported, got %s", snapshot.LastError)
	}

	expected := session.DisplayState{ButtonLabel: session.LabelPlay, NowPlaying: "Playback error: 404 not found"}
	if reflector.last() != expected {
		t.Errorf("Expected display %+v, got %+v", expected, reflector.last())
	}
}

func TestHandleNotification_TitleReplacesDerivedTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	loads := &loadRecorder{}
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	eng.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(loads.record)
	eng.EXPECT().Play().Return(nil)

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(2)
	uut.PlayRandomTrack()

	// when
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.Title, Title: "The Ash Lake"})
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.ReachedPlaying})

	// then
	expected := session.DisplayState{ButtonLabel: session.LabelPause, NowPlaying: "Now Playing: The Ash Lake"}
	if display := uut.Display(); display != expected {
		t.Errorf("Expected display %+v, got %+v", expected, display)
	}
}

func TestPlayRandomTrack_LoadFailureIsRecovered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	loadErr := errors.New("mpv is not running")
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).Times(2)
	eng.EXPECT().Load(gomock.Any(), gomock.Any()).Return(loadErr)

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(0)

	// when
	err := uut.PlayRandomTrack()

	// then
	var engineErr *session.EngineError
	if !errors.As(err, &engineErr) || !errors.Is(err, loadErr) {
		t.Errorf("Expected EngineError wrapping the load error, got %v", err)
	}

	if state := uut.Snapshot().State; state != session.Error {
		t.Errorf("Expected error state, got %s", state)
	}
}

func TestSetVolume_Clamps(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		{level: 150, expected: 100},
		{level: -5, expected: 0},
		{level: 42, expected: 42},
	}

	for _, tt := range tests {
		ctrl := gomock.NewController(t)

		// given
		eng := mocks.NewMockEngine(ctrl)
		eng.EXPECT().SetVolume(tt.expected).Return(nil).Times(1)

		uut := session.NewController(session.Config{
			Catalog: testCatalog(),
			Engine:  eng,
			Logger:  zerolog.Nop(),
		})

		// when
		err := uut.SetVolume(tt.level)

		// then
		if err != nil {
			t.Errorf("Unexpected error reported: %s", err)
		}

		if volume := uut.Snapshot().Volume; volume != tt.expected {
			t.Errorf("Expected volume %d, got %d", tt.expected, volume)
		}

		ctrl.Finish()
	}
}

func TestShutdown_StopsOnceAndClosesSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(errors.New("already stopped")).Times(1)

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})

	// when
	uut.Shutdown()
	uut.Shutdown()

	// then
	for name, err := range map[string]error{
		"select": uut.SelectPlaylist(0),
		"toggle": uut.TogglePlayPause(),
		"random": uut.PlayRandomTrack(),
		"volume": uut.SetVolume(10),
	} {
		if !errors.Is(err, session.ErrSessionClosed) {
			t.Errorf("Expected ErrSessionClosed from %s, got %v", name, err)
		}
	}

	if !uut.Snapshot().Closed {
		t.Errorf("Expected closed session")
	}
}

func TestReplaceCatalog_KeepsSelectionByName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	reflector := newRecordingReflector()

	uut := session.NewController(session.Config{
		Catalog:   testCatalog(),
		Engine:    eng,
		Logger:    zerolog.Nop(),
		Reflector: session.NewReflectors(reflector),
	})
	uut.SelectPlaylist(1)

	// when
	err := uut.ReplaceCatalog(catalog.New([]catalog.Playlist{
		{Name: "Kiln", Tracks: []string{"kiln.mp3"}},
		{Name: "Anor Londo", Tracks: []string{"anor.mp3"}},
	}))

	// then
	if err != nil {
		t.Fatalf("Unexpected error reported: %s", err)
	}

	if selected := uut.Snapshot().SelectedPlaylist; selected != 1 {
		t.Errorf("Expected Anor Londo to stay selected under index 1, got %d", selected)
	}

	if len(reflector.catalogs) != 1 || len(reflector.catalogs[0]) != 2 || reflector.selected[0] != 1 {
		t.Errorf("Expected catalog to be reflected, got %v selected %v", reflector.catalogs, reflector.selected)
	}
}

func TestReplaceCatalog_FallsBackToFirstPlaylist(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(2)

	// when
	uut.ReplaceCatalog(catalog.New([]catalog.Playlist{
		{Name: "Kiln", Tracks: []string{"kiln.mp3"}},
	}))

	// then
	snapshot := uut.Snapshot()
	if snapshot.SelectedPlaylist != 0 || snapshot.PlaylistName != "Kiln" {
		t.Errorf("Expected first playlist to be selected, got %d (%s)", snapshot.SelectedPlaylist, snapshot.PlaylistName)
	}
}

func TestRun_HandlesNotificationsUntilChannelCloses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	loads := &loadRecorder{}
	notifications := make(chan engine.Notification, 1)
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Stop().Return(nil).AnyTimes()
	eng.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(loads.record)
	eng.EXPECT().Play().Return(nil)
	eng.EXPECT().Notifications().Return((<-chan engine.Notification)(notifications))

	uut := session.NewController(session.Config{
		Catalog: testCatalog(),
		Engine:  eng,
		Logger:  zerolog.Nop(),
	})
	uut.SelectPlaylist(0)
	uut.PlayRandomTrack()

	done := make(chan struct{})
	go func() {
		uut.Run(context.Background())
		close(done)
	}()

	// when
	notifications <- engine.Notification{Epoch: loads.epoch, Kind: engine.ReachedPlaying}
	close(notifications)

	// then
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after notifications were closed")
	}

	if state := uut.Snapshot().State; state != session.Playing {
		t.Errorf("Expected playing state, got %s", state)
	}
}

func TestScenario_SingleTrackPlaylist(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	loads := &loadRecorder{}
	eng := mocks.NewMockEngine(ctrl)
	reflector := mocks.NewMockReflector(ctrl)

	gomock.InOrder(
		eng.EXPECT().Stop().Return(nil),
		reflector.EXPECT().Reflect(session.DisplayState{ButtonLabel: "Play", NowPlaying: "Now Playing: A"}),
		eng.EXPECT().Load("x.mp3", gomock.Any()).DoAndReturn(loads.record),
		eng.EXPECT().Play().Return(nil),
		reflector.EXPECT().Reflect(session.DisplayState{ButtonLabel: "Buffering", NowPlaying: "Now Playing: x"}),
		reflector.EXPECT().Reflect(session.DisplayState{ButtonLabel: "Pause", NowPlaying: "Now Playing: x"}),
	)

	uut := session.NewController(session.Config{
		Catalog:   catalog.New([]catalog.Playlist{{Name: "A", Tracks: []string{"x.mp3"}}}),
		Engine:    eng,
		Logger:    zerolog.Nop(),
		Reflector: reflector,
	})

	// when
	uut.SelectPlaylist(0)
	uut.TogglePlayPause()
	uut.HandleNotification(engine.Notification{Epoch: loads.epoch, Kind: engine.ReachedPlaying})

	// then
	if state := uut.Snapshot().State; state != session.Playing {
		t.Errorf("Expected playing state, got %s", state)
	}
}
