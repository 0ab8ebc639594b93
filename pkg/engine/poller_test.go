package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"

	"github.com/sarpt/ost-player/internal/mocks"
	"github.com/sarpt/ost-player/pkg/engine"
)

func TestPoller_TransitionNotifications(t *testing.T) {
	tests := []struct {
		name     string
		observed []engine.State
		expected []engine.NotificationKind
	}{
		{
			name:     "loading track reaches playing",
			observed: []engine.State{engine.StateBuffering, engine.StatePlaying},
			expected: []engine.NotificationKind{engine.Buffering, engine.ReachedPlaying},
		},
		{
			name:     "playing track ends",
			observed: []engine.State{engine.StatePlaying, engine.StateEnded},
			expected: []engine.NotificationKind{engine.ReachedPlaying, engine.EndOfStream},
		},
		{
			name:     "resuming from pause is not reported",
			observed: []engine.State{engine.StatePlaying, engine.StatePaused, engine.StatePlaying},
			expected: []engine.NotificationKind{engine.ReachedPlaying},
		},
		{
			name:     "buffer filled while held paused",
			observed: []engine.State{engine.StateBuffering, engine.StatePaused},
			expected: []engine.NotificationKind{engine.Buffering, engine.Buffering},
		},
		{
			name:     "unchanged state is not reported",
			observed: []engine.State{engine.StateLoading, engine.StateLoading, engine.StateLoading},
			expected: []engine.NotificationKind{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// given
			player := mocks.NewMockPlayer(ctrl)
			player.EXPECT().Load("x.mp3").Return(nil)

			var calls []*gomock.Call
			for _, state := range tt.observed {
				call := player.EXPECT().CurrentState().Return(state)
				if len(calls) > 0 {
					call.After(calls[len(calls)-1])
				}
				calls = append(calls, call)
			}

			uut := engine.NewPoller(player, time.Hour, zerolog.Nop())
			err := uut.Load("x.mp3", 7)
			if err != nil {
				t.Fatalf("Unexpected error reported: %s", err)
			}

			// when
			for range tt.observed {
				uut.Poll()
			}

			// then
			for _, kind := range tt.expected {
				n := receive(t, uut.Notifications())
				if n.Kind != kind {
					t.Errorf("Expected %s notification, got %s", kind, n.Kind)
				}

				if n.Epoch != 7 {
					t.Errorf("Expected notification tagged with epoch 7, got %d", n.Epoch)
				}
			}

			expectNoNotification(t, uut.Notifications())
		})
	}
}

func TestPoller_ErrorCarriesLastError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	player := mocks.NewMockPlayer(ctrl)
	player.EXPECT().Load("x.mp3").Return(nil)
	player.EXPECT().CurrentState().Return(engine.StateError)
	player.EXPECT().LastError().Return(errors.New("connection refused"))

	uut := engine.NewPoller(player, time.Hour, zerolog.Nop())
	uut.Load("x.mp3", 1)

	// when
	uut.Poll()

	// then
	n := receive(t, uut.Notifications())
	if n.Kind != engine.Error || n.Message != "connection refused" {
		t.Errorf("Expected error notification with player error, got %+v", n)
	}
}

func TestPoller_StopIsNotReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	player := mocks.NewMockPlayer(ctrl)
	player.EXPECT().Load("x.mp3").Return(nil)
	player.EXPECT().Stop().Return(nil)
	player.EXPECT().CurrentState().Return(engine.StateIdle)

	uut := engine.NewPoller(player, time.Hour, zerolog.Nop())
	uut.Load("x.mp3", 1)

	// when
	uut.Stop()
	uut.Poll()

	// then
	expectNoNotification(t, uut.Notifications())
}

func TestPoller_SampleTakenDuringLoadIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	sampling := make(chan struct{})
	release := make(chan struct{})

	player := mocks.NewMockPlayer(ctrl)
	player.EXPECT().Load("old.mp3").Return(nil)
	player.EXPECT().Load("new.mp3").Return(nil)
	player.EXPECT().CurrentState().DoAndReturn(func() engine.State {
		close(sampling)
		<-release

		return engine.StateEnded
	})

	uut := engine.NewPoller(player, time.Hour, zerolog.Nop())
	uut.Load("old.mp3", 1)

	polled := make(chan struct{})
	go func() {
		defer close(polled)
		uut.Poll()
	}()
	<-sampling

	// when
	uut.Load("new.mp3", 2)
	close(release)
	<-polled

	// then
	expectNoNotification(t, uut.Notifications())
}

func receive(t *testing.T, notifications <-chan engine.Notification) engine.Notification {
	t.Helper()

	select {
	case n := <-notifications:
		return n
	case <-time.After(time.Second):
		t.Fatalf("Expected notification was not delivered")
	}

	return engine.Notification{}
}

func expectNoNotification(t *testing.T, notifications <-chan engine.Notification) {
	t.Helper()

	select {
	case n := <-notifications:
		t.Errorf("Unexpected notification delivered: %+v", n)
	case <-time.After(50 * time.Millisecond):
	}
}
