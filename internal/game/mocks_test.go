package game

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/scythe504/kaliyo-backend/internal"
	"github.com/scythe504/kaliyo-backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- scheduler ---

type manualTimer struct {
	fn       func()
	repeat   bool
	interval time.Duration
	stopped  bool
}

func (t *manualTimer) Stop() {
	t.stopped = true
}

// manualScheduler only fires when a test tells it to.
type manualScheduler struct {
	timers []*manualTimer
}

func (s *manualScheduler) Every(interval time.Duration, fn func()) internal.Timer {
	t := &manualTimer{fn: fn, repeat: true, interval: interval}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) After(delay time.Duration, fn func()) internal.Timer {
	t := &manualTimer{fn: fn, interval: delay}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) live(repeat bool) []*manualTimer {
	var out []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && t.repeat == repeat {
			out = append(out, t)
		}
	}
	return out
}

func (s *manualScheduler) fire(t *manualTimer) {
	if t.stopped {
		return
	}
	if !t.repeat {
		t.stopped = true
	}
	t.fn()
}

// tick fires every live repeating timer once.
func (s *manualScheduler) tick() {
	for _, t := range s.live(true) {
		s.fire(t)
	}
}

// elapse fires every live one-shot timer.
func (s *manualScheduler) elapse() {
	for _, t := range s.live(false) {
		s.fire(t)
	}
}

// --- senders ---

type sentMessage struct {
	to  string
	msg internal.Outbound
}

type recordingSender struct {
	sent []sentMessage
}

func (r *recordingSender) Send(connID string, msg internal.Outbound) {
	r.sent = append(r.sent, sentMessage{to: connID, msg: msg})
}

func (r *recordingSender) to(connID string) []internal.Outbound {
	var out []internal.Outbound
	for _, s := range r.sent {
		if s.to == connID {
			out = append(out, s.msg)
		}
	}
	return out
}

func (r *recordingSender) ofType(connID, eventType string) []internal.Outbound {
	var out []internal.Outbound
	for _, m := range r.to(connID) {
		if m.Type == eventType {
			out = append(out, m)
		}
	}
	return out
}

func (r *recordingSender) last(connID, eventType string) (internal.Outbound, bool) {
	msgs := r.ofType(connID, eventType)
	if len(msgs) == 0 {
		return internal.Outbound{}, false
	}
	return msgs[len(msgs)-1], true
}

func (r *recordingSender) reset() {
	r.sent = nil
}

// wire renders everything connID received the way the client would see it.
func (r *recordingSender) wire(t *testing.T, connID string) string {
	t.Helper()
	var b strings.Builder
	for _, m := range r.to(connID) {
		raw, err := json.Marshal(m)
		require.NoError(t, err)
		b.Write(raw)
		b.WriteByte('\n')
	}
	return b.String()
}

// broadcastRecorder additionally records how events were fanned out.
type broadcastRecorder struct {
	recordingSender
	batches [][]string
}

func (b *broadcastRecorder) Broadcast(connIDs []string, msg internal.Outbound) {
	b.batches = append(b.batches, append([]string(nil), connIDs...))
	for _, id := range connIDs {
		b.Send(id, msg)
	}
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(connID string, msg internal.Outbound) {
	m.Called(connID, msg)
}

// --- words ---

type fixedWords struct {
	entries []internal.WordEntry
	next    int
}

func (f *fixedWords) Random() internal.WordEntry {
	e := f.entries[f.next%len(f.entries)]
	f.next++
	return e
}

func wordEntry(display, transliteration string) internal.WordEntry {
	return internal.WordEntry{
		Display:         display,
		Transliteration: transliteration,
		Accepted:        utils.AcceptedAnswers(display, transliteration),
	}
}

var ka = wordEntry("ಕ", "ka")

// --- fixtures ---

func testSettings() Settings {
	s := DefaultSettings()
	s.TickInterval = time.Second
	return s
}

func newTestController(out Sender, entries ...internal.WordEntry) (*Controller, *manualScheduler) {
	if len(entries) == 0 {
		entries = []internal.WordEntry{ka}
	}
	sched := &manualScheduler{}
	c := NewController(NewRoomStore(internal.DefaultScoreGoal), &fixedWords{entries: entries}, out, sched, testSettings())
	return c, sched
}

// seedRoom creates a room hosted by the first player. Ids are the lowercased
// names.
func seedRoom(t *testing.T, c *Controller, names ...string) *internal.Room {
	t.Helper()
	require.NotEmpty(t, names)
	room, err := c.store.CreateRoom(strings.ToLower(names[0]))
	require.NoError(t, err)
	for _, name := range names {
		c.store.AddPlayer(room, strings.ToLower(name), name)
	}
	return room
}
