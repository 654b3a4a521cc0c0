package display

import (
	"fmt"
	"time"

	"github.com/sweeney/water-sampler/internal/store"
)

// Notice texts shown for rig events.
const (
	NoticeWater  = "Water?"
	NoticeArmed  = "Started"
	NoticeSaving = "Saving\nConfig"
)

// DefaultNoticeFor is how long a notice stays up unless overridden.
const DefaultNoticeFor = 800 * time.Millisecond

// View is the read-only state the presenter renders from. The loop fills
// it from the settings, editor and engine on every render tick.
type View struct {
	Offsets    [store.NumPumps]int
	Runtime    int
	Cursor     int // [0, 14)
	Blink      bool
	ActivePump int // 0-based, -1 for none
	Armed      bool
	Degraded   bool
}

// Presenter turns views into frames and owns transient notice state.
type Presenter struct {
	notice      string
	noticeUntil time.Time
}

// NewPresenter creates a Presenter with no notice pending.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Notify shows msg full-screen until now+d, replacing any earlier notice.
func (p *Presenter) Notify(msg string, now time.Time, d time.Duration) {
	p.notice = msg
	p.noticeUntil = now.Add(d)
}

// Frame builds the frame for the current state. Page 1 (cursor 0-11) lists
// the six pumps; page 2 (cursor 12-13) shows the runtime row.
func (p *Presenter) Frame(now time.Time, v View) Frame {
	f := Frame{
		ActiveRow: -1,
		BlinkRow:  -1,
		BlinkHour: v.Cursor%2 == 0,
		BlinkOn:   v.Blink,
		Degraded:  v.Degraded,
	}

	if p.notice != "" && now.Before(p.noticeUntil) {
		f.Notice = p.notice
		return f
	}
	p.notice = ""

	if v.Cursor < 2*store.NumPumps {
		for i := 0; i < store.NumPumps; i++ {
			f.Lines = append(f.Lines, fmt.Sprintf("%s: %s", rowLabel(i), FormatHM(v.Offsets[i])))
		}
		f.BlinkRow = v.Cursor / 2
		if v.ActivePump >= 0 {
			f.ActiveRow = v.ActivePump
		}
	} else {
		f.Lines = []string{fmt.Sprintf("%s: %s", rowLabel(store.RuntimeIndex), FormatHM(v.Runtime))}
		f.BlinkRow = 0
	}
	return f
}
