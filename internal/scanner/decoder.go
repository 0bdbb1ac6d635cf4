// Package scanner turns raw keystroke streams into barcodes. Hardware
// scanners type like extremely fast keyboards, so decoding is a timing
// heuristic: characters arriving in tight bursts belong to a barcode,
// anything slower is a human at the keys.
package scanner

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const enterKey = "Enter"

// KeyEvent is one keystroke as reported by the register front end.
type KeyEvent struct {
	Key           string    `json:"key"`
	At            time.Time `json:"at"`
	FromTextInput bool      `json:"from_text_input"`
}

// Decoder accumulates printable characters into a candidate barcode and
// emits it when the scanner sends its trailing Enter. A gap longer than
// the burst threshold between characters discards the buffer as typing.
type Decoder struct {
	burstGap time.Duration

	mu     sync.Mutex
	buffer strings.Builder
	lastAt time.Time
}

func NewDecoder(burstGap time.Duration) *Decoder {
	if burstGap <= 0 {
		burstGap = 50 * time.Millisecond
	}
	return &Decoder{burstGap: burstGap}
}

// Handle feeds one keystroke into the decoder. When the keystroke completes
// a barcode, the code is returned with ok set.
func (d *Decoder) Handle(ev KeyEvent) (code string, ok bool) {
	if ev.FromTextInput {
		// The operator is typing into a search box or PIN field; those
		// keystrokes are never part of a scan.
		return "", false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buffer.Len() > 0 && !d.lastAt.IsZero() && ev.At.Sub(d.lastAt) > d.burstGap {
		d.buffer.Reset()
	}
	// Every keystroke refreshes the window, even ones that contribute no
	// character; a Shift in the middle of a burst must not widen the gap.
	d.lastAt = ev.At

	if ev.Key == enterKey {
		if d.buffer.Len() == 0 {
			return "", false
		}
		code = d.buffer.String()
		d.buffer.Reset()
		return code, true
	}

	if utf8.RuneCountInString(ev.Key) != 1 {
		// Modifier and navigation keys report multi-character names.
		return "", false
	}

	d.buffer.WriteString(ev.Key)
	return "", false
}

// Reset discards any partial buffer.
func (d *Decoder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffer.Reset()
	d.lastAt = time.Time{}
}
