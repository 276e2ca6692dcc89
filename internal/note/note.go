// SPDX-License-Identifier: MIT
/*
Package note maps frequencies onto the 88-key piano and 12-tone equal
temperament tuned to A4 = 440 Hz.

Key numbers are continuous: 49.0 is A4, 40.0 is C4 and one unit is one
semitone. Pitch-class positions follow the same convention as the name
table, with 1 = C through 12 = B.

All functions are pure and work in single precision, matching the spectrum
they are fed from.
*/
package note

import (
	"fmt"
	"math"
)

const (
	// ReferenceFrequency is A4.
	ReferenceFrequency = 440.0
	// ReferenceKey is the key number of A4.
	ReferenceKey = 49.0
)

var noteNames = [12]string{
	"C ", "C#", "D ", "D#", "E ", "F ", "F#", "G ", "G#", "A ", "A#", "B ",
}

// FrequencyToKeyNumber returns the continuous piano key position of freqHz.
// Non-positive frequencies yield -Inf or NaN.
func FrequencyToKeyNumber(freqHz float32) float32 {
	return float32(12*math.Log2(float64(freqHz)/ReferenceFrequency) + ReferenceKey)
}

// KeyToRawNoteNumber returns ((key-1) mod 12) - 2 using a Euclidean modulo,
// so the result always lies in [-2, 10) whatever the sign of key-1. Values
// in [-2, 1) name A, A# and B; PitchClass folds them back into 1..12.
func KeyToRawNoteNumber(key float32) float32 {
	m := math.Mod(float64(key)-1, 12)
	if m < 0 {
		m += 12
	}
	if m >= 12 {
		m = 0
	}
	return float32(m) - 2
}

// PitchClass folds a rounded note number from KeyToRawNoteNumber into the
// 1..12 range understood by NoteNumberToName (1 = C, 10 = A).
func PitchClass(noteNumber float32) int {
	pc := int(math.Round(float64(noteNumber)))
	pc = ((pc-1)%12+12)%12 + 1
	return pc
}

// NoteNumberToName maps a pitch class in 1..12 to its two-character name.
// Any other value is a caller bug and panics.
func NoteNumberToName(pitchClass int) string {
	if pitchClass < 1 || pitchClass > 12 {
		panic(fmt.Sprintf("note: pitch class %d out of range [1, 12]", pitchClass))
	}
	return noteNames[pitchClass-1]
}

// ErrorPercentage returns round((raw-rounded)*100) saturated to int8.
// Positive is sharp, negative is flat. The unit is hundredths of a
// semitone, the display convention of the tuner, not a frequency ratio.
//
// raw and rounded come from KeyToRawNoteNumber, which wraps at A, so a
// slightly flat A (raw near 9.9, rounded -2) saturates to +127. Deviation
// gives the distance to the nearest key without that jump. NaN reports 0.
func ErrorPercentage(raw, rounded float32) int8 {
	return saturate(float64(raw-rounded) * 100)
}

// Deviation returns how far key sits from the nearest key, in hundredths
// of a semitone, always within [-50, 50]. NaN and infinite keys report 0.
func Deviation(key float32) int8 {
	k := float64(key)
	return saturate((k - math.Round(k)) * 100)
}

func saturate(v float64) int8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	switch {
	case v > math.MaxInt8:
		return math.MaxInt8
	case v < math.MinInt8:
		return math.MinInt8
	}
	return int8(v)
}

// OctaveForKey returns the scientific-pitch octave of the nearest key:
// C4 (key 40) through B4 (key 51) are octave 4, A0 (key 1) is octave 0.
// Octaves start at C, eight keys above the key-number origin, hence +8.
func OctaveForKey(key float32) int {
	return int(math.Floor((math.Round(float64(key)) + 8) / 12))
}

// BinIndexToFrequency returns the centre frequency of a spectrum bin.
func BinIndexToFrequency(binIndex, totalBins int, sampleRate float64) float32 {
	return float32(binIndex) * float32(sampleRate) / float32(totalBins)
}

// Status is an immutable snapshot of how one frequency sits against the
// equal-tempered scale.
type Status struct {
	FrequencyHz     float32 `json:"frequency_hz"`
	KeyNumber       float32 `json:"key_number"`
	RawNoteNumber   float32 `json:"raw_note_number"`
	NoteNumber      float32 `json:"note_number"`
	ErrorPercentage int8    `json:"error_percentage"`
	Deviation       int8    `json:"deviation"`
}

// NewStatus derives the full status for freqHz.
func NewStatus(freqHz float32) Status {
	key := FrequencyToKeyNumber(freqHz)
	raw := KeyToRawNoteNumber(key)
	rounded := KeyToRawNoteNumber(float32(math.Round(float64(key))))
	return Status{
		FrequencyHz:     freqHz,
		KeyNumber:       key,
		RawNoteNumber:   raw,
		NoteNumber:      rounded,
		ErrorPercentage: ErrorPercentage(raw, rounded),
		Deviation:       Deviation(key),
	}
}

// Valid reports whether the frequency maps onto a finite key. DC (0 Hz)
// does not.
func (s Status) Valid() bool {
	k := float64(s.KeyNumber)
	return !math.IsInf(k, 0) && !math.IsNaN(k)
}

// Name returns the note name, or "--" for an invalid status.
func (s Status) Name() string {
	if !s.Valid() {
		return "--"
	}
	return NoteNumberToName(PitchClass(s.NoteNumber))
}

// Octave returns the octave of the nearest key, 0 for an invalid status.
func (s Status) Octave() int {
	if !s.Valid() {
		return 0
	}
	return OctaveForKey(s.KeyNumber)
}

// String renders e.g. "A 4 +6%".
func (s Status) String() string {
	return fmt.Sprintf("%s%d %+d%%", s.Name(), s.Octave(), s.ErrorPercentage)
}
