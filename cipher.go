// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

// Keystream generator constants. The scrambler is keyless: every block starts
// from the same seed, so it hides data from casual viewing only.
const (
	cipherSeed       uint32 = 666666
	cipherMultiplier uint32 = 0x343FD
	cipherIncrement  uint32 = 0x269EC3
)

// scrambler is the linear congruential keystream of the RDA block cipher.
type scrambler struct {
	state uint32
}

// newScrambler returns keystream generator positioned at the fixed seed.
func newScrambler() scrambler {
	return scrambler{state: cipherSeed}
}

// next advances generator and returns next 15-bit key word.
func (s *scrambler) next() uint16 {
	s.state = s.state*cipherMultiplier + cipherIncrement
	return uint16((s.state >> 16) & 0x7FFF)
}

// Deobfuscate reverses the RDA header/dictionary scrambling of buf in place.
//
// Whole block must be passed at once: the keystream carries state across the
// block and restarts from the fixed seed on every call. Data is processed in
// 2-byte words; a trailing odd byte is left untouched.
func Deobfuscate(buf []byte) {
	ks := newScrambler()
	for i := 0; i+1 < len(buf); i += 2 {
		key := ks.next()
		buf[i] ^= byte(key)
		buf[i+1] ^= byte(key >> 8)
	}
}

// Obfuscate scrambles buf in place. The transform is an XOR keystream, so it is
// identical to Deobfuscate; the name exists for fixture and tooling code.
func Obfuscate(buf []byte) {
	Deobfuscate(buf)
}
