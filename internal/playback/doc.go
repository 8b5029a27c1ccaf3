// Package playback turns synthesized speech into sound.
//
// Speech arrives as base64-encoded 16-bit signed little-endian mono PCM at
// 24 kHz. Decode converts it into normalized float32 samples, a Device
// plays them, and a Pipeline ties synthesis, decoding and the device
// together for one session.
package playback
