// Package audio provides notification sound playback. It uses the beep
// library to play WAV, OGG, and MP3 files with volume control, per-urgency
// sound configuration, and the sound-file/suppress-sound hints.
package audio
