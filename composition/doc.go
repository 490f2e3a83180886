// SPDX-License-Identifier: EPL-2.0

// Package composition holds the symbolic score shared by the audio and MIDI
// export paths, and loads it from YAML or JSON documents.
//
// Note times and durations are in beats. Exports never modify a
// Composition.
package composition
