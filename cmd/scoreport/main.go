// SPDX-License-Identifier: EPL-2.0

// Command scoreport exports composition documents to MIDI, WAV and MP3.
package main

func main() {
	Execute()
}
