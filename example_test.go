// SPDX-License-Identifier: EPL-2.0

package scoreport_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/ik5/scoreport"
	"github.com/ik5/scoreport/audio"
	"github.com/ik5/scoreport/composition"
)

func Example() {
	song := &composition.Composition{
		Title:    "Scale",
		TempoBPM: 120,
		Tracks: []composition.Track{{
			Name:       "Lead",
			Instrument: "piano",
			Notes: []composition.Note{
				{Pitch: "C4", Time: 0, Duration: 1},
				{Pitch: "D4", Time: 1, Duration: 1},
			},
		}},
	}

	// a renderer that returns silence of the requested length
	silence := scoreport.RendererFunc(func(_ context.Context, _ *composition.Composition, d time.Duration) (*audio.Buffer, error) {
		return audio.NewBuffer(8000, 1, int(d.Seconds()*8000)), nil
	})

	exp := scoreport.New(
		scoreport.WithRenderer(silence),
		scoreport.WithRenderTail(0),
		scoreport.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	for _, f := range []scoreport.Format{scoreport.FormatWAV, scoreport.FormatMIDI} {
		out, err := exp.Export(context.Background(), f, song)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(out.MIME, len(out.Data))
	}
	// Output:
	// audio/wav 16044
	// audio/midi 62
}
