// Command gen-motion generates accelerometer fixture files for dev mode and
// replay testing. The output walks the device through a sequence of poses
// with configurable per-axis noise.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/banshee-data/camera.capture/internal/orientation"
)

type pose struct {
	name   string
	sample orientation.Sample
}

// poses cycle through the orientations a handheld device commonly visits.
var poses = []pose{
	{"portrait", orientation.Sample{X: 0, Y: -1, Z: 0}},
	{"landscapeLeft", orientation.Sample{X: -1, Y: 0, Z: 0}},
	{"faceUp", orientation.Sample{X: 0, Y: 0, Z: -1}},
	{"landscapeRight", orientation.Sample{X: 1, Y: 0, Z: 0}},
	{"portraitUpsideDown", orientation.Sample{X: 0, Y: 1, Z: 0}},
	{"faceDown", orientation.Sample{X: 0, Y: 0, Z: 1}},
}

func main() {
	output := flag.String("o", "fixtures.txt", "output path")
	perPose := flag.Int("n", 50, "samples per pose")
	noise := flag.Float64("noise", 0.05, "per-axis noise amplitude in g")
	asJSON := flag.Bool("json", false, "emit JSON lines instead of CSV")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	w := bufio.NewWriter(f)

	total := 0
	for _, p := range poses {
		for i := 0; i < *perPose; i++ {
			s := orientation.Sample{
				X: p.sample.X + (rng.Float64()*2-1)**noise,
				Y: p.sample.Y + (rng.Float64()*2-1)**noise,
				Z: p.sample.Z + (rng.Float64()*2-1)**noise,
			}
			if *asJSON {
				line, err := json.Marshal(s)
				if err != nil {
					log.Fatalf("failed to marshal sample: %v", err)
				}
				fmt.Fprintf(w, "%s\n", line)
			} else {
				fmt.Fprintf(w, "%.4f,%.4f,%.4f\n", s.X, s.Y, s.Z)
			}
			total++
		}
		log.Printf("%s: %d samples", p.name, *perPose)
	}

	if err := w.Flush(); err != nil {
		log.Fatalf("failed to flush output: %v", err)
	}
	log.Printf("✓ Created: %s (%d samples)", *output, total)
}
