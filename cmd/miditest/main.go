package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	vjmidi "go-vjgrid/midi"
	"go-vjgrid/router"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer midi.CloseDriver()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectFighter()
	case "monitor":
		monitor()
	case "leds":
		testLEDs()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list     - List all MIDI ports")
	fmt.Println("  detect   - Find a Midi Fighter 64")
	fmt.Println("  monitor  - Print pad edges and what the router makes of them")
	fmt.Println("  leds     - Test LED control")
	fmt.Println("  poll     - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.GetInPorts(), outs: midi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func findPorts() (drivers.In, drivers.Out) {
	var in drivers.In
	var out drivers.Out
	for _, p := range midi.GetInPorts() {
		if vjmidi.MatchesPort(p.String(), "") {
			in = p
			break
		}
	}
	for _, p := range midi.GetOutPorts() {
		if vjmidi.MatchesPort(p.String(), "") {
			out = p
			break
		}
	}
	return in, out
}

func detectFighter() {
	fmt.Println("Looking for Midi Fighter 64...")

	in, out := findPorts()
	if in != nil {
		fmt.Printf("Found input: %s\n", in.String())
	}
	if out != nil {
		fmt.Printf("Found output: %s\n", out.String())
	}

	if in != nil && out != nil {
		fmt.Println("\nMidi Fighter 64 detected!")
	} else {
		fmt.Println("\nMidi Fighter 64 not found")
	}
}

func openFighter() *vjmidi.FighterController {
	in, out := findPorts()
	if in == nil && out == nil {
		fmt.Println("No Midi Fighter 64 found")
		return nil
	}
	id := "miditest"
	if in != nil {
		id = in.String()
	}
	fc, err := vjmidi.NewFighterController(id, in, out)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil
	}
	return fc
}

func monitor() {
	fc := openFighter()
	if fc == nil {
		return
	}
	defer fc.Close()

	fmt.Println("Press pads. Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	for {
		select {
		case <-sig:
			return
		case ev := <-fc.Events():
			if !vjmidi.IsInRange(ev.Code) {
				fmt.Printf("note %3d %-7s out of range\n", ev.Code, ev.Edge)
				continue
			}
			btn := vjmidi.FromCode(ev.Code)
			routed, ok := router.Route(btn, ev.Edge)
			if !ok {
				fmt.Printf("note %3d %-7s %s -> (ignored)\n", ev.Code, ev.Edge, btn)
				continue
			}
			fmt.Printf("note %3d %-7s %s -> %s slot=%d\n", ev.Code, ev.Edge, btn, routed.Kind, routed.Slot)
		}
	}
}

func testLEDs() {
	fmt.Println("Testing LED control...")

	fc := openFighter()
	if fc == nil {
		return
	}
	defer fc.Close()

	fmt.Println("Lighting up diagonal (green)...")
	for i := 1; i <= vjmidi.GridSize; i++ {
		fc.SetLEDBatch([]vjmidi.LEDUpdate{{Row: i, Col: i, Color: [3]uint8{0, 255, 0}}})
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("Pulsing row 1 (red)...")
	var row []vjmidi.LEDUpdate
	for col := 1; col <= vjmidi.GridSize; col++ {
		row = append(row, vjmidi.LEDUpdate{Row: 1, Col: col, Color: [3]uint8{255, 0, 0}, Channel: vjmidi.ChannelPulse})
	}
	fc.SetLEDBatch(row)

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	var off []vjmidi.LEDUpdate
	for r := 1; r <= vjmidi.GridSize; r++ {
		for c := 1; c <= vjmidi.GridSize; c++ {
			off = append(off, vjmidi.LEDUpdate{Row: r, Col: c})
		}
	}
	if err := fc.SetLEDBatch(off); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Done!")
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect the Midi Fighter 64 to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		var inNames, outNames []string
		for _, p := range midi.GetInPorts() {
			inNames = append(inNames, p.String())
		}
		for _, p := range midi.GetOutPorts() {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			for _, name := range inNames {
				if vjmidi.MatchesPort(name, "") {
					fmt.Println("  -> Midi Fighter 64 detected!")
				}
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
