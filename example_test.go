package rpc3_test

import (
	"fmt"
	"log"

	"github.com/galuszkm/rpc3"
	"github.com/galuszkm/rpc3/fatigue"
)

func ExampleFile_Parse() {
	// Encode a one-channel file in memory, then decode it again.
	c := rpc3.NewChannel(1, "Wheel force X", "kN", 1, 0.002, "", "")
	c.SetSamples([]float64{0, 120, -80, 120, -80, 40})
	data, err := rpc3.WriteBytes([]*rpc3.Channel{c}, 0.002)
	if err != nil {
		log.Fatal(err)
	}

	f := rpc3.NewFile(data, "wheel.rsp")
	if !f.Parse() {
		log.Fatal(f.Errs())
	}
	for _, c := range f.Channels() {
		fmt.Printf("channel %d: %s [%s]\n", c.Number, c.Name, c.Units)
	}
	// Output:
	// channel 1: Wheel force X [kN]
}

func ExampleChannel_Rainflow() {
	c := rpc3.NewChannel(1, "FX", "kN", 1, 0.002, "", "")
	c.SetSamples([]float64{0, 4, 0, 4, 0})
	if err := c.Rainflow(1, true, 0); err != nil {
		log.Fatal(err)
	}

	rc := c.RangeCounts()
	for i := 0; i+1 < len(rc); i += 2 {
		fmt.Printf("range %.0f: %.0f cycles\n", rc[i], rc[i+1])
	}
	fmt.Printf("damage at slope 5: %.0f\n", c.Damage(5))
	// Output:
	// range 4: 2 cycles
	// damage at slope 5: 2048
}

func ExampleEqDmgSignal() {
	// A histogram of two cycle amplitudes, repeated 1000 times.
	cycles := []float64{5, -5, 5, -5, 8, 0}
	blocks, err := fatigue.EqDmgSignal([][]float64{cycles}, []float64{1000}, 2, 2500, 5)
	if err != nil {
		log.Fatal(err)
	}

	var damage float64
	for _, b := range blocks {
		damage += b.BlockDamage
	}
	fmt.Printf("blocks: %d\n", len(blocks))
	fmt.Printf("damage preserved: %.4e\n", damage)
	// Output:
	// blocks: 2
	// damage preserved: 2.3277e+08
}
