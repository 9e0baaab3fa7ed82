package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
)

func ExampleMulti() {
	block := buffer.FromChannels([][]float64{
		{1, 1, 1, 1},
		{2, 2, 2, 2},
	})

	block.ApplyGainRamp(0, 2, 0, 1)

	fmt.Println(block.Channel(0))
	fmt.Println(block.Channel(1))

	// Output:
	// [0 0.5 1 1]
	// [0 1 2 2]
}
