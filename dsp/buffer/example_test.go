package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
)

func ExampleRing() {
	r := buffer.NewRing(4)
	r.Write([]float64{1, 2, 3})
	r.Write([]float64{4, 5})

	fmt.Println(r.Snapshot(nil))

	// Output:
	// [2 3 4 5]
}
