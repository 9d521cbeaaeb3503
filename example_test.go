package squant_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/squant"
	"github.com/hupe1980/squant/fvecs"
)

func Example() {
	c, err := squant.New(1)
	if err != nil {
		panic(err)
	}

	values := []float32{
		0, 10,
		1, 11,
		4, 14,
	}

	batch, err := c.Quantize(context.Background(), values, 3, 2)
	if err != nil {
		panic(err)
	}

	fmt.Println(batch.Params())
	fmt.Println(batch.Codes())
	// Output:
	// [{0.01568627450980392 0} {0.01568627450980392 10}]
	// [0 0 64 64 255 255]
}

func ExampleCompressor_QuantizeSource() {
	ctx := context.Background()

	var values []float32
	for i := range 100 {
		values = append(values, float32(i), float32(-i))
	}

	src, err := fvecs.NewMemorySource(values, 2)
	if err != nil {
		panic(err)
	}

	c, err := squant.New(0.5)
	if err != nil {
		panic(err)
	}

	batch, err := c.QuantizeSource(ctx, src, 100, squant.LoadOptions{})
	if err != nil {
		panic(err)
	}

	fmt.Println("Number of quantized dimensions:", batch.Dim())
	fmt.Println(batch.Bounds())
	// Output:
	// Number of quantized dimensions: 2
	// [{24 75} {-75 -24}]
}
