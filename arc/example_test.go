package arc_test

import (
	"fmt"

	cachesim "github.com/djdv/go-cachesim"
	"github.com/djdv/go-cachesim/arc"
)

func ExampleCache() {
	const (
		capacity = 1024
		id       = 1
		size     = 100
	)
	cache, err := arc.New(cachesim.Params{Capacity: capacity}, nil)
	if err != nil {
		panic(err)
	}
	req := cachesim.NewRequest(id, size)
	fmt.Println(cache.Get(req))
	fmt.Println(cache.Get(req))
	fmt.Printf("%d bytes in %d object\n",
		cache.OccupiedSize(), cache.ObjectCount())
	// Output:
	// miss
	// hit
	// 100 bytes in 1 object
}
