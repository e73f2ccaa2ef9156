package life

import (
	"fmt"
	"math/rand"
	"testing"

	"lifeaccel/internal/pool"
)

func BenchmarkStep(b *testing.B) {
	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("256x256-workers%d", workers), func(b *testing.B) {
			p, err := pool.New(workers)
			if err != nil {
				b.Fatalf("pool.New: %v", err)
			}
			defer p.Close()
			g, err := NewGrid(256, 256, 1)
			if err != nil {
				b.Fatalf("NewGrid: %v", err)
			}
			g.Randomize(rand.New(rand.NewSource(1)), 0.3)
			s := NewSim(g, p)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Step()
			}
		})
	}
}

func BenchmarkConvStep(b *testing.B) {
	g, err := NewGrid(256, 256, 1)
	if err != nil {
		b.Fatalf("NewGrid: %v", err)
	}
	g.Randomize(rand.New(rand.NewSource(1)), 0.3)
	c := NewConvSim(g)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Step()
	}
}

func BenchmarkLiveCount(b *testing.B) {
	g, err := NewGrid(512, 512, 1)
	if err != nil {
		b.Fatalf("NewGrid: %v", err)
	}
	g.Randomize(rand.New(rand.NewSource(1)), 0.3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.LiveCount()
	}
}
