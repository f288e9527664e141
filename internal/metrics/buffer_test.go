package metrics

import (
	"sync"
	"testing"
	"time"
)

func pushValues(buf *CircularBuffer[DataPoint], base time.Time, values ...float64) {
	for i, v := range values {
		buf.Push(NewDataPointAt(base.Add(time.Duration(i)*time.Second), v))
	}
}

func TestCircularBuffer_Eviction(t *testing.T) {
	buf := NewCircularBuffer[DataPoint](3)
	pushValues(buf, time.Now(), 1, 2, 3, 4)

	if buf.Len() != 3 {
		t.Errorf("expected len 3 after eviction, got %d", buf.Len())
	}

	values := Values(buf.All())
	expected := []float64{2, 3, 4}
	for i, v := range values {
		if v != expected[i] {
			t.Errorf("expected value[%d]=%f, got %f", i, expected[i], v)
		}
	}
}

func TestCircularBuffer_Recent(t *testing.T) {
	buf := NewCircularBuffer[DataPoint](5)
	pushValues(buf, time.Now(), 1, 2, 3, 4, 5)

	recent := buf.Recent(3)
	expected := []float64{3, 4, 5}
	if len(recent) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(recent))
	}
	for i, dp := range recent {
		if dp.Value != expected[i] {
			t.Errorf("expected value[%d]=%f, got %f", i, expected[i], dp.Value)
		}
	}

	if all := buf.Recent(10); len(all) != 5 {
		t.Errorf("expected 5 elements, got %d", len(all))
	}
	if none := buf.Recent(0); none != nil {
		t.Error("expected nil for zero request")
	}
}

func TestCircularBuffer_InRange(t *testing.T) {
	buf := NewCircularBuffer[DataPoint](10)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	buf.Push(NewDataPointAt(now.Add(-5*time.Minute), 1))
	buf.Push(NewDataPointAt(now.Add(-3*time.Minute), 2))
	buf.Push(NewDataPointAt(now.Add(-1*time.Minute), 3))
	buf.Push(NewDataPointAt(now, 4))

	r, err := NewCustomRange(now.Add(-2*time.Minute), now)
	if err != nil {
		t.Fatal(err)
	}
	points := buf.InRange(r)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Value != 3 || points[1].Value != 4 {
		t.Errorf("unexpected points %+v", points)
	}
}

func TestCircularBuffer_LatestAndClear(t *testing.T) {
	buf := NewCircularBuffer[DataPoint](5)

	if _, ok := buf.Latest(); ok {
		t.Error("expected false for empty buffer")
	}

	pushValues(buf, time.Now(), 1, 2, 3)
	latest, ok := buf.Latest()
	if !ok || latest.Value != 3 {
		t.Errorf("expected latest 3, got %v (%v)", latest.Value, ok)
	}

	buf.Clear()
	if buf.Len() != 0 {
		t.Errorf("expected len 0 after clear, got %d", buf.Len())
	}
	if buf.All() != nil {
		t.Error("expected nil entries after clear")
	}
}

func TestCircularBuffer_ZeroTimestampDropped(t *testing.T) {
	buf := NewCircularBuffer[DataPoint](5)
	buf.Push(DataPoint{Value: 1})
	if buf.Len() != 0 {
		t.Error("zero timestamp should not be added")
	}
}

func TestCircularBuffer_Concurrent(t *testing.T) {
	buf := NewCircularBuffer[DataPoint](1000)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf.Push(NewDataPointAt(time.Now(), float64(id*100+j)))
			}
		}(i)
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = buf.All()
				_, _ = buf.Latest()
			}
		}()
	}
	wg.Wait()

	if buf.Len() != 1000 {
		t.Errorf("expected len 1000, got %d", buf.Len())
	}
}

func BenchmarkCircularBuffer_Push(b *testing.B) {
	buf := NewCircularBuffer[DataPoint](DefaultBufferCapacity)
	dp := NewDataPointAt(time.Now(), 1.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Push(dp)
	}
}
