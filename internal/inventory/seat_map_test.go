package inventory

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeatMap() *SeatMap {
	return NewSeatMap(decimal.NewFromInt(6500), domain.Layout())
}

func TestSeatMap_Reserve(t *testing.T) {
	m := newTestSeatMap()

	assert.True(t, m.Reserve("1A"))
	assert.True(t, m.IsReserved("1A"))
	assert.False(t, m.Reserve("1A"), "second reserve of the same seat must fail")
	assert.False(t, m.Reserve("9Z"), "unknown seat")
	assert.False(t, m.IsReserved("9Z"))
}

func TestSeatMap_Has(t *testing.T) {
	m := newTestSeatMap()

	assert.True(t, m.Has("1A"))
	assert.True(t, m.Has("6D"))
	assert.False(t, m.Has("7A"))
	assert.False(t, m.Has("1a"))
}

func TestSeatMap_Release(t *testing.T) {
	m := newTestSeatMap()

	require.True(t, m.Reserve("3B"))
	m.Release("3B")
	assert.False(t, m.IsReserved("3B"))

	// idempotent, unknown seats are ignored
	m.Release("3B")
	m.Release("nope")
	assert.True(t, m.Reserve("3B"))
}

func TestSeatMap_Available(t *testing.T) {
	m := newTestSeatMap()
	require.Len(t, m.Available(), 24)

	require.True(t, m.Reserve("1A"))
	require.True(t, m.Reserve("6D"))

	free := m.Available()
	assert.Len(t, free, 22)
	assert.Equal(t, "1B", free[0].ID)
	for _, s := range free {
		assert.NotEqual(t, "1A", s.ID)
		assert.NotEqual(t, "6D", s.ID)
	}

	// snapshot, not a live view
	free[0].Reserved = true
	assert.False(t, m.IsReserved("1B"))
}

func TestSeatMap_Seats(t *testing.T) {
	m := newTestSeatMap()
	require.True(t, m.Reserve("2C"))

	all := m.Seats()
	assert.Len(t, all, 24)
	for _, s := range all {
		assert.Equal(t, s.ID == "2C", s.Reserved, s.ID)
	}
}

func TestSeatMap_PriceFor(t *testing.T) {
	m := newTestSeatMap()

	price, ok := m.PriceFor("1A")
	assert.True(t, ok)
	assert.Equal(t, "11700", price.String())

	price, ok = m.PriceFor("4C")
	assert.True(t, ok)
	assert.Equal(t, "6500", price.String())

	_, ok = m.PriceFor("7A")
	assert.False(t, ok)
}

func TestSeatMap_ConcurrentReserveSameSeat(t *testing.T) {
	m := newTestSeatMap()

	const workers = 64
	var (
		wg      sync.WaitGroup
		success int32
		start   = make(chan struct{})
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if m.Reserve("1A") {
				atomic.AddInt32(&success, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), success)
}

func TestSeatMap_ConcurrentReserveDifferentSeats(t *testing.T) {
	m := newTestSeatMap()
	seats := domain.Layout()

	var wg sync.WaitGroup
	results := make([]bool, len(seats))
	for i, s := range seats {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = m.Reserve(id)
		}(i, s.ID)
	}
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, seats[i].ID)
	}
	assert.Empty(t, m.Available())
}
