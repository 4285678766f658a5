package rs

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/ethp2p/rs-codec/field"
)

func gf256Coder(t *testing.T, n, k int) *Coder {
	t.Helper()
	c, err := NewCoder(field.NewGF256(), n, k)
	if err != nil {
		t.Fatalf("NewCoder(%d, %d) failed: %v", n, k, err)
	}
	return c
}

func primeCoder(t *testing.T, p uint, n, k int) *Coder {
	t.Helper()
	f, err := field.NewPrimeField(p)
	if err != nil {
		t.Fatalf("NewPrimeField(%d) failed: %v", p, err)
	}
	c, err := NewCoder(f, n, k)
	if err != nil {
		t.Fatalf("NewCoder(%d, %d) failed: %v", n, k, err)
	}
	return c
}

func randomMessage(rng *rand.Rand, f field.Field, length int) []uint {
	msg := make([]uint, length)
	for i := range msg {
		msg[i] = uint(rng.Intn(int(f.Size())))
	}
	return msg
}

// corrupt flips count symbols of the word at distinct random positions,
// replacing each with a different in-range value
func corrupt(rng *rand.Rand, f field.Field, word []uint, count int) []uint {
	out := make([]uint, len(word))
	copy(out, word)
	positions := rng.Perm(len(word))[:count]
	for _, pos := range positions {
		delta := uint(rng.Intn(int(f.Size())-1)) + 1
		if _, ok := f.(*field.GF256); ok {
			out[pos] ^= delta
		} else {
			out[pos] = (out[pos] + delta) % f.Size()
		}
	}
	return out
}

func equalSymbols(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewCoder(t *testing.T) {
	t.Run("valid configurations", func(t *testing.T) {
		for _, tc := range [][2]int{{255, 223}, {20, 13}, {2, 1}} {
			c := gf256Coder(t, tc[0], tc[1])
			if c.N() != tc[0] || c.K() != tc[1] {
				t.Errorf("coder reports (%d, %d), want (%d, %d)", c.N(), c.K(), tc[0], tc[1])
			}
			if want := (tc[0] - tc[1]) / 2; c.Correctable() != want {
				t.Errorf("Correctable() = %d, want %d", c.Correctable(), want)
			}
			if got := c.Generator().Degree(); got != tc[0]-tc[1] {
				t.Errorf("deg(g) = %d, want %d", got, tc[0]-tc[1])
			}
		}
	})

	t.Run("invalid configurations", func(t *testing.T) {
		f := field.NewGF256()
		for _, tc := range [][2]int{
			{10, 0},   // k too small
			{10, 10},  // k not less than n
			{10, 12},  // k greater than n
			{256, 10}, // n not less than field size
		} {
			if _, err := NewCoder(f, tc[0], tc[1]); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewCoder(%d, %d) = %v, want ErrInvalidConfig", tc[0], tc[1], err)
			}
		}
	})

	t.Run("generator divides encoded words", func(t *testing.T) {
		c := gf256Coder(t, 20, 13)
		cw, err := c.EncodePolynomial([]uint{9, 8, 7})
		if err != nil {
			t.Fatalf("EncodePolynomial failed: %v", err)
		}
		r, err := cw.Mod(c.Generator())
		if err != nil {
			t.Fatal(err)
		}
		if !r.IsZero() {
			t.Error("codeword polynomial is not a multiple of g")
		}
	})
}

func TestEncode(t *testing.T) {
	c := gf256Coder(t, 20, 13)

	t.Run("output length is always n", func(t *testing.T) {
		for _, msg := range [][]uint{{}, {1}, {0, 0, 5}, randomMessage(rand.New(rand.NewSource(1)), c.Field(), 13)} {
			cw, err := c.Encode(msg)
			if err != nil {
				t.Fatalf("Encode(%v) failed: %v", msg, err)
			}
			if len(cw) != c.N() {
				t.Errorf("Encode(%v) returned %d symbols, want %d", msg, len(cw), c.N())
			}
		}
	})

	t.Run("systematic layout", func(t *testing.T) {
		msg := []uint{72, 101, 108, 108, 111}
		cw, err := c.Encode(msg)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		// Short messages are left-padded with zero symbols up to k
		for i := 0; i < c.K()-len(msg); i++ {
			if cw[i] != 0 {
				t.Errorf("pad symbol %d = %d, want 0", i, cw[i])
			}
		}
		if !equalSymbols(cw[c.K()-len(msg):c.K()], msg) {
			t.Error("message symbols not preserved in codeword")
		}
	})

	t.Run("message too long", func(t *testing.T) {
		if _, err := c.Encode(make([]uint, c.K()+1)); !errors.Is(err, ErrInputTooLong) {
			t.Errorf("Encode = %v, want ErrInputTooLong", err)
		}
	})

	t.Run("out of range symbol", func(t *testing.T) {
		if _, err := c.Encode([]uint{1, 256}); !errors.Is(err, field.ErrOutOfRange) {
			t.Errorf("Encode = %v, want ErrOutOfRange", err)
		}
	})
}

func TestVerify(t *testing.T) {
	c := gf256Coder(t, 20, 13)
	rng := rand.New(rand.NewSource(2))

	cw, err := c.Encode(randomMessage(rng, c.Field(), c.K()))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	t.Run("valid codeword", func(t *testing.T) {
		ok, err := c.Verify(cw)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if !ok {
			t.Error("Verify rejected a valid codeword")
		}
	})

	t.Run("every single-symbol perturbation fails", func(t *testing.T) {
		for pos := 0; pos < c.N(); pos++ {
			bad := make([]uint, len(cw))
			copy(bad, cw)
			bad[pos] ^= 1 + uint(rng.Intn(255))
			ok, err := c.Verify(bad)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if ok {
				t.Errorf("Verify accepted a word perturbed at position %d", pos)
			}
		}
	})

	t.Run("wrong length", func(t *testing.T) {
		if _, err := c.Verify(cw[:c.N()-1]); !errors.Is(err, ErrWrongLength) {
			t.Errorf("Verify = %v, want ErrWrongLength", err)
		}
	})
}

func TestRoundTripNoErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, tc := range []struct {
		name string
		c    *Coder
	}{
		{"GF(256) (255,223)", gf256Coder(t, 255, 223)},
		{"GF(256) (20,13)", gf256Coder(t, 20, 13)},
		{"GF(59) (40,20)", primeCoder(t, 59, 40, 20)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for trial := 0; trial < 20; trial++ {
				length := rng.Intn(tc.c.K()) + 1
				msg := randomMessage(rng, tc.c.Field(), length)

				cw, err := tc.c.Encode(msg)
				if err != nil {
					t.Fatalf("Encode failed: %v", err)
				}
				got, err := tc.c.DecodeFull(cw)
				if err != nil {
					t.Fatalf("DecodeFull failed: %v", err)
				}

				want := make([]uint, tc.c.K())
				copy(want[tc.c.K()-length:], msg)
				if !equalSymbols(got, want) {
					t.Fatalf("DecodeFull = %v, want %v", got, want)
				}
			}
		})
	}
}

func TestDecodeStripsLeadingZeros(t *testing.T) {
	c := gf256Coder(t, 20, 13)

	t.Run("leading zeros stripped by default", func(t *testing.T) {
		msg := []uint{0, 0, 5, 0, 9}
		cw, err := c.Encode(msg)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := c.Decode(cw)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !equalSymbols(got, []uint{5, 0, 9}) {
			t.Errorf("Decode = %v, want [5 0 9]", got)
		}
	})

	t.Run("DecodeFull keeps exactly k symbols", func(t *testing.T) {
		msg := []uint{0, 0, 5}
		cw, err := c.Encode(msg)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := c.DecodeFull(cw)
		if err != nil {
			t.Fatalf("DecodeFull failed: %v", err)
		}
		if len(got) != c.K() {
			t.Fatalf("DecodeFull returned %d symbols, want %d", len(got), c.K())
		}
		want := make([]uint, c.K())
		copy(want[c.K()-len(msg):], msg)
		if !equalSymbols(got, want) {
			t.Errorf("DecodeFull = %v, want %v", got, want)
		}
	})

	t.Run("all-zero message", func(t *testing.T) {
		cw, err := c.Encode([]uint{0, 0})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := c.Decode(cw)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Decode = %v, want empty", got)
		}
		full, err := c.DecodeFull(cw)
		if err != nil {
			t.Fatalf("DecodeFull failed: %v", err)
		}
		if !equalSymbols(full, make([]uint, c.K())) {
			t.Errorf("DecodeFull = %v, want all zeros", full)
		}
	})
}

// TestHelloWorld reproduces the (20, 13) scenario: a 13-symbol text message
// survives the loss of its first 3 codeword symbols.
func TestHelloWorld(t *testing.T) {
	c := gf256Coder(t, 20, 13)

	msg := make([]uint, 0, 13)
	for _, b := range []byte("Hello, world!") {
		msg = append(msg, uint(b))
	}

	cw, err := c.Encode(msg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(cw) != 20 {
		t.Fatalf("Encode returned %d symbols, want 20", len(cw))
	}

	// Zero out the first 3 symbols; 3 errors is exactly the correction
	// capacity of a (20, 13) code
	damaged := make([]uint, len(cw))
	copy(damaged, cw)
	damaged[0], damaged[1], damaged[2] = 0, 0, 0

	got, err := c.Decode(damaged)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !equalSymbols(got, msg) {
		t.Errorf("Decode = %v, want %v", got, msg)
	}
}

func TestBoundedErrorCorrection(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	for _, tc := range []struct {
		name string
		c    *Coder
	}{
		{"GF(256) (255,223)", gf256Coder(t, 255, 223)},
		{"GF(256) (20,13)", gf256Coder(t, 20, 13)},
		{"GF(59) (40,20)", primeCoder(t, 59, 40, 20)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for count := 0; count <= tc.c.Correctable(); count++ {
				for trial := 0; trial < 10; trial++ {
					msg := randomMessage(rng, tc.c.Field(), tc.c.K())
					cw, err := tc.c.Encode(msg)
					if err != nil {
						t.Fatalf("Encode failed: %v", err)
					}

					received := corrupt(rng, tc.c.Field(), cw, count)
					got, err := tc.c.DecodeFull(received)
					if err != nil {
						t.Fatalf("DecodeFull with %d errors failed: %v", count, err)
					}
					if !equalSymbols(got, msg) {
						t.Fatalf("DecodeFull with %d errors = %v, want %v", count, got, msg)
					}
				}
			}
		})
	}
}

// TestExhaustiveSmallField sweeps every message and every corruption of up
// to 2 symbols for a (6, 2) code over GF(7).
func TestExhaustiveSmallField(t *testing.T) {
	c := primeCoder(t, 7, 6, 2)
	if c.Correctable() != 2 {
		t.Fatalf("Correctable() = %d, want 2", c.Correctable())
	}

	for m0 := uint(0); m0 < 7; m0++ {
		for m1 := uint(0); m1 < 7; m1++ {
			msg := []uint{m0, m1}
			cw, err := c.Encode(msg)
			if err != nil {
				t.Fatalf("Encode(%v) failed: %v", msg, err)
			}

			// Single errors
			for pos := 0; pos < 6; pos++ {
				for delta := uint(1); delta < 7; delta++ {
					received := make([]uint, 6)
					copy(received, cw)
					received[pos] = (received[pos] + delta) % 7

					got, err := c.DecodeFull(received)
					if err != nil {
						t.Fatalf("DecodeFull failed for msg %v, error at %d: %v", msg, pos, err)
					}
					if !equalSymbols(got, msg) {
						t.Fatalf("DecodeFull = %v, want %v (error at %d)", got, msg, pos)
					}
				}
			}

			// Double errors
			for p1 := 0; p1 < 6; p1++ {
				for p2 := p1 + 1; p2 < 6; p2++ {
					for d1 := uint(1); d1 < 7; d1++ {
						for d2 := uint(1); d2 < 7; d2++ {
							received := make([]uint, 6)
							copy(received, cw)
							received[p1] = (received[p1] + d1) % 7
							received[p2] = (received[p2] + d2) % 7

							got, err := c.DecodeFull(received)
							if err != nil {
								t.Fatalf("DecodeFull failed for msg %v, errors at %d,%d: %v", msg, p1, p2, err)
							}
							if !equalSymbols(got, msg) {
								t.Fatalf("DecodeFull = %v, want %v (errors at %d,%d)", got, msg, p1, p2)
							}
						}
					}
				}
			}
		}
	}
}

// TestOverThresholdDetection corrupts one symbol more than the code can
// correct. A bounded-distance decoder cannot promise to flag every such
// word, but it must never return the original message, and adversarial
// cases that fail closed with ErrUncorrectable must exist.
func TestOverThresholdDetection(t *testing.T) {
	c := primeCoder(t, 7, 6, 2)
	msg := []uint{3, 4}
	cw, err := c.Encode(msg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	uncorrectable := 0
	for p1 := 0; p1 < 6; p1++ {
		for p2 := p1 + 1; p2 < 6; p2++ {
			for p3 := p2 + 1; p3 < 6; p3++ {
				for delta := uint(1); delta < 7; delta++ {
					received := make([]uint, 6)
					copy(received, cw)
					received[p1] = (received[p1] + delta) % 7
					received[p2] = (received[p2] + delta) % 7
					received[p3] = (received[p3] + delta) % 7

					got, err := c.DecodeFull(received)
					if err != nil {
						if !errors.Is(err, ErrUncorrectable) {
							t.Fatalf("DecodeFull = %v, want ErrUncorrectable", err)
						}
						uncorrectable++
						continue
					}
					// A word at distance 3 from the true codeword can
					// only decode to some other codeword
					if equalSymbols(got, msg) {
						t.Fatalf("3-error corruption at %d,%d,%d decoded back to the original message", p1, p2, p3)
					}
				}
			}
		}
	}

	if uncorrectable == 0 {
		t.Error("no 3-error corruption was reported as uncorrectable")
	}
}

func TestDecodeInputValidation(t *testing.T) {
	c := gf256Coder(t, 20, 13)

	t.Run("wrong length", func(t *testing.T) {
		for _, length := range []int{0, 19, 21} {
			if _, err := c.Decode(make([]uint, length)); !errors.Is(err, ErrWrongLength) {
				t.Errorf("Decode with %d symbols = %v, want ErrWrongLength", length, err)
			}
		}
	})

	t.Run("out of range symbol", func(t *testing.T) {
		received := make([]uint, 20)
		received[7] = 999
		if _, err := c.Decode(received); !errors.Is(err, field.ErrOutOfRange) {
			t.Errorf("Decode = %v, want ErrOutOfRange", err)
		}
	})
}

// TestConcurrentUse exercises a shared Coder from many goroutines; the
// coder is immutable after construction, so this must be race-free.
func TestConcurrentUse(t *testing.T) {
	c := gf256Coder(t, 20, 13)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for trial := 0; trial < 50; trial++ {
				msg := randomMessage(rng, c.Field(), c.K())
				cw, err := c.Encode(msg)
				if err != nil {
					t.Errorf("Encode failed: %v", err)
					return
				}
				received := corrupt(rng, c.Field(), cw, rng.Intn(c.Correctable()+1))
				got, err := c.DecodeFull(received)
				if err != nil {
					t.Errorf("DecodeFull failed: %v", err)
					return
				}
				if !equalSymbols(got, msg) {
					t.Errorf("DecodeFull = %v, want %v", got, msg)
					return
				}
			}
		}(int64(g))
	}
	wg.Wait()
}
