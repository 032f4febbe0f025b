// Package harness checks the tiled engine against the naive reference.
//
// For each Case it draws uniform inputs in [-1, 1), computes the reference
// matrix with naive.Distance, then runs pairwise.Compute twice through the
// full size-query/execute protocol:
//
//   - direct: identity epilogue, the distance matrix is compared to the reference
//   - fused: a Threshold epilogue writes a thresholded copy into a second
//     buffer, which is compared to the thresholded reference
//
// Both paths must pass for a case to pass.
package harness

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/neerajvashistha/cuml/distance"
	"github.com/neerajvashistha/cuml/internal/mem"
	"github.com/neerajvashistha/cuml/naive"
	"github.com/neerajvashistha/cuml/pairwise"
	"github.com/neerajvashistha/cuml/testutil"
)

const (
	// DefaultTolerance is the comparison tolerance for every distance type.
	DefaultTolerance = 1e-3
	// DefaultSeed seeds input generation when a Case leaves Seed at 0.
	DefaultSeed int64 = 1234
	// DefaultCutoff is the threshold the fused path zeroes values below.
	DefaultCutoff = 0.5

	inputLow  = -1
	inputHigh = 1
)

// Shapes is the (m, n, k) grid of the default cases: square and both
// skinny orientations, at small and large k.
var Shapes = [][3]int{
	{1024, 1024, 32},
	{1024, 32, 1024},
	{32, 1024, 1024},
	{1024, 1024, 1024},
}

// ShortShapes is a reduced grid with the same orientations as Shapes.
var ShortShapes = [][3]int{
	{128, 128, 16},
	{128, 16, 128},
	{16, 128, 128},
	{96, 80, 33},
}

// ParseShape parses "m,n,k" (or "mxnxk") into a shape.
func ParseShape(s string) ([3]int, error) {
	var shape [3]int
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == 'x'
	})
	if len(parts) != 3 {
		return shape, fmt.Errorf("shape %q: want m,n,k", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return shape, fmt.Errorf("shape %q: %w", s, err)
		}
		if v <= 0 {
			return shape, fmt.Errorf("shape %q: dimensions must be positive", s)
		}
		shape[i] = v
	}
	return shape, nil
}

// Case is one parameter set.
type Case struct {
	M, N, K   int
	Type      distance.DistanceType
	Tolerance float64
	Seed      int64
}

func (c Case) String() string {
	return fmt.Sprintf("%s/%dx%dx%d", c.Type, c.M, c.N, c.K)
}

func (c Case) seed() int64 {
	if c.Seed == 0 {
		return DefaultSeed
	}
	return c.Seed
}

func (c Case) tolerance() float64 {
	if c.Tolerance <= 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}

// DefaultCases returns every catalog type crossed with Shapes.
func DefaultCases() []Case {
	return CasesFor(distance.Types(), Shapes)
}

// CasesFor crosses types with shapes at the default tolerance and seed.
func CasesFor(types []distance.DistanceType, shapes [][3]int) []Case {
	cases := make([]Case, 0, len(types)*len(shapes))
	for _, dt := range types {
		for _, s := range shapes {
			cases = append(cases, Case{
				M: s[0], N: s[1], K: s[2],
				Type:      dt,
				Tolerance: DefaultTolerance,
				Seed:      DefaultSeed,
			})
		}
	}
	return cases
}

// Report is the outcome of one case.
type Report struct {
	Case Case
	// Direct compares the identity-epilogue distance matrix with the reference.
	Direct testutil.Mismatch
	// Fused compares the threshold epilogue's output buffer with the thresholded reference.
	Fused testutil.Mismatch
	// WorkspaceBytes is what the size query reported.
	WorkspaceBytes int
	// Reference and Engine are the wall times of the naive run and the direct engine run.
	Reference time.Duration
	Engine    time.Duration
}

// OK reports whether both paths matched.
func (r Report) OK() bool {
	return r.Direct.OK() && r.Fused.OK()
}

// Option configures Run.
type Option func(*config)

type config struct {
	alloc  *mem.Allocator
	cutoff float64
	engine []pairwise.Option
}

// WithAllocator sets the allocator that provides workspaces.
func WithAllocator(a *mem.Allocator) Option {
	return func(c *config) {
		c.alloc = a
	}
}

// WithCutoff overrides DefaultCutoff for the fused path.
func WithCutoff(cutoff float64) Option {
	return func(c *config) {
		c.cutoff = cutoff
	}
}

// WithEngineOptions forwards options to every pairwise.Compute call.
func WithEngineOptions(opts ...pairwise.Option) Option {
	return func(c *config) {
		c.engine = append(c.engine, opts...)
	}
}

func newConfig(opts []Option) config {
	c := config{cutoff: DefaultCutoff}
	for _, fn := range opts {
		fn(&c)
	}
	return c
}

// Threshold returns an epilogue that zeroes values below cutoff and records
// the result at out[idx]. out must hold m*n elements.
func Threshold[AccT distance.Float](cutoff AccT) pairwise.Epilogue[AccT, struct{}, []AccT] {
	return func(v AccT, idx int, _ struct{}, out []AccT) AccT {
		if v < cutoff {
			v = 0
		}
		out[idx] = v
		return v
	}
}

// Inputs returns the X and Y matrices Run uses for c.
// Y is drawn from the generator seeded with seed+1 so the two sets differ.
func Inputs[T distance.Float](c Case) (x, y []T) {
	x = testutil.UniformMatrix[T](c.M, c.K, inputLow, inputHigh, c.seed())
	y = testutil.UniformMatrix[T](c.N, c.K, inputLow, inputHigh, c.seed()+1)
	return x, y
}

// Run executes one case with T as both element and accumulation type.
// Errors are engine or allocation failures; numeric disagreement is reported
// through Report.OK.
func Run[T distance.Float](c Case, opts ...Option) (Report, error) {
	cfg := newConfig(opts)
	rep := Report{Case: c}
	tol := c.tolerance()

	x, y := Inputs[T](c)

	ref := make([]T, c.M*c.N)
	start := time.Now()
	naive.Distance(ref, x, y, c.M, c.N, c.K, c.Type)
	rep.Reference = time.Since(start)

	dist := make([]T, c.M*c.N)
	start = time.Now()
	size, err := compute(cfg, c, x, y, dist, nil, nil)
	if err != nil {
		return rep, fmt.Errorf("direct %s: %w", c, err)
	}
	rep.Engine = time.Since(start)
	rep.WorkspaceBytes = size
	rep.Direct = testutil.Compare(ref, dist, c.M, c.N, tol)

	cutoff := T(cfg.cutoff)
	fused := make([]T, c.M*c.N)
	if _, err := compute(cfg, c, x, y, nil, fused, Threshold(cutoff)); err != nil {
		return rep, fmt.Errorf("fused %s: %w", c, err)
	}
	rep.Fused = compareThresholded(ref, fused, c.M, c.N, cutoff, tol)

	return rep, nil
}

// compute runs the two-call protocol: size query, allocate, execute.
func compute[T distance.Float](
	cfg config, c Case, x, y, dist, aux []T, fin pairwise.Epilogue[T, struct{}, []T],
) (int, error) {
	var size int
	if err := pairwise.Compute(x, y, dist, c.M, c.N, c.K, struct{}{}, aux, c.Type, nil, &size, fin, cfg.engine...); err != nil {
		return 0, err
	}
	ws, err := cfg.alloc.Bytes(size)
	if err != nil {
		return 0, err
	}
	defer cfg.alloc.FreeBytes(ws)

	if err := pairwise.Compute(x, y, dist, c.M, c.N, c.K, struct{}{}, aux, c.Type, ws, nil, fin, cfg.engine...); err != nil {
		return 0, err
	}
	return size, nil
}

// compareThresholded compares got against ref thresholded at cutoff.
// Entries whose reference lies within tolerance of the cutoff may land on
// either side of it in the engine and are not counted.
func compareThresholded[T distance.Float](ref, got []T, rows, cols int, cutoff T, tol float64) testutil.Mismatch {
	want := make([]T, rows*cols)
	for i, v := range ref[:rows*cols] {
		if math.Abs(float64(v)-float64(cutoff)) <= tol*math.Max(1, math.Abs(float64(v))) {
			want[i] = got[i]
			continue
		}
		if v < cutoff {
			v = 0
		}
		want[i] = v
	}
	return testutil.Compare(want, got, rows, cols, tol)
}

// Symmetric reports whether D(X, Y) equals D(Y, X) transposed, within the
// case tolerance, for the inputs Run would draw for c.
func Symmetric[T distance.Float](c Case, opts ...Option) (bool, error) {
	cfg := newConfig(opts)
	x, y := Inputs[T](c)

	xy := make([]T, c.M*c.N)
	if _, err := compute(cfg, c, x, y, xy, nil, nil); err != nil {
		return false, fmt.Errorf("symmetry %s: %w", c, err)
	}
	swapped := c
	swapped.M, swapped.N = c.N, c.M
	yx := make([]T, c.M*c.N)
	if _, err := compute(cfg, swapped, y, x, yx, nil, nil); err != nil {
		return false, fmt.Errorf("symmetry %s: %w", swapped, err)
	}

	a := mat.NewDense(c.M, c.N, toFloat64(xy))
	b := mat.NewDense(c.N, c.M, toFloat64(yx))
	return mat.EqualApprox(a, b.T(), c.tolerance()), nil
}

func toFloat64[T distance.Float](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
