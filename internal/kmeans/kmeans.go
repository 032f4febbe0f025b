package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/neerajvashistha/cuml/distance"
	"github.com/neerajvashistha/cuml/internal/mem"
	"github.com/neerajvashistha/cuml/pairwise"
)

// TrainKMeans trains k centroids from the given vectors using Lloyd's algorithm.
// It returns the flattened centroids (k * dim).
//
// Every assignment step is a single points × centroids distance computation.
func TrainKMeans(ctx context.Context, vectors []float32, dim int, k int, dt distance.DistanceType, maxIter int) ([]float32, error) {
	if _, err := distance.Lookup(dt); err != nil {
		return nil, err
	}
	if dim <= 0 || k <= 0 {
		return nil, fmt.Errorf("%w: dim=%d k=%d", pairwise.ErrInvalidShape, dim, k)
	}
	n := len(vectors) / dim
	if n < k {
		return nil, nil // Not enough vectors to cluster
	}

	centroids := make([]float32, k*dim)

	// Initialize centroids randomly from data points
	perm := rand.Perm(n)
	for i := 0; i < k; i++ {
		copy(centroids[i*dim:(i+1)*dim], vectors[perm[i]*dim:(perm[i]+1)*dim])
	}

	a, err := newAssigner(dt, n, k, dim)
	if err != nil {
		return nil, err
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	labels := make([]int, n)
	counts := make([]int, k)
	sums := make([]float32, k*dim)

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Assignment step
		if err := a.assign(vectors, centroids, labels); err != nil {
			return nil, err
		}
		changed := false
		for i, l := range labels {
			if assignments[i] != l {
				assignments[i] = l
				changed = true
			}
		}

		if !changed {
			break
		}

		// Update step
		clear(sums)
		clear(counts)

		for i := 0; i < n; i++ {
			cluster := assignments[i]
			vec := vectors[i*dim : (i+1)*dim]
			for d := 0; d < dim; d++ {
				sums[cluster*dim+d] += vec[d]
			}
			counts[cluster]++
		}

		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				scale := 1.0 / float32(counts[j])
				for d := 0; d < dim; d++ {
					centroids[j*dim+d] = sums[j*dim+d] * scale
				}
			} else {
				// Re-initialize empty cluster with a random point
				idx := rand.Intn(n)
				copy(centroids[j*dim:(j+1)*dim], vectors[idx*dim:(idx+1)*dim])
			}
		}
	}

	return centroids, nil
}

// AssignPartition finds the closest centroid for a vector.
func AssignPartition(vec []float32, centroids []float32, dim int, dt distance.DistanceType) (int, error) {
	if _, err := distance.Lookup(dt); err != nil {
		return -1, err
	}
	if dim <= 0 {
		return -1, fmt.Errorf("%w: dim=%d", pairwise.ErrInvalidShape, dim)
	}
	k := len(centroids) / dim

	a, err := newAssigner(dt, 1, k, dim)
	if err != nil {
		return -1, err
	}
	labels := make([]int, 1)
	if err := a.assign(vec, centroids, labels); err != nil {
		return -1, err
	}
	return labels[0], nil
}

type centroidDist struct {
	id   int
	dist float32
}

// FindClosestCentroids returns the indices of the n closest centroids to the query vector.
func FindClosestCentroids(query []float32, centroids []float32, dim int, n int, dt distance.DistanceType) ([]int, error) {
	if _, err := distance.Lookup(dt); err != nil {
		return nil, err
	}
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dim=%d", pairwise.ErrInvalidShape, dim)
	}
	k := len(centroids) / dim
	if n > k {
		n = k
	}

	a, err := newAssigner(dt, 1, k, dim)
	if err != nil {
		return nil, err
	}
	if err := a.scores(query, centroids); err != nil {
		return nil, err
	}

	dists := make([]centroidDist, k)
	for i, d := range a.dist {
		dists[i] = centroidDist{id: i, dist: d}
	}

	sort.Slice(dists, func(i, j int) bool {
		return dists[i].dist < dists[j].dist
	})

	result := make([]int, n)
	for i := 0; i < n; i++ {
		result[i] = dists[i].id
	}

	return result, nil
}

// assigner holds the buffers for repeated points × centroids computations
// of a fixed shape.
type assigner struct {
	dt    distance.DistanceType
	n, k  int
	dim   int
	ws    []byte
	dist  []float32
	score pairwise.Epilogue[float32, struct{}, struct{}]
}

func newAssigner(dt distance.DistanceType, n, k, dim int) (*assigner, error) {
	var size int
	if err := pairwise.Compute[float32, float32, struct{}, struct{}](
		nil, nil, nil, n, k, dim, struct{}{}, struct{}{}, dt, nil, &size, nil,
	); err != nil {
		return nil, err
	}

	var alloc *mem.Allocator
	ws, err := alloc.Bytes(size)
	if err != nil {
		return nil, err
	}
	dist, err := mem.Allocate[float32](alloc, n*k)
	if err != nil {
		return nil, err
	}

	return &assigner{
		dt:    dt,
		n:     n,
		k:     k,
		dim:   dim,
		ws:    ws,
		dist:  dist,
		score: scoreFor(dt),
	}, nil
}

// scoreFor returns the epilogue that turns a distance into a score where
// smaller is closer. Cosine is a similarity and gets negated.
func scoreFor(dt distance.DistanceType) pairwise.Epilogue[float32, struct{}, struct{}] {
	if dt == distance.EucExpandedCosine {
		return func(v float32, _ int, _ struct{}, _ struct{}) float32 { return -v }
	}
	return nil
}

// scores fills a.dist with the score of every (point, centroid) pair.
func (a *assigner) scores(points, centroids []float32) error {
	return pairwise.Compute(points, centroids, a.dist, a.n, a.k, a.dim,
		struct{}{}, struct{}{}, a.dt, a.ws, nil, a.score)
}

// assign stores the index of the closest centroid of every point in labels.
func (a *assigner) assign(points, centroids []float32, labels []int) error {
	if err := a.scores(points, centroids); err != nil {
		return err
	}
	for i := range a.n {
		row := a.dist[i*a.k : (i+1)*a.k]
		best, bestScore := 0, float32(math.Inf(1))
		for j, d := range row {
			if d < bestScore {
				best, bestScore = j, d
			}
		}
		labels[i] = best
	}
	return nil
}
