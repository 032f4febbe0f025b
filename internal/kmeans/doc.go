// Package kmeans implements k-means clustering on top of the pairwise engine.
//
// Every assignment step is a single points × centroids distance matrix,
// so the clustering inherits the engine's tiling and parallelism.
package kmeans
