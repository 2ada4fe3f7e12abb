package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithNodeTransforms bakes each node's world transform into the extracted points.
// By default points stay in mesh space, as stored in the asset.
//
// Parameters:
//   - enabled: whether to apply node transforms
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithNodeTransforms(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.nodeTransforms = enabled
	}
}

// WithPointCloud pre-populates the cache with a point cloud.
//
// Parameters:
//   - key: the cache key
//   - pc: the point cloud to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithPointCloud(key string, pc *PointCloud) LoaderBuilderOption {
	return func(l *loader) {
		if pc != nil {
			l.cache[key] = pc
		}
	}
}
